package engine

import (
	"regexp"
	"strings"
)

// ── Delivery details ─────────────────────────────────────────────

var (
	nameRe    = regexp.MustCompile(`(?i)\b(?:my )?name is\s+(.+?)(?:\.\s|[,;\n]|\s+and\s|\s+(?:phone|number|address)\b|\.?$)`)
	phoneRe   = regexp.MustCompile(`(?:^|[^\d(])(\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4})(?:\D|$)`)
	addressRe = regexp.MustCompile(`(?i)\baddress is\s+(.+?)(?:\.\s|[,;\n]|\s+(?:my )?(?:name|phone)\b|\.?$)`)
)

type delivery struct {
	name, phone, address string
}

// extractDelivery runs the three extractors independently. Misses are
// returned as empty strings.
func extractDelivery(utterance string) delivery {
	var d delivery
	if m := nameRe.FindStringSubmatch(utterance); m != nil {
		d.name = strings.TrimSpace(m[1])
	}
	if m := phoneRe.FindStringSubmatch(utterance); m != nil {
		d.phone = strings.TrimSpace(m[1])
	}
	if m := addressRe.FindStringSubmatch(utterance); m != nil {
		d.address = strings.TrimSpace(m[1])
	}
	return d
}
