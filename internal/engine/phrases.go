package engine

import (
	"regexp"
	"strings"
)

// Recognised phrases. Each table is matched against the normalised utterance
// (trimmed, lower-cased, trailing punctuation stripped) unless noted.

var affirmatives = phraseSet(
	"yes", "y", "correct", "confirm", "all correct", "that's correct",
)

// acknowledgements never count as a size answer.
var acknowledgements = phraseSet(
	"yes", "ok", "confirm", "that's all", "no", "none",
)

// amendmentWords are matched as whole words anywhere in the utterance.
var amendmentWords = regexp.MustCompile(`(?i)\b(remove|change|add)\b`)

// notAmendment are exact utterances that contain an amendment word but are
// not amendment requests.
var notAmendment = phraseSet(
	"i'd like to add",
)

func phraseSet(phrases ...string) map[string]bool {
	m := make(map[string]bool, len(phrases))
	for _, p := range phrases {
		m[p] = true
	}
	return m
}

// normalize lower-cases, trims, and strips trailing punctuation.
func normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.TrimRight(s, ".!?")
	return strings.TrimSpace(strings.ReplaceAll(s, "’", "'"))
}

func isAffirmative(utterance string) bool {
	return affirmatives[normalize(utterance)]
}

func isAcknowledgement(utterance string) bool {
	return acknowledgements[normalize(utterance)]
}

func isAmendment(utterance string) bool {
	if notAmendment[normalize(utterance)] {
		return false
	}
	return amendmentWords.MatchString(utterance)
}
