package speech

import (
	"context"
	"regexp"
	"strings"
	"sync"
	"time"

	audiotranscriber "github.com/sklyt/whisper/pkg"

	"github.com/subba5076/Pizza-Delivery-agent/internal/domain"
	"github.com/subba5076/Pizza-Delivery-agent/internal/logger"
)

// EarOption configures the Ear.
type EarOption func(*Ear)

// WithRecordDuration sets how long each recording chunk lasts.
func WithRecordDuration(d time.Duration) EarOption {
	return func(e *Ear) { e.recordDuration = d }
}

// WithTempDir sets the directory for temporary WAV files.
func WithTempDir(dir string) EarOption {
	return func(e *Ear) { e.tempDir = dir }
}

// WithListenTimeout caps one push-to-talk capture.
func WithListenTimeout(d time.Duration) EarOption {
	return func(e *Ear) { e.listenTimeout = d }
}

// WithVoice lets the Ear wait for, and interrupt, spoken output.
func WithVoice(v *Voice) EarOption {
	return func(e *Ear) { e.voice = v }
}

// recordFunc records one chunk of the given length and returns its text.
type recordFunc func(ctx context.Context, d time.Duration) string

// Ear captures one spoken utterance from the microphone per Listen call,
// transcribed by a local whisper model. It records short chunks and stops
// on silence or timeout.
type Ear struct {
	whisperBin string
	modelPath  string
	tempDir    string
	log        *logger.Logger
	voice      *Voice

	recordDuration time.Duration
	listenTimeout  time.Duration
	record         recordFunc

	mu        sync.Mutex
	listening bool
}

// NewEar creates a push-to-talk listener.
func NewEar(whisperBin, modelPath string, log *logger.Logger, opts ...EarOption) *Ear {
	e := &Ear{
		whisperBin:     whisperBin,
		modelPath:      modelPath,
		tempDir:        ".pizzabot-stt",
		log:            log,
		recordDuration: 2 * time.Second,
		listenTimeout:  15 * time.Second,
	}
	e.record = e.recordChunk
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Listening reports whether a capture is in progress.
func (e *Ear) Listening() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.listening
}

// Listen records until the speaker goes quiet and returns what was said.
// It returns domain.ErrEmptyTranscript when nothing usable was heard.
func (e *Ear) Listen(ctx context.Context) (string, error) {
	e.mu.Lock()
	if e.listening {
		e.mu.Unlock()
		return "", domain.ErrEmptyTranscript
	}
	e.listening = true
	e.mu.Unlock()
	defer func() {
		e.mu.Lock()
		e.listening = false
		e.mu.Unlock()
	}()

	if e.voice != nil {
		e.voice.Interrupt()
	}

	deadline := time.After(e.listenTimeout)
	var parts []string
	emptyRuns := 0
	heard := false
	// Before the first words allow a longer pause; after, a short gap ends it.
	const graceEmpty = 3
	const postSpeechEmpty = 1

loop:
	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-deadline:
			e.log.Debug("ear: listen timeout reached")
			break loop
		default:
		}

		chunk := cleanTranscription(e.record(ctx, e.recordDuration))
		if chunk == "" {
			emptyRuns++
			limit := graceEmpty
			if heard {
				limit = postSpeechEmpty
			}
			if emptyRuns >= limit {
				break loop
			}
			continue
		}
		emptyRuns = 0
		heard = true
		e.log.Debug("ear: chunk %q", chunk)
		parts = append(parts, chunk)
	}

	text := strings.TrimSpace(strings.Join(parts, " "))
	if text == "" {
		return "", domain.ErrEmptyTranscript
	}
	e.log.Info("ear: heard %q", text)
	return text, nil
}

// recordChunk records one chunk from the default input device.
func (e *Ear) recordChunk(ctx context.Context, d time.Duration) string {
	var result string
	var wg sync.WaitGroup
	wg.Add(1)

	verbose := e.log.GetLevel() >= logger.LevelVerbose
	t, err := audiotranscriber.NewTranscriber(e.whisperBin, e.modelPath, e.tempDir, "wav",
		func(text string) {
			result = text
			wg.Done()
		}, verbose)
	if err != nil {
		e.log.Error("ear: transcriber init failed: %v", err)
		return ""
	}
	if err := t.Start(); err != nil {
		e.log.Error("ear: recording start failed: %v", err)
		return ""
	}

	select {
	case <-time.After(d):
	case <-ctx.Done():
	}
	t.Stop()
	wg.Wait()
	return result
}

// ── Transcription cleanup ────────────────────────────────────────

// envAnnotation matches whisper annotations like "(keyboard clicking)" or "[laughter]".
var envAnnotation = regexp.MustCompile(`[\(\[][a-zA-Z][a-zA-Z_\s]*[\)\]]`)

// timestampPrefix matches "[00:00:00.000 --> 00:00:05.000]".
var timestampPrefix = regexp.MustCompile(`\[\d{2}:\d{2}[:\d.]*\s*-->\s*\d{2}:\d{2}[:\d.]*\]`)

var spaceRuns = regexp.MustCompile(`\s+`)

// Whisper emits these on silence.
var hallucinations = map[string]bool{
	"...":                     true,
	"you":                     true,
	"thank you.":              true,
	"thanks for watching!":    true,
	"thank you for watching.": true,
	"bye.":                    true,
	"the end.":                true,
}

// cleanTranscription strips timestamps, annotations such as
// [BLANK_AUDIO] or (music), and known silence hallucinations.
func cleanTranscription(s string) string {
	s = timestampPrefix.ReplaceAllString(s, " ")
	s = envAnnotation.ReplaceAllString(s, " ")
	s = strings.TrimSpace(spaceRuns.ReplaceAllString(s, " "))
	if hallucinations[strings.ToLower(s)] {
		return ""
	}
	return s
}
