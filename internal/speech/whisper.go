package speech

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/subba5076/Pizza-Delivery-agent/internal/domain"
	"github.com/subba5076/Pizza-Delivery-agent/internal/logger"
)

var _ domain.Transcriber = (*WhisperCLI)(nil)

// WhisperOption configures WhisperCLI.
type WhisperOption func(*WhisperCLI)

// WithFFmpeg converts uploads to 16 kHz mono WAV with the given ffmpeg
// binary before transcription. Browsers record webm/ogg by default.
func WithFFmpeg(bin string) WhisperOption {
	return func(w *WhisperCLI) { w.ffmpegBin = bin }
}

// WithWhisperTempDir sets where uploads are staged.
func WithWhisperTempDir(dir string) WhisperOption {
	return func(w *WhisperCLI) { w.tempDir = dir }
}

// WhisperCLI transcribes uploaded audio clips by running a local
// whisper.cpp binary over a staged file.
type WhisperCLI struct {
	bin       string
	model     string
	ffmpegBin string
	tempDir   string
	log       *logger.Logger
}

// NewWhisperCLI creates a file-based transcriber.
//   - bin:   path to the whisper-cli executable
//   - model: path to the GGML model file
func NewWhisperCLI(bin, model string, log *logger.Logger, opts ...WhisperOption) *WhisperCLI {
	w := &WhisperCLI{bin: bin, model: model, log: log}
	for _, opt := range opts {
		opt(w)
	}
	if _, err := exec.LookPath(bin); err != nil {
		log.Warn("whisper: binary %q not found: %v", bin, err)
	}
	return w
}

// Transcribe stages audio on disk, runs whisper over it, and returns the
// cleaned text. Empty output is not an error here; callers decide.
func (w *WhisperCLI) Transcribe(ctx context.Context, audio []byte) (string, error) {
	if len(audio) == 0 {
		return "", domain.ErrEmptyTranscript
	}

	dir, err := os.MkdirTemp(w.tempDir, "pizzabot-stt-")
	if err != nil {
		return "", fmt.Errorf("whisper: temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	input := filepath.Join(dir, "upload")
	if err := os.WriteFile(input, audio, 0o600); err != nil {
		return "", fmt.Errorf("whisper: stage audio: %w", err)
	}

	wav := input
	if w.ffmpegBin != "" {
		wav = filepath.Join(dir, "clip.wav")
		if out, err := exec.CommandContext(ctx, w.ffmpegBin,
			"-y", "-loglevel", "error", "-i", input, "-ar", "16000", "-ac", "1", wav,
		).CombinedOutput(); err != nil {
			return "", fmt.Errorf("whisper: convert audio: %w: %s", err, truncate(string(out), 200))
		}
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, w.bin, "-m", w.model, "-f", wav, "-nt", "-np")
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("whisper: run: %w: %s", err, truncate(stderr.String(), 200))
	}

	text := cleanTranscription(stdout.String())
	w.log.Debug("whisper: transcribed %d bytes -> %q", len(audio), text)
	return text, nil
}
