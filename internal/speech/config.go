package speech

import "time"

// Default voice for TTS. Full list:
// https://learn.microsoft.com/en-us/azure/ai-services/speech-service/language-support
const DefaultVoice = "en-US-AvaNeural"

// Audio format returned by Azure and expected by the player.
const DefaultAudioFormat = "riff-24khz-16bit-mono-pcm"

// Audio parameters matching the default format.
const (
	SampleRate   = 24000
	ChannelCount = 1
	BitDepth     = 16
)

// Env var names for speech credentials and local whisper.
const (
	EnvAzureSpeechKey    = "AZURE_SPEECH_KEY"
	EnvAzureSpeechRegion = "AZURE_SPEECH_REGION"
	EnvWhisperBin        = "WHISPER_BIN"
	EnvWhisperModel      = "WHISPER_MODEL"
)

// Priority levels for speech requests. Higher value speaks first.
type Priority int

const (
	PriorityLow      Priority = iota // fillers
	PriorityNormal                   // assistant replies
	PriorityHigh                     // order confirmation, completion
	PriorityCritical                 // errors
)

// SpeechRequest is a queued item waiting to be spoken.
type SpeechRequest struct {
	Text     string
	Priority Priority
	QueuedAt time.Time
}
