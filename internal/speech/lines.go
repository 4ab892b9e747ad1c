// Package speech carries the voice channel of the assistant: whisper-based
// speech-to-text, Azure text-to-speech with an audio cache, and oto playback.
package speech

import "math/rand"

// Short fillers spoken while the assistant waits on the model or the
// microphone. Picked at random so repeated turns don't sound canned.

var listeningFillers = []string{
	"I'm listening.",
	"Go ahead.",
	"Sì?",
	"Yes?",
}

var thinkingFillers = []string{
	"One moment.",
	"Let me check.",
	"Un momento.",
	"Just a second.",
}

// LineListening returns a filler for when the microphone opens.
func LineListening() string {
	return listeningFillers[rand.Intn(len(listeningFillers))]
}

// LineThinking returns a filler for when a reply is being generated.
func LineThinking() string {
	return thinkingFillers[rand.Intn(len(thinkingFillers))]
}

// LineNoAudio is spoken when a recording produced no usable text.
func LineNoAudio() string {
	return "Sorry, I didn't hear anything. Could you say that again?"
}
