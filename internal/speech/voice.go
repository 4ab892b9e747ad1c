package speech

import (
	"context"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/subba5076/Pizza-Delivery-agent/internal/logger"
)

// VoiceOption configures the Voice.
type VoiceOption func(*Voice)

// WithChunkSize sets the approximate max character count per TTS request.
// Longer replies, such as a full order summary, are split at sentence
// boundaries and synthesized in parallel.
func WithChunkSize(n int) VoiceOption {
	return func(v *Voice) { v.chunkSize = n }
}

// WithCache replaces the default in-memory audio cache.
func WithCache(c *AudioCache) VoiceOption {
	return func(v *Voice) { v.cache = c }
}

// Voice serializes all spoken output: queue, chunk, synthesize in
// parallel, play in order. Higher priority requests go first, and
// anything at PriorityNormal or above flushes queued fillers.
type Voice struct {
	tts   Synthesizer
	sink  AudioSink
	log   *logger.Logger
	cache *AudioCache

	mu          sync.Mutex
	queue       []SpeechRequest
	notify      chan struct{}
	speaking    bool
	interrupted bool
	chunkSize   int
}

// NewVoice creates a speech dispatcher.
func NewVoice(tts Synthesizer, sink AudioSink, log *logger.Logger, opts ...VoiceOption) *Voice {
	v := &Voice{
		tts:       tts,
		sink:      sink,
		log:       log,
		notify:    make(chan struct{}, 32),
		chunkSize: 200,
	}
	for _, opt := range opts {
		opt(v)
	}
	if v.cache == nil {
		v.cache = NewAudioCache(tts.Voice(), "", false, 64, log)
	}
	return v
}

// Say queues text at the given priority. Non-blocking.
func (v *Voice) Say(text string, priority Priority) {
	if strings.TrimSpace(text) == "" {
		return
	}
	v.mu.Lock()
	if priority >= PriorityNormal {
		v.flushLowLocked()
	}
	v.queue = append(v.queue, SpeechRequest{Text: text, Priority: priority, QueuedAt: time.Now()})
	qLen := len(v.queue)
	v.mu.Unlock()

	v.log.Debug("voice: queued (priority=%d, queue_len=%d): %s", priority, qLen, truncate(text, 60))

	select {
	case v.notify <- struct{}{}:
	default:
	}
}

func (v *Voice) flushLowLocked() {
	n := 0
	for _, item := range v.queue {
		if item.Priority > PriorityLow {
			v.queue[n] = item
			n++
		}
	}
	v.queue = v.queue[:n]
}

// Busy reports whether the voice is speaking or has queued requests.
// The Ear checks it to avoid recording its own output.
func (v *Voice) Busy() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.speaking || len(v.queue) > 0
}

// QueueLen returns the number of pending requests.
func (v *Voice) QueueLen() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.queue)
}

// Interrupt clears the queue and stops the current clip.
func (v *Voice) Interrupt() {
	v.mu.Lock()
	v.queue = v.queue[:0]
	v.interrupted = true
	v.mu.Unlock()
	v.sink.Stop()
	v.log.Debug("voice: interrupted")
}

// Start launches the processing goroutine. It exits when ctx is cancelled.
func (v *Voice) Start(ctx context.Context) {
	go func() {
		for {
			select {
			case <-ctx.Done():
				v.log.Info("voice stopped")
				return
			case <-v.notify:
				v.drain(ctx)
			}
		}
	}()
	v.log.Info("voice started")
}

func (v *Voice) drain(ctx context.Context) {
	for ctx.Err() == nil {
		v.mu.Lock()
		v.interrupted = false
		v.mu.Unlock()

		item, ok := v.dequeue()
		if !ok {
			return
		}

		v.setSpeaking(true)
		v.process(ctx, item)
		v.setSpeaking(false)
	}
}

func (v *Voice) setSpeaking(b bool) {
	v.mu.Lock()
	v.speaking = b
	v.mu.Unlock()
}

// dequeue pops the highest priority item; ties go to the oldest.
func (v *Voice) dequeue() (SpeechRequest, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if len(v.queue) == 0 {
		return SpeechRequest{}, false
	}
	best := 0
	for i, item := range v.queue {
		if item.Priority > v.queue[best].Priority {
			best = i
		}
	}
	item := v.queue[best]
	v.queue = append(v.queue[:best], v.queue[best+1:]...)
	return item, true
}

func (v *Voice) process(ctx context.Context, req SpeechRequest) {
	chunks := v.splitChunks(req.Text)

	slots := make([][]byte, len(chunks))
	var wg sync.WaitGroup
	for i, chunk := range chunks {
		wg.Add(1)
		go func(i int, text string) {
			defer wg.Done()
			audio, err := v.synthesize(ctx, text)
			if err != nil {
				v.log.Error("voice: chunk %d synthesis failed: %v", i, err)
				return
			}
			slots[i] = audio
		}(i, chunk)
	}
	wg.Wait()

	for i, audio := range slots {
		if audio == nil || ctx.Err() != nil {
			continue
		}
		v.mu.Lock()
		abort := v.interrupted
		v.mu.Unlock()
		if abort {
			return
		}
		if err := v.sink.Play(audio); err != nil {
			v.log.Error("voice: chunk %d playback failed: %v", i, err)
		}
	}
}

func (v *Voice) synthesize(ctx context.Context, text string) ([]byte, error) {
	if audio, ok := v.cache.Get(text); ok {
		return audio, nil
	}
	audio, err := v.tts.Synthesize(ctx, text)
	if err != nil {
		return nil, err
	}
	v.cache.Put(text, audio)
	return audio, nil
}

// Prefetch synthesizes texts in the background so that later Say calls
// start instantly. Already-cached chunks are skipped.
func (v *Voice) Prefetch(ctx context.Context, texts ...string) {
	for _, text := range texts {
		for _, chunk := range v.splitChunks(text) {
			if chunk == "" || v.cache.Has(chunk) {
				continue
			}
			go func(t string) {
				if _, err := v.synthesize(ctx, t); err != nil {
					v.log.Warn("voice: prefetch failed: %v", err)
				}
			}(chunk)
		}
	}
}

// Cache returns the audio cache.
func (v *Voice) Cache() *AudioCache { return v.cache }

// splitChunks breaks text into sentence-aligned chunks of roughly
// chunkSize characters.
func (v *Voice) splitChunks(text string) []string {
	if v.chunkSize <= 0 || len(text) <= v.chunkSize {
		return []string{text}
	}

	var chunks []string
	var cur strings.Builder
	for _, s := range splitSentences(text) {
		if cur.Len() > 0 && cur.Len()+len(s) > v.chunkSize {
			if c := strings.TrimSpace(cur.String()); c != "" {
				chunks = append(chunks, c)
			}
			cur.Reset()
		}
		cur.WriteString(s)
	}
	if c := strings.TrimSpace(cur.String()); c != "" {
		chunks = append(chunks, c)
	}
	return chunks
}

// splitSentences splits after . ! ? or a newline when followed by
// whitespace, so prices like $12.50 stay whole.
func splitSentences(text string) []string {
	var out []string
	var cur strings.Builder
	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		cur.WriteRune(runes[i])
		atEnd := i+1 == len(runes) || unicode.IsSpace(runes[i+1])
		if !isSentenceEnd(runes[i]) || !atEnd {
			continue
		}
		for i+1 < len(runes) && unicode.IsSpace(runes[i+1]) {
			i++
			cur.WriteRune(runes[i])
		}
		out = append(out, cur.String())
		cur.Reset()
	}
	if cur.Len() > 0 {
		out = append(out, cur.String())
	}
	return out
}

func isSentenceEnd(r rune) bool {
	return r == '.' || r == '!' || r == '?' || r == '\n'
}
