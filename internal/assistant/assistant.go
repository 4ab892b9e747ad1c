// Package assistant runs order conversations for many sessions at once.
// Each session is processed one turn at a time; sessions never share state.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/subba5076/Pizza-Delivery-agent/internal/conversation"
	"github.com/subba5076/Pizza-Delivery-agent/internal/domain"
	"github.com/subba5076/Pizza-Delivery-agent/internal/engine"
	"github.com/subba5076/Pizza-Delivery-agent/internal/logger"
	"github.com/subba5076/Pizza-Delivery-agent/internal/metrics"
)

// History lines recorded when a conversation starts over.
const (
	historyInit        = "Bot initialized"
	historyAutoRestart = "Session Restarted (Auto)"
)

// Option configures the assistant.
type Option func(*Assistant)

// WithTranscriber enables voice input.
func WithTranscriber(t domain.Transcriber) Option {
	return func(a *Assistant) {
		a.transcriber = t
	}
}

// WithMetrics records session counts and transcriptions into r.
func WithMetrics(r *metrics.Recorder) Option {
	return func(a *Assistant) {
		a.metrics = r
	}
}

// WithClock overrides time.Now. Used by tests.
func WithClock(now func() time.Time) Option {
	return func(a *Assistant) {
		a.now = now
	}
}

// Assistant binds the dialogue engine to a session store.
type Assistant struct {
	eng         *engine.Engine
	store       domain.SessionStore
	transcriber domain.Transcriber
	log         *logger.Logger
	metrics     *metrics.Recorder
	now         func() time.Time

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// New creates an assistant.
func New(eng *engine.Engine, store domain.SessionStore, log *logger.Logger, opts ...Option) *Assistant {
	a := &Assistant{
		eng:   eng,
		store: store,
		log:   log,
		now:   time.Now,
		locks: make(map[string]*sync.Mutex),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Engine returns the dialogue engine.
func (a *Assistant) Engine() *engine.Engine { return a.eng }

// ── Sessions ─────────────────────────────────────────────────────

// Start opens a new session and returns it with the welcome turn.
func (a *Assistant) Start(ctx context.Context) (*domain.Session, *domain.TurnResult, error) {
	now := a.now()
	res := a.eng.Welcome(domain.NewOrderState())

	sess := &domain.Session{
		ID:        uuid.NewString(),
		State:     res.State,
		History:   []domain.Exchange{{User: historyInit, Bot: res.Reply}},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := a.store.Save(ctx, sess); err != nil {
		return nil, nil, fmt.Errorf("saving session: %w", err)
	}
	a.metrics.Sessions(a.store.Len(ctx))

	a.log.Info("started session %s", sess.ID)
	return sess, res, nil
}

// Session returns a copy of a stored session.
func (a *Assistant) Session(ctx context.Context, id string) (*domain.Session, error) {
	sess, err := a.store.Load(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loading session: %w", err)
	}
	return sess, nil
}

// End discards a session.
func (a *Assistant) End(ctx context.Context, id string) error {
	lock := a.lock(id)
	lock.Lock()
	defer lock.Unlock()

	if err := a.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	a.forget(id)
	a.metrics.Sessions(a.store.Len(ctx))
	a.log.Info("ended session %s", id)
	return nil
}

// Evicted drops the bookkeeping for sessions the store removed on its own,
// such as by an idle sweep.
func (a *Assistant) Evicted(ctx context.Context, ids ...string) {
	for _, id := range ids {
		a.forget(id)
	}
	a.metrics.Sessions(a.store.Len(ctx))
}

// ── Turns ────────────────────────────────────────────────────────

// Chat processes one user message for a session. Turns for the same
// session are serialised; turns for different sessions run in parallel.
func (a *Assistant) Chat(ctx context.Context, id, message string) (*domain.TurnResult, error) {
	lock := a.lock(id)
	lock.Lock()
	defer lock.Unlock()

	sess, err := a.store.Load(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.forget(id)
		}
		return nil, fmt.Errorf("loading session: %w", err)
	}

	res := a.eng.ProcessTurn(ctx, sess.History, message, sess.State)

	switch {
	case res.Restarted:
		sess.History = []domain.Exchange{{User: res.UserLine, Bot: res.Reply}}
	case res.Completed:
		// The final summary is shown once; the next turn starts a new order.
		sess.History = []domain.Exchange{{User: historyAutoRestart, Bot: engine.LineWelcome}}
		res.ShowMenu = true
	default:
		sess.History = append(sess.History, domain.Exchange{User: res.UserLine, Bot: res.Reply})
	}
	sess.State = res.State
	sess.UpdatedAt = a.now()

	if err := a.store.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("saving session: %w", err)
	}

	a.log.Debug("session %s turn done, stage=%s", id, res.State.Stage)
	return res, nil
}

// Restart starts the session's conversation over.
func (a *Assistant) Restart(ctx context.Context, id string) (*domain.TurnResult, error) {
	return a.Chat(ctx, id, conversation.RestartCommand)
}

// Transcribe converts recorded audio to text. It does not touch any session.
func (a *Assistant) Transcribe(ctx context.Context, audio []byte) (string, error) {
	if a.transcriber == nil {
		return "", fmt.Errorf("transcription: %w", domain.ErrNotImplemented)
	}
	text, err := a.transcriber.Transcribe(ctx, audio)
	if err == nil && strings.TrimSpace(text) == "" {
		err = domain.ErrEmptyTranscript
	}
	a.metrics.Transcription(err)
	if err != nil {
		a.log.Error("transcription failed: %v", err)
		return "", err
	}
	return strings.TrimSpace(text), nil
}

// ── Internal ─────────────────────────────────────────────────────

func (a *Assistant) lock(id string) *sync.Mutex {
	a.mu.Lock()
	defer a.mu.Unlock()

	l, ok := a.locks[id]
	if !ok {
		l = &sync.Mutex{}
		a.locks[id] = l
	}
	return l
}

func (a *Assistant) forget(id string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.locks, id)
}
