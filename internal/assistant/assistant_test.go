package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/subba5076/Pizza-Delivery-agent/internal/catalog"
	"github.com/subba5076/Pizza-Delivery-agent/internal/conversation"
	"github.com/subba5076/Pizza-Delivery-agent/internal/domain"
	"github.com/subba5076/Pizza-Delivery-agent/internal/engine"
	"github.com/subba5076/Pizza-Delivery-agent/internal/logger"
	"github.com/subba5076/Pizza-Delivery-agent/internal/storage"
)

type echoGenerator struct{}

func (echoGenerator) Generate(ctx context.Context, req *domain.GenerationRequest) (string, error) {
	return "echo: " + req.Utterance, nil
}

type fakeTranscriber struct {
	text string
	err  error
}

func (f fakeTranscriber) Transcribe(ctx context.Context, audio []byte) (string, error) {
	return f.text, f.err
}

func setupAssistant(t *testing.T, opts ...Option) (*Assistant, context.Context) {
	t.Helper()
	log := logger.New(logger.LevelOff, nil)
	eng := engine.New(catalog.Default(), echoGenerator{}, conversation.NewSignalParser(log), log)
	return New(eng, storage.NewMemoryStore(log), log, opts...), context.Background()
}

func TestFullOrder(t *testing.T) {
	a, ctx := setupAssistant(t)

	sess, welcome, err := a.Start(ctx)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if welcome.Reply != engine.LineWelcome || sess.State.Stage != domain.StageAwaitingOrder {
		t.Fatalf("unexpected welcome %q at %s", welcome.Reply, sess.State.Stage)
	}

	done, err := conversation.FinalizeMessage([]domain.LineItem{
		{ID: 1, Name: "Margherita", Category: "pizzas", Quantity: 2},
		{ID: 2, Name: "San Pellegrino", Category: "drinks", Quantity: 1},
	})
	if err != nil {
		t.Fatal(err)
	}

	steps := []struct {
		say       string
		wantStage domain.Stage
		wantReply string
	}{
		{done, domain.StageAwaitingItemDetails, "What size would you like for the Margherita?"},
		{"medium please", domain.StageAwaitingSpecialRequests, "do you have any special requests?"},
		{"none", domain.StageAwaitingConfirmation, "**Estimated Total:** $23.00"},
		{"yes", domain.StageAwaitingDeliveryDetails, "echo: yes"},
		{"my name is Alice", domain.StageAwaitingDeliveryDetails, "echo: my name is Alice"},
		{"phone 555-123-4567, address is 12 Elm St", domain.StageStart, "Thank you for your order, Alice!"},
	}

	for _, s := range steps {
		res, err := a.Chat(ctx, sess.ID, s.say)
		if err != nil {
			t.Fatalf("chat %q: %v", s.say, err)
		}
		if res.State.Stage != s.wantStage {
			t.Fatalf("after %q: stage = %s, want %s", s.say, res.State.Stage, s.wantStage)
		}
		if !strings.Contains(res.Reply, s.wantReply) {
			t.Fatalf("after %q: reply %q missing %q", s.say, res.Reply, s.wantReply)
		}
	}

	// Completion leaves a fresh session seeded with the welcome.
	after, err := a.Session(ctx, sess.ID)
	if err != nil {
		t.Fatalf("session: %v", err)
	}
	if len(after.History) != 1 || after.History[0].Bot != engine.LineWelcome {
		t.Fatalf("history not reset: %+v", after.History)
	}
	if len(after.State.Order.Items) != 0 {
		t.Fatal("order not cleared after completion")
	}
}

func TestHistoryRecordsFinalizeEcho(t *testing.T) {
	a, ctx := setupAssistant(t)
	sess, _, _ := a.Start(ctx)

	done, _ := conversation.FinalizeMessage([]domain.LineItem{{ID: 1, Name: "Coca-Cola", Category: "drinks"}})
	if _, err := a.Chat(ctx, sess.ID, done); err != nil {
		t.Fatalf("chat: %v", err)
	}

	got, _ := a.Session(ctx, sess.ID)
	last := got.History[len(got.History)-1]
	if last.User != "I'm done choosing from the menu." {
		t.Fatalf("history user line = %q", last.User)
	}
}

func TestRestart(t *testing.T) {
	a, ctx := setupAssistant(t)
	sess, _, _ := a.Start(ctx)

	if _, err := a.Chat(ctx, sess.ID, "hello"); err != nil {
		t.Fatal(err)
	}
	res, err := a.Restart(ctx, sess.ID)
	if err != nil {
		t.Fatalf("restart: %v", err)
	}
	if !res.ShowMenu || res.Reply != engine.LineWelcome {
		t.Fatalf("unexpected restart result %+v", res)
	}
	got, _ := a.Session(ctx, sess.ID)
	if len(got.History) != 1 || got.History[0].User != "Bot Restarted" {
		t.Fatalf("history = %+v", got.History)
	}
}

func TestUnknownSession(t *testing.T) {
	a, ctx := setupAssistant(t)

	_, err := a.Chat(ctx, "missing", "hi")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := a.End(ctx, "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound from End, got %v", err)
	}
}

func TestSweptSessionsReleaseLocks(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	eng := engine.New(catalog.Default(), echoGenerator{}, conversation.NewSignalParser(log), log)
	store := storage.NewMemoryStore(log)
	ctx := context.Background()

	idle := time.Now().Add(-time.Hour)
	a := New(eng, store, log, WithClock(func() time.Time { return idle }))

	for i := 0; i < 3; i++ {
		sess, _, err := a.Start(ctx)
		if err != nil {
			t.Fatalf("start: %v", err)
		}
		if _, err := a.Chat(ctx, sess.ID, "hello"); err != nil {
			t.Fatalf("chat: %v", err)
		}
	}
	if len(a.locks) != 3 {
		t.Fatalf("expected 3 session locks, got %d", len(a.locks))
	}

	sw := storage.NewSweeper(store, time.Minute, log,
		storage.WithOnSweep(func(evicted []string) { a.Evicted(ctx, evicted...) }))
	if n := sw.SweepOnce(ctx); n != 3 {
		t.Fatalf("swept %d sessions, want 3", n)
	}
	if len(a.locks) != 0 {
		t.Fatalf("locks left after sweep: %d", len(a.locks))
	}
}

func TestSessionsAreIsolated(t *testing.T) {
	a, ctx := setupAssistant(t)

	const n = 8
	ids := make([]string, n)
	for i := range ids {
		sess, _, err := a.Start(ctx)
		if err != nil {
			t.Fatal(err)
		}
		ids[i] = sess.ID
	}

	var wg sync.WaitGroup
	for i, id := range ids {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			for j := 0; j < 5; j++ {
				if _, err := a.Chat(ctx, id, fmt.Sprintf("message %d-%d", i, j)); err != nil {
					t.Errorf("chat: %v", err)
				}
			}
		}(i, id)
	}
	wg.Wait()

	for i, id := range ids {
		sess, _ := a.Session(ctx, id)
		if len(sess.History) != 6 {
			t.Fatalf("session %d has %d exchanges, want 6", i, len(sess.History))
		}
		for _, ex := range sess.History[1:] {
			if !strings.HasPrefix(ex.User, fmt.Sprintf("message %d-", i)) {
				t.Fatalf("session %d saw foreign message %q", i, ex.User)
			}
		}
	}
}

func TestSameSessionTurnsSerialised(t *testing.T) {
	a, ctx := setupAssistant(t)
	sess, _, _ := a.Start(ctx)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _ = a.Chat(ctx, sess.ID, fmt.Sprintf("hi %d", i))
		}(i)
	}
	wg.Wait()

	got, _ := a.Session(ctx, sess.ID)
	if len(got.History) != 21 {
		t.Fatalf("lost turns: %d exchanges, want 21", len(got.History))
	}
}

func TestTranscribe(t *testing.T) {
	tests := []struct {
		name    string
		tr      domain.Transcriber
		want    string
		wantErr error
	}{
		{"ok", fakeTranscriber{text: "  one large margherita  "}, "one large margherita", nil},
		{"empty", fakeTranscriber{text: "   "}, "", domain.ErrEmptyTranscript},
		{"failure", fakeTranscriber{err: errors.New("whisper crashed")}, "", nil},
		{"disabled", nil, "", domain.ErrNotImplemented},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var opts []Option
			if tt.tr != nil {
				opts = append(opts, WithTranscriber(tt.tr))
			}
			a, ctx := setupAssistant(t, opts...)

			got, err := a.Transcribe(ctx, []byte("RIFF"))
			if got != tt.want {
				t.Fatalf("text = %q, want %q", got, tt.want)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if tt.want == "" && err == nil {
				t.Fatal("expected an error")
			}
		})
	}
}
