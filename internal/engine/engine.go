// Package engine implements the order dialogue state machine and the turn
// entry point used by every front end.
package engine

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/subba5076/Pizza-Delivery-agent/internal/catalog"
	"github.com/subba5076/Pizza-Delivery-agent/internal/domain"
	"github.com/subba5076/Pizza-Delivery-agent/internal/logger"
	"github.com/subba5076/Pizza-Delivery-agent/internal/metrics"
	"github.com/subba5076/Pizza-Delivery-agent/internal/summary"
)

// Option configures the engine.
type Option func(*Engine)

// WithGeneratorTimeout bounds each generator call.
func WithGeneratorTimeout(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.genTimeout = d
		}
	}
}

// WithMetrics records turn outcomes into r.
func WithMetrics(r *metrics.Recorder) Option {
	return func(e *Engine) {
		e.metrics = r
	}
}

// Engine runs order dialogues. It holds no session state; every turn
// receives the state explicitly and returns the new one.
type Engine struct {
	cat        *catalog.Catalog
	gen        domain.Generator
	parser     domain.SignalParser
	log        *logger.Logger
	metrics    *metrics.Recorder
	genTimeout time.Duration
}

// New creates an engine. gen may be nil, in which case every turn that
// needs the generator fails with the apology reply.
func New(cat *catalog.Catalog, gen domain.Generator, parser domain.SignalParser, log *logger.Logger, opts ...Option) *Engine {
	e := &Engine{
		cat:        cat,
		gen:        gen,
		parser:     parser,
		log:        log,
		genTimeout: 30 * time.Second,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Catalog returns the menu the engine prices against.
func (e *Engine) Catalog() *catalog.Catalog { return e.cat }

// Welcome opens a fresh session: the fixed greeting, stage awaiting_order.
func (e *Engine) Welcome(state *domain.OrderState) *domain.TurnResult {
	out := e.Step(state, Input{FirstTurn: true})
	return &domain.TurnResult{
		Reply:    out.Reply,
		Order:    out.State.Order,
		State:    out.State,
		ShowMenu: out.ShowMenu,
	}
}

// ProcessTurn handles one user turn. prior is the session's exchange
// history and is only used as generator context. state is not modified;
// the new state is returned in the result. On any failure the result
// carries the apology reply and a copy of the state as it was.
func (e *Engine) ProcessTurn(ctx context.Context, prior []domain.Exchange, utterance string, state *domain.OrderState) (res *domain.TurnResult) {
	if state == nil {
		state = domain.NewOrderState()
	}
	from := state.Stage
	outcome := metrics.OutcomeDeterministic

	userLine := utterance

	defer func() {
		if r := recover(); r != nil {
			e.log.Error("turn panicked at stage %s: %v", from, r)
			res = e.failed(state, userLine)
			outcome = metrics.OutcomeFailed
		}
		e.metrics.Turn(from.String(), outcome)
		if !res.Failed {
			to := res.State.Stage
			if res.Completed {
				to = domain.StageCompleted
			}
			e.metrics.Transition(from.String(), to.String())
		}
	}()

	sig := e.parser.Parse(utterance)
	if sig.HistoryText != "" {
		userLine = sig.HistoryText
	}

	in := Input{
		Utterance: sig.Utterance,
		Signal:    sig,
		FirstTurn: len(prior) == 0,
	}
	if in.Utterance == "" {
		in.Utterance = utterance
	}

	out := e.Step(state, in)
	if out.PriceErr != nil {
		e.metrics.PricingFailure(string(out.PriceErr.Kind))
		e.log.Warn("order could not be priced: %v", out.PriceErr)
	}
	if out.Completed {
		e.metrics.OrderCompleted(out.Total)
		e.log.Info("order completed, total=%.2f", out.Total)
	}

	res = &domain.TurnResult{
		Reply:     out.Reply,
		Order:     out.State.Order,
		State:     out.State,
		ShowMenu:  out.ShowMenu,
		Completed: out.Completed,
		Restarted: out.Restarted,
		UserLine:  userLine,
	}
	if out.Restarted {
		res.UserLine = historyRestarted
	}

	e.log.Debug("stage %s -> %s signal=%s defer=%v", from, out.State.Stage, sig.Kind, out.Defer)
	if !out.Defer {
		return res
	}

	reply, err := e.generate(ctx, prior, out)
	if err != nil {
		e.log.Error("generator failed at stage %s: %v", from, err)
		outcome = metrics.OutcomeFailed
		return e.failed(state, userLine)
	}

	if strings.TrimSpace(reply) == "" {
		outcome = metrics.OutcomeEmpty
		res.Reply = LineDidNotCatch
		return res
	}

	outcome = metrics.OutcomeGenerated
	res.Reply = strings.TrimSpace(reply)
	res.Generated = true
	return res
}

// ── Internal ─────────────────────────────────────────────────────

func (e *Engine) failed(state *domain.OrderState, userLine string) *domain.TurnResult {
	st := state.Clone()
	return &domain.TurnResult{
		Reply:    LineApology,
		Order:    st.Order,
		State:    st,
		Failed:   true,
		UserLine: userLine,
	}
}

func (e *Engine) generate(ctx context.Context, prior []domain.Exchange, out Outcome) (string, error) {
	if e.gen == nil {
		return "", domain.ErrGeneratorUnavailable
	}

	req := &domain.GenerationRequest{
		History:   prior,
		Utterance: out.Prompt,
		MenuText:  e.cat.MenuText(),
		State:     out.State,
	}
	req.SummaryTitle, req.Summary = e.stageSummary(out.State)

	ctx, cancel := context.WithTimeout(ctx, e.genTimeout)
	defer cancel()

	start := time.Now()
	reply, err := e.gen.Generate(ctx, req)
	e.metrics.Generator(time.Since(start), err)
	if err != nil {
		return "", fmt.Errorf("generating reply: %w", err)
	}
	return reply, nil
}

// stageSummary picks the summary the generator sees for the given stage.
func (e *Engine) stageSummary(st *domain.OrderState) (title, text string) {
	switch st.Stage {
	case domain.StageAwaitingConfirmation, domain.StageAwaitingDeliveryDetails,
		domain.StageCompleted, domain.StageAwaitingAmendment:
		return "Current Order Status for Customer Confirmation",
			summary.Render(e.cat, st.Order, st.Special, true)
	case domain.StageAwaitingSpecialRequests:
		return "Current Order Items (for Special Request context)",
			summary.Render(e.cat, st.Order, nil, false)
	}
	return "", ""
}
