package engine

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/subba5076/Pizza-Delivery-agent/internal/catalog"
	"github.com/subba5076/Pizza-Delivery-agent/internal/conversation"
	"github.com/subba5076/Pizza-Delivery-agent/internal/domain"
	"github.com/subba5076/Pizza-Delivery-agent/internal/logger"
)

// fakeGenerator returns a canned reply and records what it was asked.
type fakeGenerator struct {
	mu    sync.Mutex
	reply string
	err   error
	panic bool
	block bool
	reqs  []*domain.GenerationRequest
}

func (g *fakeGenerator) Generate(ctx context.Context, req *domain.GenerationRequest) (string, error) {
	g.mu.Lock()
	g.reqs = append(g.reqs, req)
	g.mu.Unlock()
	if g.panic {
		panic("generator exploded")
	}
	if g.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return g.reply, g.err
}

func (g *fakeGenerator) last() *domain.GenerationRequest {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.reqs) == 0 {
		return nil
	}
	return g.reqs[len(g.reqs)-1]
}

func setupEngine(t *testing.T, gen domain.Generator, opts ...Option) (*Engine, context.Context) {
	t.Helper()
	log := logger.New(logger.LevelOff, nil)
	eng := New(catalog.Default(), gen, conversation.NewSignalParser(log), log, opts...)
	return eng, context.Background()
}

// someHistory is a non-empty prior so the start stage doesn't re-welcome.
var someHistory = []domain.Exchange{{User: "Bot initialized", Bot: LineWelcome}}

func finalize(t *testing.T, items ...domain.LineItem) string {
	t.Helper()
	msg, err := conversation.FinalizeMessage(items)
	if err != nil {
		t.Fatalf("building finalize message: %v", err)
	}
	return msg
}

var (
	margherita = domain.LineItem{ID: 1, Name: "Margherita", Category: "pizzas", Quantity: 2}
	carbonara  = domain.LineItem{ID: 1, Name: "Spaghetti Carbonara", Category: "pastas", Quantity: 1}
	calzone    = domain.LineItem{ID: 5, Name: "Calzone", Category: "pizzas", Quantity: 1}
	coke       = domain.LineItem{ID: 1, Name: "Coca-Cola", Category: "drinks", Quantity: 1}
)

func stateAt(stage domain.Stage, items ...domain.LineItem) *domain.OrderState {
	st := domain.NewOrderState()
	st.Stage = stage
	st.Order.Items = append(st.Order.Items, items...)
	return st
}

func TestWelcomeOnFirstTurn(t *testing.T) {
	gen := &fakeGenerator{reply: "hi"}
	eng, ctx := setupEngine(t, gen)

	res := eng.ProcessTurn(ctx, nil, "hello", domain.NewOrderState())
	if res.Reply != LineWelcome {
		t.Fatalf("expected welcome, got %q", res.Reply)
	}
	if res.State.Stage != domain.StageAwaitingOrder {
		t.Fatalf("expected awaiting_order, got %s", res.State.Stage)
	}
	if !res.ShowMenu || res.Generated {
		t.Fatalf("welcome should show the menu without the generator: %+v", res)
	}
	if gen.last() != nil {
		t.Fatal("generator called for the welcome")
	}
}

func TestStartWithHistoryDefers(t *testing.T) {
	gen := &fakeGenerator{reply: "Take a look at the menu!"}
	eng, ctx := setupEngine(t, gen)

	res := eng.ProcessTurn(ctx, someHistory, "hi there", domain.NewOrderState())
	if res.Reply != "Take a look at the menu!" || !res.Generated {
		t.Fatalf("expected generated reply, got %+v", res)
	}
	if res.State.Stage != domain.StageStart {
		t.Fatalf("stage changed: %s", res.State.Stage)
	}
}

func TestFinalizeAsksFirstSize(t *testing.T) {
	eng, ctx := setupEngine(t, &fakeGenerator{})

	// Finalize is accepted from any stage.
	for _, stage := range []domain.Stage{domain.StageStart, domain.StageAwaitingOrder, domain.StageAwaitingConfirmation} {
		t.Run(string(stage), func(t *testing.T) {
			st := stateAt(stage, coke)
			st.ClarificationIndex = 1

			res := eng.ProcessTurn(ctx, someHistory, finalize(t, coke, margherita, carbonara), st)

			if res.State.Stage != domain.StageAwaitingItemDetails {
				t.Fatalf("expected awaiting_item_details, got %s", res.State.Stage)
			}
			if len(res.State.Order.Items) != 3 {
				t.Fatalf("items not installed: %+v", res.State.Order.Items)
			}
			if res.State.ClarificationIndex != 1 {
				t.Fatalf("cursor should point at the first sized item, got %d", res.State.ClarificationIndex)
			}
			want := "Ah, bellissima! What size would you like for the Margherita? (Available: Small, Medium, Large)"
			if res.Reply != want {
				t.Fatalf("reply = %q", res.Reply)
			}
			if res.UserLine != "I'm done choosing from the menu." {
				t.Fatalf("history line = %q", res.UserLine)
			}
		})
	}
}

func TestFinalizeWithoutSizedItems(t *testing.T) {
	eng, ctx := setupEngine(t, &fakeGenerator{})

	res := eng.ProcessTurn(ctx, someHistory, finalize(t, coke, calzone), stateAt(domain.StageAwaitingOrder))
	if res.State.Stage != domain.StageAwaitingSpecialRequests {
		t.Fatalf("single-size and drink items need no clarification, got stage %s", res.State.Stage)
	}
	if res.Reply != LineSpecialRequests {
		t.Fatalf("reply = %q", res.Reply)
	}
}

// Items may arrive without a category; they are clarified and priced by the
// category their name implies.
func TestFinalizeCategorylessItem(t *testing.T) {
	eng, ctx := setupEngine(t, &fakeGenerator{})
	pizza := domain.LineItem{ID: 1, Name: "Margherita Pizza", Quantity: 1}

	res := eng.ProcessTurn(ctx, someHistory, finalize(t, pizza), stateAt(domain.StageAwaitingOrder))
	if res.State.Stage != domain.StageAwaitingItemDetails {
		t.Fatalf("expected awaiting_item_details, got %s", res.State.Stage)
	}
	want := "Ah, bellissima! What size would you like for the Margherita Pizza? (Available: Small, Medium, Large)"
	if res.Reply != want {
		t.Fatalf("reply = %q", res.Reply)
	}

	res = eng.ProcessTurn(ctx, someHistory, "medium", res.State)
	if res.State.Stage != domain.StageAwaitingSpecialRequests {
		t.Fatalf("stage = %s", res.State.Stage)
	}
	if got := res.State.Order.Items[0].Size; got != "m" {
		t.Fatalf("size = %q", got)
	}

	res = eng.ProcessTurn(ctx, someHistory, "none", res.State)
	if strings.Contains(res.Reply, "Could not be calculated") || !strings.Contains(res.Reply, "$10.00") {
		t.Fatalf("expected a priced summary:\n%s", res.Reply)
	}
}

func TestSizeClarification(t *testing.T) {
	eng, ctx := setupEngine(t, &fakeGenerator{})

	st := stateAt(domain.StageAwaitingItemDetails, margherita, coke, carbonara)

	tests := []struct {
		utterance string
		wantSize  string
		wantReply string
		wantStage domain.Stage
	}{
		{
			utterance: "please",
			wantReply: "Ah, bellissima! What size would you like for the Margherita? (Available: Small, Medium, Large)",
			wantStage: domain.StageAwaitingItemDetails,
		},
		{
			utterance: "ok",
			wantReply: "Ah, bellissima! What size would you like for the Margherita? (Available: Small, Medium, Large)",
			wantStage: domain.StageAwaitingItemDetails,
		},
		{
			utterance: "it's going to be a large one",
			wantSize:  "l",
			wantReply: "Got it! A LARGE Margherita. And for the Spaghetti Carbonara, what size would you like? (Available: Single, Double)",
			wantStage: domain.StageAwaitingItemDetails,
		},
	}

	for _, tt := range tests {
		res := eng.ProcessTurn(ctx, someHistory, tt.utterance, st)
		if res.Reply != tt.wantReply {
			t.Fatalf("%q: reply = %q", tt.utterance, res.Reply)
		}
		if res.State.Stage != tt.wantStage {
			t.Fatalf("%q: stage = %s", tt.utterance, res.State.Stage)
		}
		if got := res.State.Order.Items[0].Size; got != tt.wantSize {
			t.Fatalf("%q: size = %q, want %q", tt.utterance, got, tt.wantSize)
		}
		if res.Generated {
			t.Fatalf("%q: size turns are deterministic", tt.utterance)
		}
		st = res.State
	}

	if st.ClarificationIndex != 2 {
		t.Fatalf("cursor should skip the drink, got %d", st.ClarificationIndex)
	}

	res := eng.ProcessTurn(ctx, someHistory, "Double", st)
	if res.State.Stage != domain.StageAwaitingSpecialRequests || res.Reply != LineSpecialRequests {
		t.Fatalf("expected special requests prompt, got %s %q", res.State.Stage, res.Reply)
	}
	if res.State.Order.Items[2].Size != "double" {
		t.Fatalf("pasta size = %q", res.State.Order.Items[2].Size)
	}
}

func TestSizeTokenAndLabel(t *testing.T) {
	eng, _ := setupEngine(t, &fakeGenerator{})
	mi, _ := eng.cat.Find("pizzas", 1)

	tests := []struct {
		in   string
		want string
	}{
		{"medium", "m"},
		{"M", "m"},
		{"make it an s", "s"},
		{"Small please", "s"},
		{"I'm not sure", ""},
		{"it's fine", ""},
		{"large, no wait, small", "l"},
	}
	for _, tt := range tests {
		opt, ok := eng.cat.MatchSize(mi, tt.in)
		got := ""
		if ok {
			got = opt.Size
		}
		if got != tt.want {
			t.Errorf("MatchSize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSpecialRequestNone(t *testing.T) {
	eng, ctx := setupEngine(t, &fakeGenerator{})

	item := margherita
	item.Size = "m"
	res := eng.ProcessTurn(ctx, someHistory, " none ", stateAt(domain.StageAwaitingSpecialRequests, item))

	if got := domain.Deref(res.State.Special); got != "none" {
		t.Fatalf("special should be stored verbatim, got %q", got)
	}
	if res.State.Stage != domain.StageAwaitingConfirmation {
		t.Fatalf("stage = %s", res.State.Stage)
	}
	for _, want := range []string{
		"Okay, no special requests.",
		"- 2x Margherita (MEDIUM)",
		"**Special requests:** None",
		"**Estimated Total:** $20.00",
		"Does everything look correct?",
	} {
		if !strings.Contains(res.Reply, want) {
			t.Errorf("reply missing %q:\n%s", want, res.Reply)
		}
	}
}

func TestSpecialRequestNoted(t *testing.T) {
	eng, ctx := setupEngine(t, &fakeGenerator{})

	item := margherita
	item.Size = "s"
	res := eng.ProcessTurn(ctx, someHistory, "no onions", stateAt(domain.StageAwaitingSpecialRequests, item))
	if !strings.HasPrefix(res.Reply, "Okay, I've noted your request for 'no onions'.") {
		t.Fatalf("reply = %q", res.Reply)
	}
	if !strings.Contains(res.Reply, "**Special requests:** no onions") {
		t.Fatalf("summary missing request:\n%s", res.Reply)
	}
}

func TestSpecialRequestPricingFailure(t *testing.T) {
	eng, ctx := setupEngine(t, &fakeGenerator{})

	bad := domain.LineItem{ID: 77, Name: "Hawaiian", Category: "pizzas", Size: "m", Quantity: 1}
	res := eng.ProcessTurn(ctx, someHistory, "no", stateAt(domain.StageAwaitingSpecialRequests, bad))
	if !strings.Contains(res.Reply, "**Total price:** Could not be calculated (Item not found in menu: Hawaiian)") {
		t.Fatalf("reply should carry the reason:\n%s", res.Reply)
	}
	if res.State.Stage != domain.StageAwaitingConfirmation {
		t.Fatalf("a pricing failure must not block the turn, stage = %s", res.State.Stage)
	}
}

func TestConfirmation(t *testing.T) {
	tests := []struct {
		utterance string
		wantStage domain.Stage
	}{
		{"yes", domain.StageAwaitingDeliveryDetails},
		{"Yes.", domain.StageAwaitingDeliveryDetails},
		{"that's correct!", domain.StageAwaitingDeliveryDetails},
		{"all correct", domain.StageAwaitingDeliveryDetails},
		{"hmm, not quite", domain.StageAwaitingConfirmation},
		{"no", domain.StageAwaitingConfirmation},
	}

	for _, tt := range tests {
		t.Run(tt.utterance, func(t *testing.T) {
			gen := &fakeGenerator{reply: "Great, may I have your name, phone and address?"}
			eng, ctx := setupEngine(t, gen)

			item := margherita
			item.Size = "l"
			st := stateAt(domain.StageAwaitingConfirmation, item)
			st.Special = domain.Str("none")

			res := eng.ProcessTurn(ctx, someHistory, tt.utterance, st)
			if res.State.Stage != tt.wantStage {
				t.Fatalf("stage = %s, want %s", res.State.Stage, tt.wantStage)
			}
			if !res.Generated {
				t.Fatal("confirmation replies come from the generator")
			}
			confirmed := res.State.Confirmation != nil && *res.State.Confirmation
			if confirmed != (tt.wantStage == domain.StageAwaitingDeliveryDetails) {
				t.Fatalf("confirmation flag = %v", confirmed)
			}
			req := gen.last()
			if req.Utterance != tt.utterance {
				t.Fatalf("generator saw %q", req.Utterance)
			}
			if !strings.Contains(req.Summary, "**Estimated Total:** $24.00") {
				t.Fatalf("generator context missing priced summary: %q", req.Summary)
			}
			if req.MenuText == "" {
				t.Fatal("generator context missing menu text")
			}
		})
	}
}

func TestDeliveryDetailsComplete(t *testing.T) {
	gen := &fakeGenerator{reply: "should not be used"}
	eng, ctx := setupEngine(t, gen)

	item := margherita
	item.Size = "m"
	st := stateAt(domain.StageAwaitingDeliveryDetails, item)
	st.Special = domain.Str("none")
	yes := true
	st.Confirmation = &yes

	res := eng.ProcessTurn(ctx, someHistory, "my name is Alice, phone 555-123-4567, address is 12 Elm St", st)

	if !res.Completed {
		t.Fatal("expected the order to complete")
	}
	for _, want := range []string{"Alice", "555-123-4567", "12 Elm St", "**Estimated Total:** $20.00", "Thank you for your order, Alice!"} {
		if !strings.Contains(res.Reply, want) {
			t.Errorf("final reply missing %q:\n%s", want, res.Reply)
		}
	}
	if !reflect.DeepEqual(res.State, domain.NewOrderState()) {
		t.Fatalf("state not reset: %+v", res.State)
	}
	if gen.last() != nil {
		t.Fatal("generator called for the final summary")
	}
}

func TestDeliveryDetailsPartial(t *testing.T) {
	gen := &fakeGenerator{reply: "Thanks! And your address?"}
	eng, ctx := setupEngine(t, gen)

	st := stateAt(domain.StageAwaitingDeliveryDetails, coke)
	res := eng.ProcessTurn(ctx, someHistory, "My name is Bob Rossi and my number is (555) 987-6543", st)

	if res.State.Stage != domain.StageAwaitingDeliveryDetails {
		t.Fatalf("stage = %s", res.State.Stage)
	}
	if got := domain.Deref(res.State.Name); got != "Bob Rossi" {
		t.Fatalf("name = %q", got)
	}
	if got := domain.Deref(res.State.Phone); got != "(555) 987-6543" {
		t.Fatalf("phone = %q", got)
	}
	if res.State.Address != nil {
		t.Fatalf("address should still be unset, got %q", *res.State.Address)
	}
	if res.Reply != "Thanks! And your address?" {
		t.Fatalf("reply = %q", res.Reply)
	}

	// Collected fields survive later turns.
	res = eng.ProcessTurn(ctx, someHistory, "the address is 4 Via Roma. Thanks", res.State)
	if !res.Completed || !strings.Contains(res.Reply, "4 Via Roma") || !strings.Contains(res.Reply, "Bob Rossi") {
		t.Fatalf("expected completion with both turns' details:\n%s", res.Reply)
	}
}

func TestAmendmentOverride(t *testing.T) {
	tests := []struct {
		name      string
		stage     domain.Stage
		utterance string
		wantStage domain.Stage
	}{
		{"remove from confirmation", domain.StageAwaitingConfirmation, "please remove the coke", domain.StageAwaitingAmendment},
		{"change from item details", domain.StageAwaitingItemDetails, "Change the pizza", domain.StageAwaitingAmendment},
		{"add from delivery", domain.StageAwaitingDeliveryDetails, "add a drink", domain.StageAwaitingAmendment},
		{"literal i'd like to add", domain.StageAwaitingConfirmation, "I'd like to add", domain.StageAwaitingConfirmation},
		{"address is not add", domain.StageAwaitingDeliveryDetails, "my address is 9 Elm St", domain.StageAwaitingDeliveryDetails},
		{"not from start", domain.StageStart, "add a pizza", domain.StageStart},
		{"keyword inside an address", domain.StageAwaitingDeliveryDetails, "my address is 4 Change Lane", domain.StageAwaitingAmendment},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eng, ctx := setupEngine(t, &fakeGenerator{reply: "Sure, what would you like to change?"})
			item := margherita
			item.Size = "m"

			res := eng.ProcessTurn(ctx, someHistory, tt.utterance, stateAt(tt.stage, item, coke))
			if res.State.Stage != tt.wantStage {
				t.Fatalf("stage = %s, want %s", res.State.Stage, tt.wantStage)
			}
		})
	}
}

// An amendment keyword wins over delivery extraction, even inside an address.
func TestAmendmentKeywordDropsDeliveryTurn(t *testing.T) {
	eng, ctx := setupEngine(t, &fakeGenerator{reply: "What would you like to change?"})

	st := stateAt(domain.StageAwaitingDeliveryDetails, coke)
	res := eng.ProcessTurn(ctx, someHistory, "my name is Ann, phone 555-123-4567, address is 4 Change Lane", st)

	if res.State.Stage != domain.StageAwaitingAmendment {
		t.Fatalf("stage = %s", res.State.Stage)
	}
	if res.State.Name != nil || res.State.Phone != nil || res.State.Address != nil {
		t.Fatalf("delivery details should not be collected: %+v", res.State)
	}
}

func TestAmendmentCarryOver(t *testing.T) {
	gen := &fakeGenerator{reply: "generated"}
	eng, ctx := setupEngine(t, gen)

	item := margherita
	item.Size = "m"
	st := stateAt(domain.StageAwaitingConfirmation, item)
	st.Special = domain.Str("extra basil")

	res := eng.ProcessTurn(ctx, someHistory, "add another margherita", st)
	want := "Alright! So that's one MEDIUM Margherita. We previously noted a special request for 'extra basil'. " +
		"Would you like these requests to apply to this new item as well?"
	if res.Reply != want {
		t.Fatalf("reply = %q", res.Reply)
	}
	if res.State.Stage != domain.StageAwaitingAmendment {
		t.Fatalf("stage = %s", res.State.Stage)
	}

	res = eng.ProcessTurn(ctx, someHistory, "and a large Pepperoni", res.State)
	if !strings.HasPrefix(res.Reply, "Alright! So that's one LARGE Pepperoni.") {
		t.Fatalf("reply = %q", res.Reply)
	}

	// Without a meaningful special request the generator handles it.
	st.Special = domain.Str("none")
	res = eng.ProcessTurn(ctx, someHistory, "add another margherita", st)
	if res.Reply != "generated" {
		t.Fatalf("reply = %q", res.Reply)
	}
}

func TestGeneratorFailureRollsBack(t *testing.T) {
	tests := []struct {
		name string
		gen  *fakeGenerator
		opts []Option
	}{
		{"error", &fakeGenerator{err: errors.New("upstream 503")}, nil},
		{"panic", &fakeGenerator{panic: true}, nil},
		{"timeout", &fakeGenerator{block: true}, []Option{WithGeneratorTimeout(10 * time.Millisecond)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eng, ctx := setupEngine(t, tt.gen, tt.opts...)

			// "yes" advances the stage before the generator runs; the
			// failure must undo that.
			item := margherita
			item.Size = "m"
			st := stateAt(domain.StageAwaitingConfirmation, item)
			st.Special = domain.Str("none")
			before := st.Clone()

			res := eng.ProcessTurn(ctx, someHistory, "yes", st)
			if res.Reply != LineApology || !res.Failed {
				t.Fatalf("expected apology, got %+v", res)
			}
			if !reflect.DeepEqual(res.State, before) {
				t.Fatalf("state changed on failure:\n got %+v\nwant %+v", res.State, before)
			}
			if !reflect.DeepEqual(st, before) {
				t.Fatal("input state was mutated")
			}
		})
	}
}

func TestNilGenerator(t *testing.T) {
	eng, ctx := setupEngine(t, nil)

	res := eng.ProcessTurn(ctx, someHistory, "what's good here", stateAt(domain.StageAwaitingOrder))
	if res.Reply != LineApology || !res.Failed {
		t.Fatalf("expected apology, got %q", res.Reply)
	}
}

func TestEmptyGeneratorReply(t *testing.T) {
	eng, ctx := setupEngine(t, &fakeGenerator{reply: "   "})

	item := margherita
	item.Size = "m"
	res := eng.ProcessTurn(ctx, someHistory, "yes", stateAt(domain.StageAwaitingConfirmation, item))
	if res.Reply != LineDidNotCatch {
		t.Fatalf("reply = %q", res.Reply)
	}
	if res.State.Stage != domain.StageAwaitingDeliveryDetails {
		t.Fatalf("deterministic mutation should be kept, stage = %s", res.State.Stage)
	}
}

func TestRestartSignal(t *testing.T) {
	eng, ctx := setupEngine(t, &fakeGenerator{})

	st := stateAt(domain.StageAwaitingConfirmation, margherita)
	st.Special = domain.Str("vegan")

	res := eng.ProcessTurn(ctx, someHistory, "bot_restart_command", st)
	if res.Reply != LineWelcome || !res.Restarted || !res.ShowMenu {
		t.Fatalf("unexpected restart result %+v", res)
	}
	if !reflect.DeepEqual(res.State, domain.NewOrderState()) {
		t.Fatalf("state not fresh: %+v", res.State)
	}
}

func TestMenuSignals(t *testing.T) {
	gen := &fakeGenerator{reply: "The menu is up!"}
	eng, ctx := setupEngine(t, gen)

	st := stateAt(domain.StageAwaitingSpecialRequests, calzone)

	res := eng.ProcessTurn(ctx, someHistory, "show menu", st)
	if !res.ShowMenu || res.Reply != "The menu is up!" {
		t.Fatalf("unexpected menu request result %+v", res)
	}
	if gen.last().Utterance != genMenuRequested {
		t.Fatalf("generator saw %q", gen.last().Utterance)
	}
	if res.State.Special != nil || res.State.Stage != domain.StageAwaitingSpecialRequests {
		t.Fatal("a menu request must not be taken as a special request")
	}

	res = eng.ProcessTurn(ctx, someHistory, "where is it?", st)
	if !strings.HasPrefix(res.Reply, "Ah, no problem! It seems the interactive menu isn't visible.") {
		t.Fatalf("reply = %q", res.Reply)
	}
	if !strings.Contains(res.Reply, "Margherita") || !res.ShowMenu {
		t.Fatal("menu-missing reply should list the menu")
	}
}

func TestStageSummaryForGenerator(t *testing.T) {
	gen := &fakeGenerator{reply: "ok"}
	eng, ctx := setupEngine(t, gen)

	item := margherita
	item.Size = "m"

	// Special-request turns never defer, so check the mapping directly.
	st := stateAt(domain.StageAwaitingSpecialRequests, item)
	title, text := eng.stageSummary(st)
	if !strings.Contains(title, "Special Request") || strings.Contains(text, "Total") {
		t.Fatalf("special-request summary should list items only: %q / %q", title, text)
	}

	eng.ProcessTurn(ctx, someHistory, "what do you recommend?", stateAt(domain.StageAwaitingOrder))
	if req := gen.last(); req.Summary != "" {
		t.Fatalf("awaiting_order turns carry no summary, got %q", req.Summary)
	}
}

// The cursor never moves backwards and no sized item is skipped.
func TestClarificationCursorMonotonic(t *testing.T) {
	eng, ctx := setupEngine(t, &fakeGenerator{reply: "ok"})

	items := []domain.LineItem{coke, margherita, calzone, carbonara, margherita}
	res := eng.ProcessTurn(ctx, someHistory, finalize(t, items...), stateAt(domain.StageAwaitingOrder))

	answers := []string{"hmm", "ok", "small", "what?", "double", "none", "medium"}
	last := res.State.ClarificationIndex
	for _, a := range answers {
		if res.State.Stage != domain.StageAwaitingItemDetails {
			break
		}
		res = eng.ProcessTurn(ctx, someHistory, a, res.State)
		if res.State.ClarificationIndex < last {
			t.Fatalf("cursor went back from %d to %d on %q", last, res.State.ClarificationIndex, a)
		}
		last = res.State.ClarificationIndex
	}

	if res.State.Stage != domain.StageAwaitingSpecialRequests {
		t.Fatalf("expected all sizes resolved, stage = %s", res.State.Stage)
	}
	for _, it := range res.State.Order.Items {
		if eng.cat.RequiresSize(it) {
			t.Fatalf("item %s left without a size", it.Name)
		}
	}
}

func TestResetIdempotent(t *testing.T) {
	st := stateAt(domain.StageAwaitingDeliveryDetails, margherita)
	st.Name = domain.Str("Alice")
	st.Reset()
	once := st.Clone()
	st.Reset()
	if !reflect.DeepEqual(st, once) || !reflect.DeepEqual(st, domain.NewOrderState()) {
		t.Fatalf("reset is not idempotent: %+v", st)
	}
}
