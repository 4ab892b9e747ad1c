package engine

import (
	"errors"
	"strings"

	"github.com/subba5076/Pizza-Delivery-agent/internal/catalog"
	"github.com/subba5076/Pizza-Delivery-agent/internal/domain"
	"github.com/subba5076/Pizza-Delivery-agent/internal/pricing"
	"github.com/subba5076/Pizza-Delivery-agent/internal/summary"
)

// Input is one user turn as the state machine sees it.
type Input struct {
	Utterance string
	Signal    domain.Signal
	// FirstTurn is set when the session has no prior exchanges.
	FirstTurn bool
}

// Outcome is the result of one transition.
type Outcome struct {
	State *domain.OrderState

	// Reply is the deterministic reply. Empty when Defer is set.
	Reply string
	// Defer hands the reply to the conversational generator, which is
	// given Prompt as the user's message.
	Defer  bool
	Prompt string

	ShowMenu  bool
	Completed bool
	Restarted bool

	// Total is the value of a completed order, or -1 if it could not be priced.
	Total float64
	// PriceErr is set when a rendered summary could not be priced.
	PriceErr *pricing.Error
}

// Step applies one user turn to a copy of prev. prev is never modified.
func (e *Engine) Step(prev *domain.OrderState, in Input) Outcome {
	st := prev.Clone()
	out := Outcome{State: st, Prompt: in.Utterance, Total: -1}

	switch in.Signal.Kind {
	case domain.SignalRestart:
		st.Reset()
		out.Reply = LineWelcome
		out.ShowMenu = true
		out.Restarted = true
		return out

	case domain.SignalOrderFinalized:
		st.Order.Items = append([]domain.LineItem{}, in.Signal.Items...)
		st.ClarificationIndex = 0
		st.Stage = domain.StageAwaitingItemDetails
		e.clarifySizes(st, &out, "", true)
		return out

	case domain.SignalMenuRequest:
		out.ShowMenu = true
		out.Defer = true
		out.Prompt = genMenuRequested
		return out

	case domain.SignalMenuMissing:
		out.ShowMenu = true
		out.Reply = lineMenuList(e.cat.MenuText())
		return out
	}

	if st.Stage == domain.StageStart {
		if in.FirstTurn {
			st.Stage = domain.StageAwaitingOrder
			out.Reply = LineWelcome
			out.ShowMenu = true
			return out
		}
		out.Defer = true
		return out
	}

	if st.Stage != domain.StageAwaitingAmendment && isAmendment(in.Utterance) {
		st.Stage = domain.StageAwaitingAmendment
	}

	switch st.Stage {
	case domain.StageAwaitingItemDetails:
		e.clarifySizes(st, &out, in.Utterance, false)

	case domain.StageAwaitingSpecialRequests:
		e.collectSpecial(st, &out, in.Utterance)

	case domain.StageAwaitingConfirmation:
		if isAffirmative(in.Utterance) {
			yes := true
			st.Confirmation = &yes
			st.Stage = domain.StageAwaitingDeliveryDetails
		}
		out.Defer = true

	case domain.StageAwaitingDeliveryDetails:
		e.collectDelivery(st, &out, in.Utterance)

	case domain.StageAwaitingAmendment:
		e.amend(st, &out, in.Utterance)

	case domain.StageCompleted:
		// Never a starting stage in normal operation.
		st.Reset()
		out.Defer = true

	default:
		out.Defer = true
	}
	return out
}

// ── Stage handlers ───────────────────────────────────────────────

// nextUnsized returns the index of the first item at or after from that
// still needs a size, and its catalog entry. -1 when none remain.
func (e *Engine) nextUnsized(st *domain.OrderState, from int) (int, *domain.MenuItem) {
	for i := from; i < len(st.Order.Items); i++ {
		li := st.Order.Items[i]
		if !e.cat.RequiresSize(li) {
			continue
		}
		mi, _ := e.cat.Resolve(li)
		return i, mi
	}
	return -1, nil
}

// clarifySizes asks for, or records, the size of the item under the cursor.
// echo is set on the turn the order was just installed; that turn only asks.
func (e *Engine) clarifySizes(st *domain.OrderState, out *Outcome, utterance string, echo bool) {
	idx, mi := e.nextUnsized(st, st.ClarificationIndex)
	if idx < 0 {
		st.Stage = domain.StageAwaitingSpecialRequests
		out.Reply = LineSpecialRequests
		return
	}
	st.ClarificationIndex = idx
	item := &st.Order.Items[idx]

	if !echo && !isAcknowledgement(utterance) {
		if opt, ok := e.cat.MatchSize(mi, utterance); ok {
			item.Size = opt.Size
			st.ClarificationIndex = idx + 1

			next, nmi := e.nextUnsized(st, idx+1)
			if next < 0 {
				st.Stage = domain.StageAwaitingSpecialRequests
				out.Reply = LineSpecialRequests
				return
			}
			st.ClarificationIndex = next
			out.Reply = lineNextSize(catalog.OptionLabel(opt), item.Name,
				st.Order.Items[next].Name, catalog.SizeLabels(nmi))
			return
		}
	}

	out.Reply = lineAskSize(item.Name, catalog.SizeLabels(mi))
}

func (e *Engine) collectSpecial(st *domain.OrderState, out *Outcome, utterance string) {
	special := strings.TrimSpace(utterance)
	st.Special = &special
	st.Stage = domain.StageAwaitingConfirmation

	text := summary.Render(e.cat, st.Order, st.Special, true)
	out.PriceErr = priceErr(e.cat, st.Order.Items)
	out.Reply = lineConfirmOrder(special, text, summary.IsNoRequest(special))
}

func (e *Engine) collectDelivery(st *domain.OrderState, out *Outcome, utterance string) {
	d := extractDelivery(utterance)
	if d.name != "" {
		st.Name = domain.Str(d.name)
	}
	if d.phone != "" {
		st.Phone = domain.Str(d.phone)
	}
	if d.address != "" {
		st.Address = domain.Str(d.address)
	}

	if !st.HasDeliveryDetails() {
		out.Defer = true
		return
	}

	st.Stage = domain.StageCompleted
	text := summary.Render(e.cat, st.Order, st.Special, true)
	out.Reply = lineOrderComplete(*st.Name, text, *st.Address, *st.Phone)
	out.Completed = true
	if total, err := pricing.Price(e.cat, st.Order.Items); err == nil {
		out.Total = total
	} else {
		out.PriceErr = asPriceErr(err)
	}

	st.Reset()
}

// amend asks whether a previously noted special request should carry over
// to an item the customer names. Everything else goes to the generator.
func (e *Engine) amend(st *domain.OrderState, out *Outcome, utterance string) {
	special := strings.TrimSpace(domain.Deref(st.Special))
	if special == "" || summary.IsNoRequest(special) {
		out.Defer = true
		return
	}

	mi, ok := e.cat.FindByName(utterance)
	if !ok {
		out.Defer = true
		return
	}

	size := ""
	if opt, ok := e.cat.MatchSize(mi, utterance); ok {
		size = catalog.OptionLabel(opt)
	} else if li := lastOnOrder(st, mi); li != nil && li.Size != "" {
		size = e.cat.DisplaySize(*li)
	}
	out.Reply = lineCarryOver(size, mi.Name, special)
}

func lastOnOrder(st *domain.OrderState, mi *domain.MenuItem) *domain.LineItem {
	for i := len(st.Order.Items) - 1; i >= 0; i-- {
		li := &st.Order.Items[i]
		if category, ok := catalog.ResolveCategory(*li); ok && li.ID == mi.ID && category == mi.Category {
			return li
		}
	}
	return nil
}

func priceErr(cat *catalog.Catalog, items []domain.LineItem) *pricing.Error {
	_, err := pricing.Price(cat, items)
	return asPriceErr(err)
}

func asPriceErr(err error) *pricing.Error {
	var pe *pricing.Error
	if errors.As(err, &pe) {
		return pe
	}
	return nil
}
