package domain

// Stage is a named phase of the order-collection state machine.
type Stage string

const (
	StageStart                   Stage = "start"
	StageAwaitingOrder           Stage = "awaiting_order"
	StageAwaitingItemDetails     Stage = "awaiting_item_details"
	StageAwaitingSpecialRequests Stage = "awaiting_special_requests"
	StageAwaitingConfirmation    Stage = "awaiting_confirmation"
	StageAwaitingAmendment       Stage = "awaiting_amendment"
	StageAwaitingDeliveryDetails Stage = "awaiting_delivery_details"
	StageCompleted               Stage = "completed"
)

// String returns the wire name of the stage.
func (s Stage) String() string { return string(s) }

// LineItem is one requested quantity of a single catalog item.
// Size is empty until the clarification step resolves it.
type LineItem struct {
	ID       int      `json:"id"`
	Name     string   `json:"name"`
	Category string   `json:"category,omitempty"`
	Size     string   `json:"size,omitempty"`
	Quantity int      `json:"quantity"`
	Crust    string   `json:"crust,omitempty"`
	Protein  string   `json:"protein,omitempty"`
	AddOns   []string `json:"addons,omitempty"`
}

// Qty returns the quantity, defaulting to 1.
func (li LineItem) Qty() int {
	if li.Quantity < 1 {
		return 1
	}
	return li.Quantity
}

// Order is the structured order accumulated during a session.
type Order struct {
	Items []LineItem `json:"items"`
}

// OrderState is the mutable record of one session's order dialogue.
// It is only ever mutated by the dialogue engine, one turn at a time.
type OrderState struct {
	Stage              Stage   `json:"stage"`
	Order              Order   `json:"structured_order"`
	ClarificationIndex int     `json:"clarification_index"`
	Special            *string `json:"collected_special"`
	Confirmation       *bool   `json:"collected_confirmation"`
	Name               *string `json:"collected_name"`
	Phone              *string `json:"collected_phone"`
	Address            *string `json:"collected_address"`
}

// NewOrderState returns a fresh state at the start stage.
func NewOrderState() *OrderState {
	return &OrderState{
		Stage: StageStart,
		Order: Order{Items: []LineItem{}},
	}
}

// Reset returns the state to the fresh start shape in place.
func (s *OrderState) Reset() {
	*s = *NewOrderState()
}

// Clone returns a deep copy so a turn can be rolled back.
func (s *OrderState) Clone() *OrderState {
	c := *s
	c.Order.Items = make([]LineItem, len(s.Order.Items))
	for i, it := range s.Order.Items {
		if it.AddOns != nil {
			it.AddOns = append([]string(nil), it.AddOns...)
		}
		c.Order.Items[i] = it
	}
	c.Special = cloneString(s.Special)
	c.Name = cloneString(s.Name)
	c.Phone = cloneString(s.Phone)
	c.Address = cloneString(s.Address)
	if s.Confirmation != nil {
		v := *s.Confirmation
		c.Confirmation = &v
	}
	return &c
}

// HasDeliveryDetails reports whether name, phone and address are all collected.
func (s *OrderState) HasDeliveryDetails() bool {
	return nonEmpty(s.Name) && nonEmpty(s.Phone) && nonEmpty(s.Address)
}

// Str returns a pointer to v. Handy for optional fields.
func Str(v string) *string { return &v }

// Deref returns the value behind p, or "" when p is nil.
func Deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func cloneString(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func nonEmpty(p *string) bool { return p != nil && *p != "" }
