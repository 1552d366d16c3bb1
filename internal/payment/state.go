package payment

import "github.com/dikdasmenpwmjateng-hue/sim-buku-ismuba-mipa/internal/domain"

// State is the per-session payment page: the order picked from the search.
type State struct {
	Selected        *domain.Order `json:"selected,omitempty"`
	SuggestedAmount int64         `json:"suggestedAmount"`
}

func NewState() *State {
	return &State{}
}

// Select stores the order. Unpaid orders get the total as suggested amount.
func (s *State) Select(o domain.Order) {
	s.Selected = &o
	s.SuggestedAmount = 0
	if o.Status == domain.OrderUnpaid {
		s.SuggestedAmount = o.Total.Int()
	}
}

func (s *State) Clear() {
	s.Selected = nil
	s.SuggestedAmount = 0
}
