package payment

import "github.com/dikdasmenpwmjateng-hue/sim-buku-ismuba-mipa/internal/domain"

type QuickAmount struct {
	Label string `json:"label"`
	Value int64  `json:"value"`
}

var quickAmounts = []QuickAmount{
	{Label: "50K", Value: 50_000},
	{Label: "100K", Value: 100_000},
	{Label: "500K", Value: 500_000},
	{Label: "1JT", Value: 1_000_000},
}

// QuickAmounts lists the shortcut buttons. "Pas" is the exact total and is
// only offered once an order is selected.
func QuickAmounts(selected *domain.Order) []QuickAmount {
	out := append([]QuickAmount(nil), quickAmounts...)
	if selected != nil {
		out = append(out, QuickAmount{Label: "Pas", Value: selected.Total.Int()})
	}
	return out
}

var methods = map[domain.Role][]string{
	domain.RoleOperator: {"Transfer Bank", "Tunai"},
	domain.RoleAdmin:    {"Transfer", "Tunai", "Cek", "Giro"},
}

func Methods(role domain.Role) []string {
	return methods[role]
}

func validMethod(role domain.Role, m string) bool {
	for _, allowed := range methods[role] {
		if allowed == m {
			return true
		}
	}
	return false
}
