package allocation

import (
	"github.com/shopspring/decimal"
)

// Participation is the slice of a match roster the allocator cares about.
// It deliberately mirrors models.MatchParticipation without importing it,
// keeping this package dependency-free.
type Participation struct {
	PlayerID     int
	IsPaying     bool
	ExpenseShare decimal.Decimal
}

// ComputeTotal sums a match's three fixed cost inputs. Callers pass zero
// for absent inputs; there is no error path.
func ComputeTotal(groundFee, ballAmount, otherExpenses decimal.Decimal) decimal.Decimal {
	return groundFee.Add(ballAmount).Add(otherExpenses)
}

// Allocate splits total equally across the paying players. It returns the
// per-player shares and the per-player amount. An empty paying set yields
// zero shares and a zero per-player amount: the division-by-zero guard for
// the transient zero-paying state, which callers must refuse to persist.
func Allocate(total decimal.Decimal, payingPlayerIDs []int) (map[int]decimal.Decimal, decimal.Decimal) {
	shares := make(map[int]decimal.Decimal, len(payingPlayerIDs))
	if len(payingPlayerIDs) == 0 {
		return shares, decimal.Zero
	}

	perPlayer := total.Div(decimal.NewFromInt(int64(len(payingPlayerIDs))))
	for _, id := range payingPlayerIDs {
		shares[id] = perPlayer
	}
	return shares, perPlayer
}

// Recompute performs the full re-split after a roster change. Shares of
// paying participants are overwritten with the fresh equal split of total;
// non-paying participants are forced to zero. The input order is preserved.
func Recompute(total decimal.Decimal, roster []Participation) []Participation {
	payingIDs := PayingPlayerIDs(roster)
	shares, _ := Allocate(total, payingIDs)

	out := make([]Participation, len(roster))
	for i, p := range roster {
		out[i] = p
		if p.IsPaying {
			out[i].ExpenseShare = shares[p.PlayerID]
		} else {
			out[i].ExpenseShare = decimal.Zero
		}
	}
	return out
}

// PayingPlayerIDs extracts the ids of paying participants in roster order.
func PayingPlayerIDs(roster []Participation) []int {
	ids := make([]int, 0, len(roster))
	for _, p := range roster {
		if p.IsPaying {
			ids = append(ids, p.PlayerID)
		}
	}
	return ids
}
