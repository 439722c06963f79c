package allocation

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestComputeTotal(t *testing.T) {
	tests := []struct {
		name          string
		groundFee     string
		ballAmount    string
		otherExpenses string
		want          string
	}{
		{"all inputs set", "300", "150", "50", "500"},
		{"only ground fee", "250", "0", "0", "250"},
		{"all zero", "0", "0", "0", "0"},
		{"fractional inputs", "100.50", "49.25", "0.25", "150"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeTotal(d(tt.groundFee), d(tt.ballAmount), d(tt.otherExpenses))
			assert.True(t, d(tt.want).Equal(got), "want %s, got %s", tt.want, got)
		})
	}
}

func TestAllocate_EqualSplit(t *testing.T) {
	shares, perPlayer := Allocate(d("500"), []int{1, 2, 3, 4})

	require.Len(t, shares, 4)
	assert.True(t, d("125").Equal(perPlayer))
	for id, share := range shares {
		assert.True(t, d("125").Equal(share), "player %d got %s", id, share)
	}
}

func TestAllocate_NonTerminatingSplit(t *testing.T) {
	shares, perPlayer := Allocate(d("500"), []int{1, 2, 3})

	require.Len(t, shares, 3)
	// 500/3 with decimal division precision; rounding happens only at the
	// presentation layer.
	assert.True(t, perPlayer.Round(2).Equal(d("166.67")), "got %s", perPlayer)
	for _, share := range shares {
		assert.True(t, share.Equal(perPlayer))
	}
}

func TestAllocate_EmptyPayingSet(t *testing.T) {
	shares, perPlayer := Allocate(d("500"), nil)

	assert.Empty(t, shares)
	assert.True(t, perPlayer.IsZero())
}

func TestRecompute(t *testing.T) {
	roster := []Participation{
		{PlayerID: 1, IsPaying: true, ExpenseShare: d("125")},
		{PlayerID: 2, IsPaying: true, ExpenseShare: d("125")},
		{PlayerID: 3, IsPaying: false, ExpenseShare: d("125")},
		{PlayerID: 4, IsPaying: true, ExpenseShare: d("125")},
	}

	out := Recompute(d("450"), roster)

	require.Len(t, out, 4)
	assert.Equal(t, 1, out[0].PlayerID)
	assert.Equal(t, 3, out[2].PlayerID)

	assert.True(t, d("150").Equal(out[0].ExpenseShare))
	assert.True(t, d("150").Equal(out[1].ExpenseShare))
	assert.True(t, out[2].ExpenseShare.IsZero(), "non-paying participant keeps a zero share")
	assert.True(t, d("150").Equal(out[3].ExpenseShare))
}

func TestRecompute_Idempotent(t *testing.T) {
	roster := []Participation{
		{PlayerID: 7, IsPaying: true},
		{PlayerID: 8, IsPaying: false},
		{PlayerID: 9, IsPaying: true},
	}

	once := Recompute(d("300"), roster)
	twice := Recompute(d("300"), once)

	require.Len(t, twice, 3)
	for i := range once {
		assert.Equal(t, once[i].PlayerID, twice[i].PlayerID)
		assert.True(t, once[i].ExpenseShare.Equal(twice[i].ExpenseShare))
	}
}

func TestRecompute_SharesSumToTotal(t *testing.T) {
	roster := []Participation{
		{PlayerID: 1, IsPaying: true},
		{PlayerID: 2, IsPaying: true},
		{PlayerID: 3, IsPaying: true},
		{PlayerID: 4, IsPaying: true},
	}

	out := Recompute(d("500"), roster)

	sum := decimal.Zero
	for _, p := range out {
		sum = sum.Add(p.ExpenseShare)
	}
	assert.True(t, d("500").Equal(sum), "shares sum to %s", sum)
}

func TestRecompute_AllNonPaying(t *testing.T) {
	roster := []Participation{
		{PlayerID: 1, IsPaying: false, ExpenseShare: d("100")},
		{PlayerID: 2, IsPaying: false, ExpenseShare: d("100")},
	}

	out := Recompute(d("200"), roster)

	for _, p := range out {
		assert.True(t, p.ExpenseShare.IsZero())
	}
}

func TestPayingPlayerIDs(t *testing.T) {
	roster := []Participation{
		{PlayerID: 5, IsPaying: true},
		{PlayerID: 6, IsPaying: false},
		{PlayerID: 7, IsPaying: true},
	}

	assert.Equal(t, []int{5, 7}, PayingPlayerIDs(roster))
	assert.Empty(t, PayingPlayerIDs(nil))
}
