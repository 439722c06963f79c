package services

import (
	"context"
	"sort"
	"testing"

	"github.com/covedrive/cricket-club/models"
	"github.com/covedrive/cricket-club/repositories"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeContributionRepo struct {
	nextID int
	rows   []models.Contribution
	// memberships lets SumByTeamMembers resolve which players are on a team.
	memberships map[int][]int
}

func newFakeContributionRepo() *fakeContributionRepo {
	return &fakeContributionRepo{nextID: 1, memberships: make(map[int][]int)}
}

func (r *fakeContributionRepo) Create(ctx context.Context, c *models.Contribution) error {
	c.ID = r.nextID
	r.nextID++
	r.rows = append(r.rows, *c)
	return nil
}

func (r *fakeContributionRepo) ListByPlayer(ctx context.Context, playerID int) ([]models.Contribution, error) {
	var out []models.Contribution
	for _, c := range r.rows {
		if c.PlayerID == playerID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *fakeContributionRepo) List(ctx context.Context) ([]models.Contribution, error) {
	return append([]models.Contribution(nil), r.rows...), nil
}

func (r *fakeContributionRepo) SumByPlayer(ctx context.Context, playerID int) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, c := range r.rows {
		if c.PlayerID == playerID {
			sum = sum.Add(c.Amount)
		}
	}
	return sum, nil
}

func (r *fakeContributionRepo) SumByTeamMembers(ctx context.Context, teamID int) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, playerID := range r.memberships[teamID] {
		playerSum, _ := r.SumByPlayer(ctx, playerID)
		sum = sum.Add(playerSum)
	}
	return sum, nil
}

func (r *fakeContributionRepo) Delete(ctx context.Context, id int) error {
	for i := range r.rows {
		if r.rows[i].ID == id {
			r.rows = append(r.rows[:i], r.rows[i+1:]...)
			return nil
		}
	}
	return repositories.ErrContributionNotFound
}

type fakeExpenseRepo struct {
	rows []models.Expense
}

func (r *fakeExpenseRepo) Create(ctx context.Context, e *models.Expense) error {
	e.ID = len(r.rows) + 1
	r.rows = append(r.rows, *e)
	return nil
}

func (r *fakeExpenseRepo) List(ctx context.Context) ([]models.Expense, error) {
	return append([]models.Expense(nil), r.rows...), nil
}

func (r *fakeExpenseRepo) SumAll(ctx context.Context) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, e := range r.rows {
		sum = sum.Add(e.Amount)
	}
	return sum, nil
}

func (r *fakeExpenseRepo) Delete(ctx context.Context, id int) error {
	for i := range r.rows {
		if r.rows[i].ID == id {
			r.rows = append(r.rows[:i], r.rows[i+1:]...)
			return nil
		}
	}
	return repositories.ErrExpenseNotFound
}

type fakeTeamRepo struct {
	teams   map[int]models.Team
	members map[int][]int
}

func newFakeTeamRepo() *fakeTeamRepo {
	return &fakeTeamRepo{teams: make(map[int]models.Team), members: make(map[int][]int)}
}

func (r *fakeTeamRepo) Create(ctx context.Context, team *models.Team) error {
	team.ID = len(r.teams) + 1
	r.teams[team.ID] = *team
	return nil
}

func (r *fakeTeamRepo) GetByID(ctx context.Context, id int) (*models.Team, error) {
	team, ok := r.teams[id]
	if !ok {
		return nil, repositories.ErrTeamNotFound
	}
	return &team, nil
}

func (r *fakeTeamRepo) Update(ctx context.Context, team *models.Team) error {
	if _, ok := r.teams[team.ID]; !ok {
		return repositories.ErrTeamNotFound
	}
	r.teams[team.ID] = *team
	return nil
}

func (r *fakeTeamRepo) Delete(ctx context.Context, id int) error {
	if _, ok := r.teams[id]; !ok {
		return repositories.ErrTeamNotFound
	}
	delete(r.teams, id)
	return nil
}

func (r *fakeTeamRepo) List(ctx context.Context) ([]models.Team, error) {
	out := make([]models.Team, 0, len(r.teams))
	for _, t := range r.teams {
		out = append(out, t)
	}
	return out, nil
}

func (r *fakeTeamRepo) ListByManager(ctx context.Context, managerID int) ([]models.Team, error) {
	var out []models.Team
	for _, t := range r.teams {
		if t.ManagerID == managerID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *fakeTeamRepo) AddMember(ctx context.Context, member *models.TeamMember) error {
	r.members[member.TeamID] = append(r.members[member.TeamID], member.PlayerID)
	return nil
}

func (r *fakeTeamRepo) RemoveMember(ctx context.Context, teamID, playerID int) error {
	ids := r.members[teamID]
	for i, id := range ids {
		if id == playerID {
			r.members[teamID] = append(ids[:i], ids[i+1:]...)
			return nil
		}
	}
	return repositories.ErrMemberNotFound
}

func (r *fakeTeamRepo) ListMembers(ctx context.Context, teamID int) ([]models.Player, error) {
	var out []models.Player
	for _, id := range r.members[teamID] {
		out = append(out, models.Player{ID: id})
	}
	return out, nil
}

func (r *fakeTeamRepo) CountMembers(ctx context.Context, teamID int) (int, error) {
	return len(r.members[teamID]), nil
}

func (r *fakeTeamRepo) CountAllMemberships(ctx context.Context) (int, error) {
	total := 0
	for _, ids := range r.members {
		total += len(ids)
	}
	return total, nil
}

type financeFixture struct {
	svc               FinanceService
	teamRepo          *fakeTeamRepo
	contributionRepo  *fakeContributionRepo
	participationRepo *fakeParticipationRepo
	matchRepo         *fakeMatchRepo
	expenseRepo       *fakeExpenseRepo
	playerRepo        *fakePlayerRepo
}

func newFinanceFixture() *financeFixture {
	f := &financeFixture{
		teamRepo:          newFakeTeamRepo(),
		contributionRepo:  newFakeContributionRepo(),
		participationRepo: newFakeParticipationRepo(),
		matchRepo:         newFakeMatchRepo(),
		expenseRepo:       &fakeExpenseRepo{},
		playerRepo:        newFakePlayerRepo(1, 2, 3, 4, 5),
	}
	f.svc = NewFinanceService(
		f.contributionRepo,
		f.participationRepo,
		f.teamRepo,
		f.matchRepo,
		f.expenseRepo,
		f.playerRepo,
		discardLogger(),
	)
	return f
}

func (f *financeFixture) addContribution(playerID int, amount string) {
	_ = f.contributionRepo.Create(context.Background(), &models.Contribution{
		PlayerID: playerID,
		Amount:   dec(amount),
	})
}

func (f *financeFixture) addTeam(name string, managerID int, memberIDs ...int) int {
	team := &models.Team{Name: name, ManagerID: managerID}
	_ = f.teamRepo.Create(context.Background(), team)
	f.teamRepo.members[team.ID] = memberIDs
	f.contributionRepo.memberships[team.ID] = memberIDs
	return team.ID
}

func TestPlayerBalance(t *testing.T) {
	f := newFinanceFixture()
	f.addContribution(1, "100")
	f.addContribution(1, "50")
	f.participationRepo.rows = append(f.participationRepo.rows, models.MatchParticipation{
		MatchID: 1, PlayerID: 1, IsPaying: true, ExpenseShare: dec("60"),
	})

	balance, err := f.svc.PlayerBalance(context.Background(), 1)
	require.NoError(t, err)

	assert.True(t, dec("150").Equal(balance.TotalContributions))
	assert.True(t, dec("60").Equal(balance.TotalMatchExpenses))
	assert.True(t, dec("90").Equal(balance.Balance))
}

func TestPlayerBalance_NegativeBalanceAllowed(t *testing.T) {
	f := newFinanceFixture()
	f.addContribution(2, "40")
	f.participationRepo.rows = append(f.participationRepo.rows, models.MatchParticipation{
		MatchID: 1, PlayerID: 2, IsPaying: true, ExpenseShare: dec("100"),
	})

	balance, err := f.svc.PlayerBalance(context.Background(), 2)
	require.NoError(t, err)

	assert.True(t, dec("-60").Equal(balance.Balance))
}

func TestPlayerBalance_RoundsFractionalShares(t *testing.T) {
	f := newFinanceFixture()
	// A third of 500 from an equal three-way split.
	f.participationRepo.rows = append(f.participationRepo.rows, models.MatchParticipation{
		MatchID: 1, PlayerID: 3, IsPaying: true, ExpenseShare: dec("500").Div(dec("3")),
	})

	balance, err := f.svc.PlayerBalance(context.Background(), 3)
	require.NoError(t, err)

	assert.True(t, dec("166.67").Equal(balance.TotalMatchExpenses))
	assert.True(t, dec("-166.67").Equal(balance.Balance))
}

func TestPlayerBalance_UnknownPlayer(t *testing.T) {
	f := newFinanceFixture()

	_, err := f.svc.PlayerBalance(context.Background(), 404)
	assert.ErrorIs(t, err, ErrPlayerNotFound)
}

func TestPlayerHistory(t *testing.T) {
	f := newFinanceFixture()
	f.addContribution(1, "100")
	f.participationRepo.rows = append(f.participationRepo.rows, models.MatchParticipation{
		MatchID: 7, PlayerID: 1, IsPaying: true, ExpenseShare: dec("100").Div(dec("3")),
	})

	history, err := f.svc.PlayerHistory(context.Background(), 1)
	require.NoError(t, err)

	require.Len(t, history.Contributions, 1)
	require.Len(t, history.MatchExpenses, 1)
	assert.Equal(t, 7, history.MatchExpenses[0].MatchID)
	assert.True(t, dec("33.33").Equal(history.MatchExpenses[0].ExpenseShare))
}

func TestTeamFinancials_ProratesGeneralExpenses(t *testing.T) {
	f := newFinanceFixture()
	// Two teams, ten membership rows total; the inspected team holds two.
	teamID := f.addTeam("Avengers", 1, 1, 2)
	f.addTeam("Bravos", 1, 3, 4, 5, 1, 2, 3, 4, 5)
	require.NoError(t, f.expenseRepo.Create(context.Background(), &models.Expense{
		Description: "nets hire", Amount: dec("1000"),
	}))
	teamRef := teamID
	f.matchRepo.matches[1] = models.Match{ID: 1, TeamID: &teamRef, TotalExpense: dec("200")}

	f.addContribution(1, "300")
	f.addContribution(2, "150")

	financials, err := f.svc.TeamFinancials(context.Background(), teamID)
	require.NoError(t, err)

	assert.Equal(t, "Avengers", financials.TeamName)
	assert.Equal(t, 2, financials.PlayerCount)
	// (1000 / 10) * 2 general share + 200 match costs.
	assert.True(t, dec("400").Equal(financials.TotalExpenses), "got %s", financials.TotalExpenses)
	assert.True(t, dec("450").Equal(financials.TotalContributions))
	assert.True(t, dec("50").Equal(financials.Balance))
}

func TestTeamFinancials_NoMembershipsNoProration(t *testing.T) {
	f := newFinanceFixture()
	teamID := f.addTeam("Casuals", 1)
	require.NoError(t, f.expenseRepo.Create(context.Background(), &models.Expense{
		Description: "kit", Amount: dec("500"),
	}))

	financials, err := f.svc.TeamFinancials(context.Background(), teamID)
	require.NoError(t, err)

	assert.True(t, financials.TotalExpenses.IsZero())
	assert.True(t, financials.Balance.IsZero())
}

func TestTeamFinancials_UnknownTeam(t *testing.T) {
	f := newFinanceFixture()

	_, err := f.svc.TeamFinancials(context.Background(), 404)
	assert.ErrorIs(t, err, ErrTeamNotFound)
}

func TestOrganizationSummary_SortedByTeamName(t *testing.T) {
	f := newFinanceFixture()
	f.addTeam("Zephyrs", 9, 1, 2)
	f.addTeam("Aces", 9, 3, 4)
	f.addTeam("Other managers team", 8, 5)

	f.addContribution(1, "100")
	f.addContribution(3, "80")

	summary, err := f.svc.OrganizationSummary(context.Background(), 9)
	require.NoError(t, err)

	require.Equal(t, 2, summary.TeamCount)
	assert.Equal(t, "Aces", summary.Teams[0].TeamName)
	assert.Equal(t, "Zephyrs", summary.Teams[1].TeamName)
	assert.True(t, dec("180").Equal(summary.TotalContributions))
	assert.True(t, dec("180").Equal(summary.Balance))
}

func TestOrganizationSummary_NoTeams(t *testing.T) {
	f := newFinanceFixture()

	summary, err := f.svc.OrganizationSummary(context.Background(), 1)
	require.NoError(t, err)

	assert.Zero(t, summary.TeamCount)
	assert.Empty(t, summary.Teams)
	assert.True(t, summary.Balance.IsZero())
}
