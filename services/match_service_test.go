package services

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/covedrive/cricket-club/models"
	"github.com/covedrive/cricket-club/repositories"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeTransactor runs the callback without a real database transaction. The
// fake repositories below ignore the executor, so passing nil is fine.
type fakeTransactor struct{}

func (fakeTransactor) WithinTx(ctx context.Context, fn func(exec repositories.SQLExecutor) error) error {
	return fn(nil)
}

type fakeMatchRepo struct {
	nextID  int
	matches map[int]models.Match
}

func newFakeMatchRepo() *fakeMatchRepo {
	return &fakeMatchRepo{nextID: 1, matches: make(map[int]models.Match)}
}

func (r *fakeMatchRepo) Create(ctx context.Context, exec repositories.SQLExecutor, match *models.Match) error {
	match.ID = r.nextID
	r.nextID++
	r.matches[match.ID] = *match
	return nil
}

func (r *fakeMatchRepo) GetByID(ctx context.Context, id int) (*models.Match, error) {
	match, ok := r.matches[id]
	if !ok {
		return nil, repositories.ErrMatchNotFound
	}
	return &match, nil
}

func (r *fakeMatchRepo) List(ctx context.Context) ([]models.Match, error) {
	out := make([]models.Match, 0, len(r.matches))
	for _, m := range r.matches {
		out = append(out, m)
	}
	return out, nil
}

func (r *fakeMatchRepo) ListByTeam(ctx context.Context, teamID int) ([]models.Match, error) {
	var out []models.Match
	for _, m := range r.matches {
		if m.TeamID != nil && *m.TeamID == teamID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *fakeMatchRepo) Update(ctx context.Context, exec repositories.SQLExecutor, match *models.Match) error {
	if _, ok := r.matches[match.ID]; !ok {
		return repositories.ErrMatchNotFound
	}
	r.matches[match.ID] = *match
	return nil
}

func (r *fakeMatchRepo) UpdateSummary(ctx context.Context, exec repositories.SQLExecutor, matchID int, total decimal.Decimal, payingCount int, perPlayer decimal.Decimal) error {
	match, ok := r.matches[matchID]
	if !ok {
		return repositories.ErrMatchNotFound
	}
	match.TotalExpense = total
	match.PlayersCount = payingCount
	match.ExpensePerPlayer = perPlayer
	r.matches[matchID] = match
	return nil
}

func (r *fakeMatchRepo) Delete(ctx context.Context, id int) error {
	if _, ok := r.matches[id]; !ok {
		return repositories.ErrMatchNotFound
	}
	delete(r.matches, id)
	return nil
}

func (r *fakeMatchRepo) SumTotalExpenseByTeam(ctx context.Context, teamID int) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, m := range r.matches {
		if m.TeamID != nil && *m.TeamID == teamID {
			sum = sum.Add(m.TotalExpense)
		}
	}
	return sum, nil
}

type fakeParticipationRepo struct {
	nextID int
	rows   []models.MatchParticipation
}

func newFakeParticipationRepo() *fakeParticipationRepo {
	return &fakeParticipationRepo{nextID: 1}
}

func (r *fakeParticipationRepo) Create(ctx context.Context, exec repositories.SQLExecutor, p *models.MatchParticipation) error {
	for _, row := range r.rows {
		if row.MatchID == p.MatchID && row.PlayerID == p.PlayerID {
			return repositories.ErrParticipationConflict
		}
	}
	p.ID = r.nextID
	r.nextID++
	r.rows = append(r.rows, *p)
	return nil
}

func (r *fakeParticipationRepo) Get(ctx context.Context, matchID, playerID int) (*models.MatchParticipation, error) {
	for _, row := range r.rows {
		if row.MatchID == matchID && row.PlayerID == playerID {
			return &row, nil
		}
	}
	return nil, repositories.ErrParticipationNotFound
}

func (r *fakeParticipationRepo) ListByMatch(ctx context.Context, matchID int) ([]models.MatchParticipation, error) {
	var out []models.MatchParticipation
	for _, row := range r.rows {
		if row.MatchID == matchID {
			out = append(out, row)
		}
	}
	return out, nil
}

func (r *fakeParticipationRepo) UpdateShare(ctx context.Context, exec repositories.SQLExecutor, matchID, playerID int, isPaying bool, share decimal.Decimal) error {
	for i := range r.rows {
		if r.rows[i].MatchID == matchID && r.rows[i].PlayerID == playerID {
			r.rows[i].IsPaying = isPaying
			r.rows[i].ExpenseShare = share
			return nil
		}
	}
	return repositories.ErrParticipationNotFound
}

func (r *fakeParticipationRepo) Delete(ctx context.Context, exec repositories.SQLExecutor, matchID, playerID int) error {
	for i := range r.rows {
		if r.rows[i].MatchID == matchID && r.rows[i].PlayerID == playerID {
			r.rows = append(r.rows[:i], r.rows[i+1:]...)
			return nil
		}
	}
	return repositories.ErrParticipationNotFound
}

func (r *fakeParticipationRepo) SumSharesByPlayer(ctx context.Context, playerID int) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, row := range r.rows {
		if row.PlayerID == playerID {
			sum = sum.Add(row.ExpenseShare)
		}
	}
	return sum, nil
}

func (r *fakeParticipationRepo) ListExpenseHistoryByPlayer(ctx context.Context, playerID int) ([]models.MatchExpenseEntry, error) {
	var out []models.MatchExpenseEntry
	for _, row := range r.rows {
		if row.PlayerID == playerID {
			out = append(out, models.MatchExpenseEntry{MatchID: row.MatchID, ExpenseShare: row.ExpenseShare})
		}
	}
	return out, nil
}

type fakePlayerRepo struct {
	players map[int]models.Player
}

func newFakePlayerRepo(ids ...int) *fakePlayerRepo {
	r := &fakePlayerRepo{players: make(map[int]models.Player)}
	for _, id := range ids {
		r.players[id] = models.Player{ID: id}
	}
	return r
}

func (r *fakePlayerRepo) Create(ctx context.Context, player *models.Player) error {
	player.ID = len(r.players) + 1
	r.players[player.ID] = *player
	return nil
}

func (r *fakePlayerRepo) GetByID(ctx context.Context, id int) (*models.Player, error) {
	player, ok := r.players[id]
	if !ok {
		return nil, repositories.ErrPlayerNotFound
	}
	return &player, nil
}

func (r *fakePlayerRepo) GetByEmail(ctx context.Context, email string) (*models.Player, error) {
	for _, p := range r.players {
		if p.Email == email {
			return &p, nil
		}
	}
	return nil, repositories.ErrPlayerNotFound
}

func (r *fakePlayerRepo) Update(ctx context.Context, player *models.Player) error {
	if _, ok := r.players[player.ID]; !ok {
		return repositories.ErrPlayerNotFound
	}
	r.players[player.ID] = *player
	return nil
}

func (r *fakePlayerRepo) Delete(ctx context.Context, id int) error {
	if _, ok := r.players[id]; !ok {
		return repositories.ErrPlayerNotFound
	}
	delete(r.players, id)
	return nil
}

func (r *fakePlayerRepo) List(ctx context.Context) ([]models.Player, error) {
	out := make([]models.Player, 0, len(r.players))
	for _, p := range r.players {
		out = append(out, p)
	}
	return out, nil
}

func newMatchServiceForTest() (MatchService, *fakeMatchRepo, *fakeParticipationRepo, *fakePlayerRepo) {
	matchRepo := newFakeMatchRepo()
	participationRepo := newFakeParticipationRepo()
	playerRepo := newFakePlayerRepo(1, 2, 3, 4, 5)
	svc := NewMatchService(fakeTransactor{}, matchRepo, participationRepo, playerRepo, discardLogger())
	return svc, matchRepo, participationRepo, playerRepo
}

func TestCreateMatch_EqualSplitAcrossPayingPlayers(t *testing.T) {
	svc, _, _, _ := newMatchServiceForTest()

	match, err := svc.CreateMatch(context.Background(), CreateMatchInput{
		GroundFee:     dec("300"),
		BallAmount:    dec("150"),
		OtherExpenses: dec("50"),
		Roster: []RosterEntry{
			{PlayerID: 1, IsPaying: true},
			{PlayerID: 2, IsPaying: true},
			{PlayerID: 3, IsPaying: true},
			{PlayerID: 4, IsPaying: true},
		},
	})
	require.NoError(t, err)

	assert.True(t, dec("500").Equal(match.TotalExpense))
	assert.Equal(t, 4, match.PlayersCount)
	assert.True(t, dec("125").Equal(match.ExpensePerPlayer))

	require.Len(t, match.Participations, 4)
	for _, p := range match.Participations {
		assert.True(t, dec("125").Equal(p.ExpenseShare), "player %d got %s", p.PlayerID, p.ExpenseShare)
	}
}

func TestCreateMatch_NonPayingPlayerGetsZeroShare(t *testing.T) {
	svc, _, _, _ := newMatchServiceForTest()

	match, err := svc.CreateMatch(context.Background(), CreateMatchInput{
		GroundFee: dec("500"),
		Roster: []RosterEntry{
			{PlayerID: 1, IsPaying: true},
			{PlayerID: 2, IsPaying: true},
			{PlayerID: 3, IsPaying: true},
			{PlayerID: 4, IsPaying: false},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 3, match.PlayersCount)
	assert.True(t, match.ExpensePerPlayer.Round(2).Equal(dec("166.67")))

	for _, p := range match.Participations {
		if p.PlayerID == 4 {
			assert.True(t, p.ExpenseShare.IsZero())
		} else {
			assert.True(t, p.ExpenseShare.Equal(match.ExpensePerPlayer))
		}
	}
}

func TestCreateMatch_EmptyRoster(t *testing.T) {
	svc, _, _, _ := newMatchServiceForTest()

	_, err := svc.CreateMatch(context.Background(), CreateMatchInput{GroundFee: dec("100")})
	assert.ErrorIs(t, err, ErrNoPlayersSelected)
}

func TestCreateMatch_AllNonPayingRejected(t *testing.T) {
	svc, matchRepo, participationRepo, _ := newMatchServiceForTest()

	_, err := svc.CreateMatch(context.Background(), CreateMatchInput{
		GroundFee: dec("100"),
		Roster: []RosterEntry{
			{PlayerID: 1, IsPaying: false},
			{PlayerID: 2, IsPaying: false},
		},
	})
	assert.ErrorIs(t, err, ErrNoPayingPlayers)

	// Nothing may be persisted on rejection.
	assert.Empty(t, matchRepo.matches)
	assert.Empty(t, participationRepo.rows)
}

func TestRemoveParticipant_ResplitsAcrossRemaining(t *testing.T) {
	svc, matchRepo, participationRepo, _ := newMatchServiceForTest()

	created, err := svc.CreateMatch(context.Background(), CreateMatchInput{
		GroundFee: dec("300"),
		Roster: []RosterEntry{
			{PlayerID: 1, IsPaying: true},
			{PlayerID: 2, IsPaying: true},
			{PlayerID: 3, IsPaying: true},
		},
	})
	require.NoError(t, err)

	match, err := svc.RemoveParticipant(context.Background(), created.ID, 3)
	require.NoError(t, err)

	assert.Equal(t, 2, match.PlayersCount)
	assert.True(t, dec("150").Equal(match.ExpensePerPlayer))
	// The total never changes on a roster mutation.
	assert.True(t, dec("300").Equal(matchRepo.matches[created.ID].TotalExpense))

	// The row is deleted, not zeroed.
	rows, err := participationRepo.ListByMatch(context.Background(), created.ID)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	for _, row := range rows {
		assert.NotEqual(t, 3, row.PlayerID)
		assert.True(t, dec("150").Equal(row.ExpenseShare))
	}
}

func TestRemoveParticipant_LastPayingPlayerRejected(t *testing.T) {
	svc, _, participationRepo, _ := newMatchServiceForTest()

	created, err := svc.CreateMatch(context.Background(), CreateMatchInput{
		GroundFee: dec("200"),
		Roster: []RosterEntry{
			{PlayerID: 1, IsPaying: true},
			{PlayerID: 2, IsPaying: false},
		},
	})
	require.NoError(t, err)

	_, err = svc.RemoveParticipant(context.Background(), created.ID, 1)
	assert.ErrorIs(t, err, ErrNoPayingPlayers)

	// The guarded row survives.
	rows, listErr := participationRepo.ListByMatch(context.Background(), created.ID)
	require.NoError(t, listErr)
	assert.Len(t, rows, 2)
}

func TestRemoveParticipant_UnknownPlayer(t *testing.T) {
	svc, _, _, _ := newMatchServiceForTest()

	created, err := svc.CreateMatch(context.Background(), CreateMatchInput{
		GroundFee: dec("100"),
		Roster:    []RosterEntry{{PlayerID: 1, IsPaying: true}},
	})
	require.NoError(t, err)

	_, err = svc.RemoveParticipant(context.Background(), created.ID, 99)
	assert.ErrorIs(t, err, ErrParticipantNotFound)
}

func TestSetPayingStatus_LastPayingPlayerRejected(t *testing.T) {
	svc, _, participationRepo, _ := newMatchServiceForTest()

	created, err := svc.CreateMatch(context.Background(), CreateMatchInput{
		GroundFee: dec("200"),
		Roster: []RosterEntry{
			{PlayerID: 1, IsPaying: true},
			{PlayerID: 2, IsPaying: false},
		},
	})
	require.NoError(t, err)

	_, err = svc.SetPayingStatus(context.Background(), created.ID, 1, false)
	assert.ErrorIs(t, err, ErrNoPayingPlayers)

	// The rejected toggle must not leak into storage.
	row, getErr := participationRepo.Get(context.Background(), created.ID, 1)
	require.NoError(t, getErr)
	assert.True(t, row.IsPaying)
	assert.True(t, dec("200").Equal(row.ExpenseShare))
}

func TestSetPayingStatus_Resplits(t *testing.T) {
	svc, _, _, _ := newMatchServiceForTest()

	created, err := svc.CreateMatch(context.Background(), CreateMatchInput{
		GroundFee: dec("300"),
		Roster: []RosterEntry{
			{PlayerID: 1, IsPaying: true},
			{PlayerID: 2, IsPaying: true},
			{PlayerID: 3, IsPaying: false},
		},
	})
	require.NoError(t, err)
	assert.True(t, dec("150").Equal(created.ExpensePerPlayer))

	match, err := svc.SetPayingStatus(context.Background(), created.ID, 3, true)
	require.NoError(t, err)

	assert.Equal(t, 3, match.PlayersCount)
	assert.True(t, dec("100").Equal(match.ExpensePerPlayer))
	for _, p := range match.Participations {
		assert.True(t, dec("100").Equal(p.ExpenseShare))
	}
}

func TestAddParticipant_ResplitsWithoutTouchingCosts(t *testing.T) {
	svc, matchRepo, _, _ := newMatchServiceForTest()

	created, err := svc.CreateMatch(context.Background(), CreateMatchInput{
		GroundFee: dec("300"),
		Roster: []RosterEntry{
			{PlayerID: 1, IsPaying: true},
			{PlayerID: 2, IsPaying: true},
		},
	})
	require.NoError(t, err)

	match, err := svc.AddParticipant(context.Background(), created.ID, 3, true)
	require.NoError(t, err)

	assert.Equal(t, 3, match.PlayersCount)
	assert.True(t, dec("100").Equal(match.ExpensePerPlayer))
	assert.True(t, dec("300").Equal(matchRepo.matches[created.ID].TotalExpense))
}

func TestAddParticipant_UnknownPlayer(t *testing.T) {
	svc, _, _, _ := newMatchServiceForTest()

	created, err := svc.CreateMatch(context.Background(), CreateMatchInput{
		GroundFee: dec("100"),
		Roster:    []RosterEntry{{PlayerID: 1, IsPaying: true}},
	})
	require.NoError(t, err)

	_, err = svc.AddParticipant(context.Background(), created.ID, 42, true)
	assert.ErrorIs(t, err, ErrPlayerNotFound)
}

func TestUpdateMatch_CostChangeResplits(t *testing.T) {
	svc, _, _, _ := newMatchServiceForTest()

	created, err := svc.CreateMatch(context.Background(), CreateMatchInput{
		GroundFee:  dec("300"),
		BallAmount: dec("100"),
		Roster: []RosterEntry{
			{PlayerID: 1, IsPaying: true},
			{PlayerID: 2, IsPaying: true},
		},
	})
	require.NoError(t, err)
	assert.True(t, dec("200").Equal(created.ExpensePerPlayer))

	newFee := dec("500")
	match, err := svc.UpdateMatch(context.Background(), created.ID, UpdateMatchInput{GroundFee: &newFee})
	require.NoError(t, err)

	assert.True(t, dec("600").Equal(match.TotalExpense))
	assert.True(t, dec("300").Equal(match.ExpensePerPlayer))
	for _, p := range match.Participations {
		assert.True(t, dec("300").Equal(p.ExpenseShare))
	}
}

func TestUpdateMatch_NotFound(t *testing.T) {
	svc, _, _, _ := newMatchServiceForTest()

	_, err := svc.UpdateMatch(context.Background(), 999, UpdateMatchInput{})
	assert.ErrorIs(t, err, ErrMatchNotFound)
}
