package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/covedrive/cricket-club/allocation"
	"github.com/covedrive/cricket-club/models"
	"github.com/covedrive/cricket-club/repositories"
	"github.com/shopspring/decimal"
)

type RosterEntry struct {
	PlayerID int  `json:"player_id"`
	IsPaying bool `json:"is_paying"`
}

type CreateMatchInput struct {
	TeamID        *int            `json:"team_id"`
	Date          time.Time       `json:"date"`
	Opponent      *string         `json:"opponent"`
	Venue         *string         `json:"venue"`
	GroundFee     decimal.Decimal `json:"ground_fee"`
	BallAmount    decimal.Decimal `json:"ball_amount"`
	OtherExpenses decimal.Decimal `json:"other_expenses"`
	Roster        []RosterEntry   `json:"roster"`
}

type UpdateMatchInput struct {
	TeamID        *int             `json:"team_id"`
	Date          *time.Time       `json:"date"`
	Opponent      *string          `json:"opponent"`
	Venue         *string          `json:"venue"`
	GroundFee     *decimal.Decimal `json:"ground_fee"`
	BallAmount    *decimal.Decimal `json:"ball_amount"`
	OtherExpenses *decimal.Decimal `json:"other_expenses"`
}

type MatchService interface {
	CreateMatch(ctx context.Context, input CreateMatchInput) (*models.Match, error)
	GetMatchByID(ctx context.Context, id int) (*models.Match, error)
	ListMatches(ctx context.Context) ([]models.Match, error)
	ListMatchesByTeam(ctx context.Context, teamID int) ([]models.Match, error)
	UpdateMatch(ctx context.Context, id int, input UpdateMatchInput) (*models.Match, error)
	DeleteMatch(ctx context.Context, id int) error

	AddParticipant(ctx context.Context, matchID, playerID int, isPaying bool) (*models.Match, error)
	RemoveParticipant(ctx context.Context, matchID, playerID int) (*models.Match, error)
	SetPayingStatus(ctx context.Context, matchID, playerID int, isPaying bool) (*models.Match, error)
}

type matchService struct {
	tx                Transactor
	matchRepo         repositories.MatchRepository
	participationRepo repositories.ParticipationRepository
	playerRepo        repositories.PlayerRepository
	logger            *slog.Logger
}

// Transactor aliases the repository-level transaction helper so service
// constructors read naturally.
type Transactor = repositories.Transactor

func NewMatchService(
	tx Transactor,
	matchRepo repositories.MatchRepository,
	participationRepo repositories.ParticipationRepository,
	playerRepo repositories.PlayerRepository,
	logger *slog.Logger,
) MatchService {
	return &matchService{
		tx:                tx,
		matchRepo:         matchRepo,
		participationRepo: participationRepo,
		playerRepo:        playerRepo,
		logger:            logger,
	}
}

// CreateMatch persists the match and seeds its roster in one transaction, so
// a failed participation insert never leaves a partially seeded match behind.
func (s *matchService) CreateMatch(ctx context.Context, input CreateMatchInput) (*models.Match, error) {
	if len(input.Roster) == 0 {
		return nil, ErrNoPlayersSelected
	}

	roster := make([]allocation.Participation, len(input.Roster))
	for i, entry := range input.Roster {
		roster[i] = allocation.Participation{PlayerID: entry.PlayerID, IsPaying: entry.IsPaying}
	}
	payingIDs := allocation.PayingPlayerIDs(roster)
	if len(payingIDs) == 0 {
		return nil, ErrNoPayingPlayers
	}

	total := allocation.ComputeTotal(input.GroundFee, input.BallAmount, input.OtherExpenses)
	shares, perPlayer := allocation.Allocate(total, payingIDs)

	match := &models.Match{
		TeamID:           input.TeamID,
		Date:             input.Date,
		Opponent:         input.Opponent,
		Venue:            input.Venue,
		GroundFee:        input.GroundFee,
		BallAmount:       input.BallAmount,
		OtherExpenses:    input.OtherExpenses,
		TotalExpense:     total,
		PlayersCount:     len(payingIDs),
		ExpensePerPlayer: perPlayer,
	}

	err := s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		if err := s.matchRepo.Create(ctx, exec, match); err != nil {
			return err
		}
		for _, entry := range input.Roster {
			p := &models.MatchParticipation{
				MatchID:      match.ID,
				PlayerID:     entry.PlayerID,
				IsPaying:     entry.IsPaying,
				ExpenseShare: decimal.Zero,
			}
			if entry.IsPaying {
				p.ExpenseShare = shares[entry.PlayerID]
			}
			if err := s.participationRepo.Create(ctx, exec, p); err != nil {
				return err
			}
			match.Participations = append(match.Participations, *p)
		}
		return nil
	})
	if err != nil {
		return nil, mapMatchRepoError(err)
	}

	s.logger.InfoContext(ctx, "match created",
		slog.Int("match_id", match.ID),
		slog.String("total_expense", total.String()),
		slog.Int("paying_players", len(payingIDs)),
	)
	return match, nil
}

func (s *matchService) GetMatchByID(ctx context.Context, id int) (*models.Match, error) {
	match, err := s.matchRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapMatchRepoError(err)
	}

	participations, err := s.participationRepo.ListByMatch(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load match roster: %w", err)
	}
	match.Participations = participations
	return match, nil
}

func (s *matchService) ListMatches(ctx context.Context) ([]models.Match, error) {
	return s.matchRepo.List(ctx)
}

func (s *matchService) ListMatchesByTeam(ctx context.Context, teamID int) ([]models.Match, error) {
	return s.matchRepo.ListByTeam(ctx, teamID)
}

// UpdateMatch applies new details and, when any fixed cost changed, re-splits
// the new total across the current paying roster.
func (s *matchService) UpdateMatch(ctx context.Context, id int, input UpdateMatchInput) (*models.Match, error) {
	match, err := s.matchRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapMatchRepoError(err)
	}

	if input.TeamID != nil {
		match.TeamID = input.TeamID
	}
	if input.Date != nil {
		match.Date = *input.Date
	}
	if input.Opponent != nil {
		match.Opponent = input.Opponent
	}
	if input.Venue != nil {
		match.Venue = input.Venue
	}

	costsChanged := false
	if input.GroundFee != nil {
		match.GroundFee = *input.GroundFee
		costsChanged = true
	}
	if input.BallAmount != nil {
		match.BallAmount = *input.BallAmount
		costsChanged = true
	}
	if input.OtherExpenses != nil {
		match.OtherExpenses = *input.OtherExpenses
		costsChanged = true
	}

	roster, err := s.participationRepo.ListByMatch(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load match roster: %w", err)
	}

	if costsChanged {
		match.TotalExpense = allocation.ComputeTotal(match.GroundFee, match.BallAmount, match.OtherExpenses)
	}

	err = s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		if costsChanged {
			updated, applyErr := s.applyResplit(ctx, exec, match, roster)
			if applyErr != nil {
				return applyErr
			}
			match.Participations = updated
		} else {
			match.Participations = roster
		}
		return s.matchRepo.Update(ctx, exec, match)
	})
	if err != nil {
		return nil, mapMatchRepoError(err)
	}
	return match, nil
}

func (s *matchService) DeleteMatch(ctx context.Context, id int) error {
	if err := s.matchRepo.Delete(ctx, id); err != nil {
		return mapMatchRepoError(err)
	}
	return nil
}

// AddParticipant adds a player to the roster and re-splits the persisted
// total across the new paying set. Fixed costs are never touched here.
func (s *matchService) AddParticipant(ctx context.Context, matchID, playerID int, isPaying bool) (*models.Match, error) {
	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return nil, mapMatchRepoError(err)
	}
	if _, err := s.playerRepo.GetByID(ctx, playerID); err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to check player: %w", err)
	}

	roster, err := s.participationRepo.ListByMatch(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to load match roster: %w", err)
	}

	newEntry := models.MatchParticipation{
		MatchID:      matchID,
		PlayerID:     playerID,
		IsPaying:     isPaying,
		ExpenseShare: decimal.Zero,
	}

	err = s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		if err := s.participationRepo.Create(ctx, exec, &newEntry); err != nil {
			return err
		}
		updated, applyErr := s.applyResplit(ctx, exec, match, append(roster, newEntry))
		if applyErr != nil {
			return applyErr
		}
		match.Participations = updated
		return nil
	})
	if err != nil {
		return nil, mapMatchRepoError(err)
	}

	s.logger.InfoContext(ctx, "participant added",
		slog.Int("match_id", matchID),
		slog.Int("player_id", playerID),
		slog.Bool("is_paying", isPaying),
	)
	return match, nil
}

// RemoveParticipant deletes the roster row entirely (not zeroed) and
// re-splits the remaining paying set. Removing the last paying participant
// is rejected with the same error as toggling it non-paying, keeping the
// at-least-one-paying invariant under both mutation paths.
func (s *matchService) RemoveParticipant(ctx context.Context, matchID, playerID int) (*models.Match, error) {
	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return nil, mapMatchRepoError(err)
	}

	roster, err := s.participationRepo.ListByMatch(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to load match roster: %w", err)
	}

	remaining := make([]models.MatchParticipation, 0, len(roster))
	found := false
	payingLeft := 0
	for _, p := range roster {
		if p.PlayerID == playerID {
			found = true
			continue
		}
		if p.IsPaying {
			payingLeft++
		}
		remaining = append(remaining, p)
	}
	if !found {
		return nil, ErrParticipantNotFound
	}
	if payingLeft == 0 {
		return nil, ErrNoPayingPlayers
	}

	err = s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		if err := s.participationRepo.Delete(ctx, exec, matchID, playerID); err != nil {
			return err
		}
		updated, applyErr := s.applyResplit(ctx, exec, match, remaining)
		if applyErr != nil {
			return applyErr
		}
		match.Participations = updated
		return nil
	})
	if err != nil {
		return nil, mapMatchRepoError(err)
	}

	s.logger.InfoContext(ctx, "participant removed",
		slog.Int("match_id", matchID),
		slog.Int("player_id", playerID),
	)
	return match, nil
}

// SetPayingStatus toggles is_paying for one participant and re-splits.
func (s *matchService) SetPayingStatus(ctx context.Context, matchID, playerID int, isPaying bool) (*models.Match, error) {
	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return nil, mapMatchRepoError(err)
	}

	roster, err := s.participationRepo.ListByMatch(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to load match roster: %w", err)
	}

	found := false
	payingAfter := 0
	for i := range roster {
		if roster[i].PlayerID == playerID {
			found = true
			roster[i].IsPaying = isPaying
		}
		if roster[i].IsPaying {
			payingAfter++
		}
	}
	if !found {
		return nil, ErrParticipantNotFound
	}
	if payingAfter == 0 {
		return nil, ErrNoPayingPlayers
	}

	err = s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		updated, applyErr := s.applyResplit(ctx, exec, match, roster)
		if applyErr != nil {
			return applyErr
		}
		match.Participations = updated
		return nil
	})
	if err != nil {
		return nil, mapMatchRepoError(err)
	}

	s.logger.InfoContext(ctx, "paying status changed",
		slog.Int("match_id", matchID),
		slog.Int("player_id", playerID),
		slog.Bool("is_paying", isPaying),
	)
	return match, nil
}

// applyResplit recomputes every share from the match's persisted total and
// writes the new shares plus the match summary fields. Callers run it inside
// a transaction alongside the roster change itself.
func (s *matchService) applyResplit(ctx context.Context, exec repositories.SQLExecutor, match *models.Match, roster []models.MatchParticipation) ([]models.MatchParticipation, error) {
	entries := make([]allocation.Participation, len(roster))
	for i, p := range roster {
		entries[i] = allocation.Participation{PlayerID: p.PlayerID, IsPaying: p.IsPaying, ExpenseShare: p.ExpenseShare}
	}

	resplit := allocation.Recompute(match.TotalExpense, entries)
	payingIDs := allocation.PayingPlayerIDs(resplit)
	_, perPlayer := allocation.Allocate(match.TotalExpense, payingIDs)

	updated := make([]models.MatchParticipation, len(roster))
	for i, p := range roster {
		p.IsPaying = resplit[i].IsPaying
		p.ExpenseShare = resplit[i].ExpenseShare
		if err := s.participationRepo.UpdateShare(ctx, exec, p.MatchID, p.PlayerID, p.IsPaying, p.ExpenseShare); err != nil {
			return nil, err
		}
		updated[i] = p
	}

	match.PlayersCount = len(payingIDs)
	match.ExpensePerPlayer = perPlayer
	if err := s.matchRepo.UpdateSummary(ctx, exec, match.ID, match.TotalExpense, match.PlayersCount, match.ExpensePerPlayer); err != nil {
		return nil, err
	}
	return updated, nil
}

func mapMatchRepoError(err error) error {
	switch {
	case errors.Is(err, repositories.ErrMatchNotFound):
		return ErrMatchNotFound
	case errors.Is(err, repositories.ErrParticipationNotFound):
		return ErrParticipantNotFound
	case errors.Is(err, repositories.ErrParticipationConflict):
		return ErrParticipantConflict
	case errors.Is(err, repositories.ErrParticipationPlayerInvalid):
		return ErrPlayerNotFound
	case errors.Is(err, repositories.ErrParticipationMatchInvalid),
		errors.Is(err, repositories.ErrMatchTeamInvalid):
		return ErrTeamNotFound
	default:
		return err
	}
}
