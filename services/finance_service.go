package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/covedrive/cricket-club/models"
	"github.com/covedrive/cricket-club/repositories"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// FinanceService derives player, team and club-level financial summaries.
// Everything here is computed at read time from the persisted contributions,
// participations and expenses; nothing is cached. Figures are rounded to two
// decimal places only in these derived views, never in storage.
type FinanceService interface {
	PlayerBalance(ctx context.Context, playerID int) (*models.PlayerBalance, error)
	PlayerHistory(ctx context.Context, playerID int) (*models.PlayerHistory, error)
	TeamFinancials(ctx context.Context, teamID int) (*models.TeamFinancials, error)
	OrganizationSummary(ctx context.Context, managerID int) (*models.OrganizationSummary, error)
}

type financeService struct {
	contributionRepo  repositories.ContributionRepository
	participationRepo repositories.ParticipationRepository
	teamRepo          repositories.TeamRepository
	matchRepo         repositories.MatchRepository
	expenseRepo       repositories.ExpenseRepository
	playerRepo        repositories.PlayerRepository
	logger            *slog.Logger
}

func NewFinanceService(
	contributionRepo repositories.ContributionRepository,
	participationRepo repositories.ParticipationRepository,
	teamRepo repositories.TeamRepository,
	matchRepo repositories.MatchRepository,
	expenseRepo repositories.ExpenseRepository,
	playerRepo repositories.PlayerRepository,
	logger *slog.Logger,
) FinanceService {
	return &financeService{
		contributionRepo:  contributionRepo,
		participationRepo: participationRepo,
		teamRepo:          teamRepo,
		matchRepo:         matchRepo,
		expenseRepo:       expenseRepo,
		playerRepo:        playerRepo,
		logger:            logger,
	}
}

func (s *financeService) PlayerBalance(ctx context.Context, playerID int) (*models.PlayerBalance, error) {
	if _, err := s.playerRepo.GetByID(ctx, playerID); err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to check player: %w", err)
	}

	var contributions, matchExpenses decimal.Decimal

	// The two sums are independent; fetch them concurrently.
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		contributions, err = s.contributionRepo.SumByPlayer(gCtx, playerID)
		return err
	})
	g.Go(func() error {
		var err error
		matchExpenses, err = s.participationRepo.SumSharesByPlayer(gCtx, playerID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to compute player balance: %w", err)
	}

	return &models.PlayerBalance{
		PlayerID:           playerID,
		TotalContributions: contributions.Round(2),
		TotalMatchExpenses: matchExpenses.Round(2),
		Balance:            contributions.Sub(matchExpenses).Round(2),
	}, nil
}

func (s *financeService) PlayerHistory(ctx context.Context, playerID int) (*models.PlayerHistory, error) {
	if _, err := s.playerRepo.GetByID(ctx, playerID); err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to check player: %w", err)
	}

	history := &models.PlayerHistory{}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		history.Contributions, err = s.contributionRepo.ListByPlayer(gCtx, playerID)
		return err
	})
	g.Go(func() error {
		var err error
		history.MatchExpenses, err = s.participationRepo.ListExpenseHistoryByPlayer(gCtx, playerID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load player history: %w", err)
	}

	for i := range history.MatchExpenses {
		history.MatchExpenses[i].ExpenseShare = history.MatchExpenses[i].ExpenseShare.Round(2)
	}
	return history, nil
}

// TeamFinancials prorates club-wide general expenses by the team's share of
// all membership rows (a player in two teams counts twice), then attributes
// the team's own match costs in full.
func (s *financeService) TeamFinancials(ctx context.Context, teamID int) (*models.TeamFinancials, error) {
	team, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to load team: %w", err)
	}

	var (
		memberCount      int
		totalMemberships int
		contributions    decimal.Decimal
		generalExpenses  decimal.Decimal
		matchExpenses    decimal.Decimal
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		memberCount, err = s.teamRepo.CountMembers(gCtx, teamID)
		return err
	})
	g.Go(func() error {
		var err error
		totalMemberships, err = s.teamRepo.CountAllMemberships(gCtx)
		return err
	})
	g.Go(func() error {
		var err error
		contributions, err = s.contributionRepo.SumByTeamMembers(gCtx, teamID)
		return err
	})
	g.Go(func() error {
		var err error
		generalExpenses, err = s.expenseRepo.SumAll(gCtx)
		return err
	})
	g.Go(func() error {
		var err error
		matchExpenses, err = s.matchRepo.SumTotalExpenseByTeam(gCtx, teamID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to compute team financials: %w", err)
	}

	generalShare := decimal.Zero
	if totalMemberships > 0 {
		generalShare = generalExpenses.
			Div(decimal.NewFromInt(int64(totalMemberships))).
			Mul(decimal.NewFromInt(int64(memberCount)))
	}
	totalExpenses := generalShare.Add(matchExpenses)

	return &models.TeamFinancials{
		TeamID:             teamID,
		TeamName:           team.Name,
		PlayerCount:        memberCount,
		TotalContributions: contributions.Round(2),
		TotalExpenses:      totalExpenses.Round(2),
		Balance:            contributions.Sub(totalExpenses).Round(2),
	}, nil
}

// OrganizationSummary rolls TeamFinancials up across every team managed by
// managerID. Teams come back sorted by name from the repository.
func (s *financeService) OrganizationSummary(ctx context.Context, managerID int) (*models.OrganizationSummary, error) {
	teams, err := s.teamRepo.ListByManager(ctx, managerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list managed teams: %w", err)
	}

	summary := &models.OrganizationSummary{
		Teams:              make([]models.TeamFinancials, 0, len(teams)),
		TeamCount:          len(teams),
		TotalContributions: decimal.Zero,
		TotalExpenses:      decimal.Zero,
		Balance:            decimal.Zero,
	}

	for _, team := range teams {
		financials, err := s.TeamFinancials(ctx, team.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to compute financials for team %d: %w", team.ID, err)
		}
		summary.Teams = append(summary.Teams, *financials)
		summary.TotalContributions = summary.TotalContributions.Add(financials.TotalContributions)
		summary.TotalExpenses = summary.TotalExpenses.Add(financials.TotalExpenses)
	}
	summary.Balance = summary.TotalContributions.Sub(summary.TotalExpenses)

	s.logger.DebugContext(ctx, "organization summary computed",
		slog.Int("manager_id", managerID),
		slog.Int("team_count", summary.TeamCount),
	)
	return summary, nil
}
