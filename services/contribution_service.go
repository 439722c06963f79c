package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/covedrive/cricket-club/models"
	"github.com/covedrive/cricket-club/repositories"
	"github.com/shopspring/decimal"
)

type CreateContributionInput struct {
	PlayerID    int             `json:"player_id"`
	Amount      decimal.Decimal `json:"amount"`
	Date        time.Time       `json:"date"`
	Description *string         `json:"description"`
}

type ContributionService interface {
	CreateContribution(ctx context.Context, input CreateContributionInput) (*models.Contribution, error)
	ListContributions(ctx context.Context) ([]models.Contribution, error)
	ListContributionsByPlayer(ctx context.Context, playerID int) ([]models.Contribution, error)
	DeleteContribution(ctx context.Context, id int) error
}

type contributionService struct {
	contributionRepo repositories.ContributionRepository
	playerRepo       repositories.PlayerRepository
}

func NewContributionService(
	contributionRepo repositories.ContributionRepository,
	playerRepo repositories.PlayerRepository,
) ContributionService {
	return &contributionService{
		contributionRepo: contributionRepo,
		playerRepo:       playerRepo,
	}
}

// CreateContribution records a payment into the club fund. Contributions are
// strictly additive to a player's balance, so a non-positive amount is
// rejected.
func (s *contributionService) CreateContribution(ctx context.Context, input CreateContributionInput) (*models.Contribution, error) {
	if !input.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	if _, err := s.playerRepo.GetByID(ctx, input.PlayerID); err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to check player: %w", err)
	}

	date := input.Date
	if date.IsZero() {
		date = time.Now()
	}

	contribution := &models.Contribution{
		PlayerID:    input.PlayerID,
		Amount:      input.Amount,
		Date:        date,
		Description: input.Description,
	}
	if err := s.contributionRepo.Create(ctx, contribution); err != nil {
		if errors.Is(err, repositories.ErrContributionPlayerInvalid) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to create contribution: %w", err)
	}
	return contribution, nil
}

func (s *contributionService) ListContributions(ctx context.Context) ([]models.Contribution, error) {
	return s.contributionRepo.List(ctx)
}

func (s *contributionService) ListContributionsByPlayer(ctx context.Context, playerID int) ([]models.Contribution, error) {
	if _, err := s.playerRepo.GetByID(ctx, playerID); err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to check player: %w", err)
	}
	return s.contributionRepo.ListByPlayer(ctx, playerID)
}

func (s *contributionService) DeleteContribution(ctx context.Context, id int) error {
	if err := s.contributionRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrContributionNotFound) {
			return ErrContributionNotFound
		}
		return fmt.Errorf("failed to delete contribution: %w", err)
	}
	return nil
}
