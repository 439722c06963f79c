package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/covedrive/cricket-club/models"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

var (
	ErrContributionNotFound      = errors.New("contribution not found")
	ErrContributionPlayerInvalid = errors.New("contribution player conflict or invalid")
)

type ContributionRepository interface {
	Create(ctx context.Context, c *models.Contribution) error
	ListByPlayer(ctx context.Context, playerID int) ([]models.Contribution, error)
	List(ctx context.Context) ([]models.Contribution, error)
	SumByPlayer(ctx context.Context, playerID int) (decimal.Decimal, error)
	SumByTeamMembers(ctx context.Context, teamID int) (decimal.Decimal, error)
	Delete(ctx context.Context, id int) error
}

type postgresContributionRepository struct {
	db *sql.DB
}

func NewPostgresContributionRepository(db *sql.DB) ContributionRepository {
	return &postgresContributionRepository{db: db}
}

func (r *postgresContributionRepository) Create(ctx context.Context, c *models.Contribution) error {
	query := `
		INSERT INTO contributions (player_id, amount, date, description)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		c.PlayerID,
		c.Amount,
		c.Date,
		c.Description,
	).Scan(&c.ID, &c.CreatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			return ErrContributionPlayerInvalid
		}
		return fmt.Errorf("failed to create contribution: %w", err)
	}
	return nil
}

func (r *postgresContributionRepository) ListByPlayer(ctx context.Context, playerID int) ([]models.Contribution, error) {
	query := `
		SELECT id, player_id, amount, date, description, created_at
		FROM contributions
		WHERE player_id = $1
		ORDER BY date DESC`
	return r.listContributions(ctx, query, playerID)
}

func (r *postgresContributionRepository) List(ctx context.Context) ([]models.Contribution, error) {
	query := `
		SELECT id, player_id, amount, date, description, created_at
		FROM contributions
		ORDER BY date DESC`
	return r.listContributions(ctx, query)
}

func (r *postgresContributionRepository) SumByPlayer(ctx context.Context, playerID int) (decimal.Decimal, error) {
	query := `SELECT COALESCE(SUM(amount), 0) FROM contributions WHERE player_id = $1`

	var sum decimal.Decimal
	if err := r.db.QueryRowContext(ctx, query, playerID).Scan(&sum); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum contributions: %w", err)
	}
	return sum, nil
}

func (r *postgresContributionRepository) SumByTeamMembers(ctx context.Context, teamID int) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(c.amount), 0)
		FROM contributions c
		JOIN team_members tm ON tm.player_id = c.player_id
		WHERE tm.team_id = $1`

	var sum decimal.Decimal
	if err := r.db.QueryRowContext(ctx, query, teamID).Scan(&sum); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum team contributions: %w", err)
	}
	return sum, nil
}

func (r *postgresContributionRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM contributions WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete contribution: %w", err)
	}

	rowsAffected, err := checkRowsAffected(result)
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrContributionNotFound
	}
	return nil
}

func (r *postgresContributionRepository) listContributions(ctx context.Context, query string, args ...interface{}) ([]models.Contribution, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list contributions: %w", err)
	}
	defer rows.Close()

	contributions := make([]models.Contribution, 0)
	for rows.Next() {
		var c models.Contribution
		if err := rows.Scan(&c.ID, &c.PlayerID, &c.Amount, &c.Date, &c.Description, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan contribution row: %w", err)
		}
		contributions = append(contributions, c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating contribution rows: %w", err)
	}
	return contributions, nil
}
