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
	ErrMatchNotFound    = errors.New("match not found")
	ErrMatchTeamInvalid = errors.New("match team conflict or invalid")
)

type MatchRepository interface {
	Create(ctx context.Context, exec SQLExecutor, match *models.Match) error
	GetByID(ctx context.Context, id int) (*models.Match, error)
	List(ctx context.Context) ([]models.Match, error)
	ListByTeam(ctx context.Context, teamID int) ([]models.Match, error)
	Update(ctx context.Context, exec SQLExecutor, match *models.Match) error
	// UpdateSummary rewrites only the derived fields after a roster change.
	UpdateSummary(ctx context.Context, exec SQLExecutor, matchID int, total decimal.Decimal, payingCount int, perPlayer decimal.Decimal) error
	Delete(ctx context.Context, id int) error
	SumTotalExpenseByTeam(ctx context.Context, teamID int) (decimal.Decimal, error)
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

func (r *postgresMatchRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const matchColumns = `id, team_id, date, opponent, venue, ground_fee, ball_amount, other_expenses,
		total_expense, players_count, expense_per_player, created_at`

func (r *postgresMatchRepository) Create(ctx context.Context, exec SQLExecutor, match *models.Match) error {
	query := `
		INSERT INTO matches
			(team_id, date, opponent, venue, ground_fee, ball_amount, other_expenses,
			 total_expense, players_count, expense_per_player)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at`

	err := r.getExecutor(exec).QueryRowContext(ctx, query,
		match.TeamID,
		match.Date,
		match.Opponent,
		match.Venue,
		match.GroundFee,
		match.BallAmount,
		match.OtherExpenses,
		match.TotalExpense,
		match.PlayersCount,
		match.ExpensePerPlayer,
	).Scan(&match.ID, &match.CreatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			return ErrMatchTeamInvalid
		}
		return fmt.Errorf("failed to create match: %w", err)
	}
	return nil
}

func (r *postgresMatchRepository) GetByID(ctx context.Context, id int) (*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE id = $1`

	match := &models.Match{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&match.ID, &match.TeamID, &match.Date, &match.Opponent, &match.Venue,
		&match.GroundFee, &match.BallAmount, &match.OtherExpenses,
		&match.TotalExpense, &match.PlayersCount, &match.ExpensePerPlayer,
		&match.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to scan match: %w", err)
	}
	return match, nil
}

func (r *postgresMatchRepository) List(ctx context.Context) ([]models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches ORDER BY date DESC`
	return r.listMatches(ctx, query)
}

func (r *postgresMatchRepository) ListByTeam(ctx context.Context, teamID int) ([]models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE team_id = $1 ORDER BY date DESC`
	return r.listMatches(ctx, query, teamID)
}

func (r *postgresMatchRepository) Update(ctx context.Context, exec SQLExecutor, match *models.Match) error {
	query := `
		UPDATE matches SET
			team_id = $1,
			date = $2,
			opponent = $3,
			venue = $4,
			ground_fee = $5,
			ball_amount = $6,
			other_expenses = $7,
			total_expense = $8,
			players_count = $9,
			expense_per_player = $10
		WHERE id = $11`

	result, err := r.getExecutor(exec).ExecContext(ctx, query,
		match.TeamID,
		match.Date,
		match.Opponent,
		match.Venue,
		match.GroundFee,
		match.BallAmount,
		match.OtherExpenses,
		match.TotalExpense,
		match.PlayersCount,
		match.ExpensePerPlayer,
		match.ID,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			return ErrMatchTeamInvalid
		}
		return fmt.Errorf("failed to update match: %w", err)
	}

	rowsAffected, err := checkRowsAffected(result)
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrMatchNotFound
	}
	return nil
}

func (r *postgresMatchRepository) UpdateSummary(ctx context.Context, exec SQLExecutor, matchID int, total decimal.Decimal, payingCount int, perPlayer decimal.Decimal) error {
	query := `
		UPDATE matches SET
			total_expense = $1,
			players_count = $2,
			expense_per_player = $3
		WHERE id = $4`

	result, err := r.getExecutor(exec).ExecContext(ctx, query, total, payingCount, perPlayer, matchID)
	if err != nil {
		return fmt.Errorf("failed to update match summary: %w", err)
	}

	rowsAffected, err := checkRowsAffected(result)
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrMatchNotFound
	}
	return nil
}

func (r *postgresMatchRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM matches WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete match: %w", err)
	}

	rowsAffected, err := checkRowsAffected(result)
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrMatchNotFound
	}
	return nil
}

func (r *postgresMatchRepository) SumTotalExpenseByTeam(ctx context.Context, teamID int) (decimal.Decimal, error) {
	query := `SELECT COALESCE(SUM(total_expense), 0) FROM matches WHERE team_id = $1`

	var sum decimal.Decimal
	if err := r.db.QueryRowContext(ctx, query, teamID).Scan(&sum); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum match expenses for team: %w", err)
	}
	return sum, nil
}

func (r *postgresMatchRepository) listMatches(ctx context.Context, query string, args ...interface{}) ([]models.Match, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}
	defer rows.Close()

	matches := make([]models.Match, 0)
	for rows.Next() {
		var m models.Match
		if err := rows.Scan(
			&m.ID, &m.TeamID, &m.Date, &m.Opponent, &m.Venue,
			&m.GroundFee, &m.BallAmount, &m.OtherExpenses,
			&m.TotalExpense, &m.PlayersCount, &m.ExpensePerPlayer,
			&m.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan match row: %w", err)
		}
		matches = append(matches, m)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating match rows: %w", err)
	}
	return matches, nil
}
