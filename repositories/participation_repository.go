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
	ErrParticipationNotFound      = errors.New("match participation not found")
	ErrParticipationConflict      = errors.New("player is already a participant of this match")
	ErrParticipationPlayerInvalid = errors.New("participation player conflict or invalid")
	ErrParticipationMatchInvalid  = errors.New("participation match conflict or invalid")
)

type ParticipationRepository interface {
	Create(ctx context.Context, exec SQLExecutor, p *models.MatchParticipation) error
	Get(ctx context.Context, matchID, playerID int) (*models.MatchParticipation, error)
	ListByMatch(ctx context.Context, matchID int) ([]models.MatchParticipation, error)
	// UpdateShare rewrites paying status and share for one participation row.
	UpdateShare(ctx context.Context, exec SQLExecutor, matchID, playerID int, isPaying bool, share decimal.Decimal) error
	Delete(ctx context.Context, exec SQLExecutor, matchID, playerID int) error
	SumSharesByPlayer(ctx context.Context, playerID int) (decimal.Decimal, error)
	ListExpenseHistoryByPlayer(ctx context.Context, playerID int) ([]models.MatchExpenseEntry, error)
}

type postgresParticipationRepository struct {
	db *sql.DB
}

func NewPostgresParticipationRepository(db *sql.DB) ParticipationRepository {
	return &postgresParticipationRepository{db: db}
}

func (r *postgresParticipationRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresParticipationRepository) Create(ctx context.Context, exec SQLExecutor, p *models.MatchParticipation) error {
	query := `
		INSERT INTO match_participations (match_id, player_id, is_paying, expense_share)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := r.getExecutor(exec).QueryRowContext(ctx, query,
		p.MatchID,
		p.PlayerID,
		p.IsPaying,
		p.ExpenseShare,
	).Scan(&p.ID, &p.CreatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Code {
			case "23505":
				return ErrParticipationConflict
			case "23503":
				switch pqErr.Constraint {
				case "match_participations_player_id_fkey":
					return ErrParticipationPlayerInvalid
				case "match_participations_match_id_fkey":
					return ErrParticipationMatchInvalid
				}
			}
		}
		return fmt.Errorf("failed to create participation: %w", err)
	}
	return nil
}

func (r *postgresParticipationRepository) Get(ctx context.Context, matchID, playerID int) (*models.MatchParticipation, error) {
	query := `
		SELECT id, match_id, player_id, is_paying, expense_share, created_at
		FROM match_participations
		WHERE match_id = $1 AND player_id = $2`

	p := &models.MatchParticipation{}
	err := r.db.QueryRowContext(ctx, query, matchID, playerID).Scan(
		&p.ID, &p.MatchID, &p.PlayerID, &p.IsPaying, &p.ExpenseShare, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrParticipationNotFound
		}
		return nil, fmt.Errorf("failed to scan participation: %w", err)
	}
	return p, nil
}

func (r *postgresParticipationRepository) ListByMatch(ctx context.Context, matchID int) ([]models.MatchParticipation, error) {
	query := `
		SELECT
			mp.id, mp.match_id, mp.player_id, mp.is_paying, mp.expense_share, mp.created_at,
			p.id, p.first_name, p.last_name, p.email, p.phone, p.role, p.password_hash, p.photo_key, p.created_at
		FROM match_participations mp
		JOIN players p ON mp.player_id = p.id
		WHERE mp.match_id = $1
		ORDER BY mp.created_at ASC`

	rows, err := r.db.QueryContext(ctx, query, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to list participations: %w", err)
	}
	defer rows.Close()

	participations := make([]models.MatchParticipation, 0)
	for rows.Next() {
		var mp models.MatchParticipation
		var player models.Player
		if err := rows.Scan(
			&mp.ID, &mp.MatchID, &mp.PlayerID, &mp.IsPaying, &mp.ExpenseShare, &mp.CreatedAt,
			&player.ID, &player.FirstName, &player.LastName, &player.Email, &player.Phone,
			&player.Role, &player.PasswordHash, &player.PhotoKey, &player.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan participation row: %w", err)
		}
		player.PasswordHash = ""
		mp.Player = &player
		participations = append(participations, mp)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating participation rows: %w", err)
	}
	return participations, nil
}

func (r *postgresParticipationRepository) UpdateShare(ctx context.Context, exec SQLExecutor, matchID, playerID int, isPaying bool, share decimal.Decimal) error {
	query := `
		UPDATE match_participations
		SET is_paying = $1, expense_share = $2
		WHERE match_id = $3 AND player_id = $4`

	result, err := r.getExecutor(exec).ExecContext(ctx, query, isPaying, share, matchID, playerID)
	if err != nil {
		return fmt.Errorf("failed to update participation share: %w", err)
	}

	rowsAffected, err := checkRowsAffected(result)
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrParticipationNotFound
	}
	return nil
}

func (r *postgresParticipationRepository) Delete(ctx context.Context, exec SQLExecutor, matchID, playerID int) error {
	query := `DELETE FROM match_participations WHERE match_id = $1 AND player_id = $2`
	result, err := r.getExecutor(exec).ExecContext(ctx, query, matchID, playerID)
	if err != nil {
		return fmt.Errorf("failed to delete participation: %w", err)
	}

	rowsAffected, err := checkRowsAffected(result)
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrParticipationNotFound
	}
	return nil
}

func (r *postgresParticipationRepository) SumSharesByPlayer(ctx context.Context, playerID int) (decimal.Decimal, error) {
	query := `SELECT COALESCE(SUM(expense_share), 0) FROM match_participations WHERE player_id = $1`

	var sum decimal.Decimal
	if err := r.db.QueryRowContext(ctx, query, playerID).Scan(&sum); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum expense shares: %w", err)
	}
	return sum, nil
}

func (r *postgresParticipationRepository) ListExpenseHistoryByPlayer(ctx context.Context, playerID int) ([]models.MatchExpenseEntry, error) {
	query := `
		SELECT m.id, m.date, t.name, m.opponent, m.venue, mp.expense_share
		FROM match_participations mp
		JOIN matches m ON mp.match_id = m.id
		LEFT JOIN teams t ON m.team_id = t.id
		WHERE mp.player_id = $1
		ORDER BY m.date DESC`

	rows, err := r.db.QueryContext(ctx, query, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list expense history: %w", err)
	}
	defer rows.Close()

	entries := make([]models.MatchExpenseEntry, 0)
	for rows.Next() {
		var e models.MatchExpenseEntry
		if err := rows.Scan(&e.MatchID, &e.Date, &e.TeamName, &e.Opponent, &e.Venue, &e.ExpenseShare); err != nil {
			return nil, fmt.Errorf("failed to scan expense history row: %w", err)
		}
		entries = append(entries, e)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating expense history rows: %w", err)
	}
	return entries, nil
}
