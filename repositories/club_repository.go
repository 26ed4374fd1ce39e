package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fadhelhaji/90Plus-backend/models"
	"github.com/lib/pq"
)

var (
	ErrClubNotFound         = errors.New("club not found")
	ErrClubCoachConflict    = errors.New("coach already owns a club")
	ErrClubCoachInvalid     = errors.New("club coach conflict or invalid")
	ErrMembershipNotFound   = errors.New("membership not found")
	ErrMembershipConflict   = errors.New("membership already exists")
	ErrMembershipApproved   = errors.New("player already approved by a club")
	ErrMembershipRefInvalid = errors.New("membership club or player invalid")
)

type ClubRepository interface {
	Create(ctx context.Context, club *models.Club) error
	GetByID(ctx context.Context, id int) (*models.Club, error)
	Exists(ctx context.Context, id int) (bool, error)
	GetByCoachID(ctx context.Context, coachID int) (*models.Club, error)
	List(ctx context.Context) ([]models.Club, error)

	// AddMembership inserts a new (club, player) membership. The composite key rejects duplicates.
	AddMembership(ctx context.Context, clubID int, membership *models.Membership) error
	// ApproveMembership marks an invited membership approved and sets the player's club_id atomically.
	ApproveMembership(ctx context.Context, clubID, playerID int) error
	// RemoveMembership deletes the membership and clears club_id when it was approved.
	// It reports whether a row was removed.
	RemoveMembership(ctx context.Context, clubID, playerID int) (bool, error)
}

type postgresClubRepository struct {
	db *sql.DB
}

func NewPostgresClubRepository(db *sql.DB) ClubRepository {
	return &postgresClubRepository{db: db}
}

func (r *postgresClubRepository) Create(ctx context.Context, club *models.Club) error {
	query := `
		INSERT INTO clubs (club_name, coach_id)
		VALUES ($1, $2)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query, club.ClubName, club.CoachID).Scan(&club.ID, &club.CreatedAt)
	if err != nil {
		if constraint, ok := pqConstraintError(err, pqUniqueViolation); ok && constraint == "clubs_coach_id_key" {
			return ErrClubCoachConflict
		}
		if constraint, ok := pqConstraintError(err, pqForeignKeyViolation); ok && constraint == "clubs_coach_id_fkey" {
			return ErrClubCoachInvalid
		}
		return err
	}
	club.Players = []models.Membership{}
	return nil
}

func (r *postgresClubRepository) GetByID(ctx context.Context, id int) (*models.Club, error) {
	return r.getOne(ctx, `SELECT id, club_name, coach_id, created_at FROM clubs WHERE id = $1`, id)
}

func (r *postgresClubRepository) Exists(ctx context.Context, id int) (bool, error) {
	var exists bool
	if err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM clubs WHERE id = $1)`, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check club %d: %w", id, err)
	}
	return exists, nil
}

func (r *postgresClubRepository) GetByCoachID(ctx context.Context, coachID int) (*models.Club, error) {
	return r.getOne(ctx, `SELECT id, club_name, coach_id, created_at FROM clubs WHERE coach_id = $1`, coachID)
}

func (r *postgresClubRepository) getOne(ctx context.Context, query string, arg int) (*models.Club, error) {
	var club models.Club
	err := r.db.QueryRowContext(ctx, query, arg).Scan(&club.ID, &club.ClubName, &club.CoachID, &club.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrClubNotFound
		}
		return nil, err
	}

	memberships, err := r.listMemberships(ctx, []int{club.ID})
	if err != nil {
		return nil, err
	}
	club.Players = memberships[club.ID]
	if club.Players == nil {
		club.Players = []models.Membership{}
	}
	return &club, nil
}

func (r *postgresClubRepository) List(ctx context.Context) ([]models.Club, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, club_name, coach_id, created_at FROM clubs ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list clubs: %w", err)
	}
	defer rows.Close()

	clubs := make([]models.Club, 0)
	ids := make([]int, 0)
	for rows.Next() {
		var club models.Club
		if err := rows.Scan(&club.ID, &club.ClubName, &club.CoachID, &club.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan club: %w", err)
		}
		clubs = append(clubs, club)
		ids = append(ids, club.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	memberships, err := r.listMemberships(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range clubs {
		clubs[i].Players = memberships[clubs[i].ID]
		if clubs[i].Players == nil {
			clubs[i].Players = []models.Membership{}
		}
	}
	return clubs, nil
}

func (r *postgresClubRepository) listMemberships(ctx context.Context, clubIDs []int) (map[int][]models.Membership, error) {
	result := make(map[int][]models.Membership, len(clubIDs))
	if len(clubIDs) == 0 {
		return result, nil
	}

	query := `
		SELECT club_id, player_id, status, joined_at
		FROM club_memberships
		WHERE club_id = ANY($1)
		ORDER BY joined_at, player_id`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(toInt64Slice(clubIDs)))
	if err != nil {
		return nil, fmt.Errorf("failed to list memberships: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var clubID int
		var m models.Membership
		if err := rows.Scan(&clubID, &m.PlayerID, &m.Status, &m.JoinedAt); err != nil {
			return nil, fmt.Errorf("failed to scan membership: %w", err)
		}
		result[clubID] = append(result[clubID], m)
	}
	return result, rows.Err()
}

func (r *postgresClubRepository) AddMembership(ctx context.Context, clubID int, membership *models.Membership) error {
	query := `
		INSERT INTO club_memberships (club_id, player_id, status)
		VALUES ($1, $2, $3)
		RETURNING joined_at`

	err := r.db.QueryRowContext(ctx, query, clubID, membership.PlayerID, membership.Status).Scan(&membership.JoinedAt)
	if err != nil {
		if constraint, ok := pqConstraintError(err, pqUniqueViolation); ok {
			switch constraint {
			case "club_memberships_pkey":
				return ErrMembershipConflict
			case "club_memberships_one_approved_idx":
				return ErrMembershipApproved
			}
		}
		if _, ok := pqConstraintError(err, pqForeignKeyViolation); ok {
			return ErrMembershipRefInvalid
		}
		return err
	}
	return nil
}

func (r *postgresClubRepository) ApproveMembership(ctx context.Context, clubID, playerID int) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx,
			`UPDATE club_memberships SET status = 'approved' WHERE club_id = $1 AND player_id = $2`,
			clubID, playerID)
		if err != nil {
			if constraint, ok := pqConstraintError(err, pqUniqueViolation); ok && constraint == "club_memberships_one_approved_idx" {
				return ErrMembershipApproved
			}
			return fmt.Errorf("failed to approve membership: %w", err)
		}
		if err := checkAffectedRows(result, ErrMembershipNotFound); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `UPDATE users SET club_id = $1 WHERE id = $2`, clubID, playerID); err != nil {
			return fmt.Errorf("failed to set club for user %d: %w", playerID, err)
		}
		return nil
	})
}

func (r *postgresClubRepository) RemoveMembership(ctx context.Context, clubID, playerID int) (bool, error) {
	removed := false
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		var status models.MembershipStatus
		err := tx.QueryRowContext(ctx,
			`DELETE FROM club_memberships WHERE club_id = $1 AND player_id = $2 RETURNING status`,
			clubID, playerID).Scan(&status)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil
			}
			return fmt.Errorf("failed to delete membership: %w", err)
		}
		removed = true

		if status == models.MembershipApproved {
			_, err = tx.ExecContext(ctx,
				`UPDATE users SET club_id = NULL WHERE id = $1 AND club_id = $2`, playerID, clubID)
			if err != nil {
				return fmt.Errorf("failed to clear club for user %d: %w", playerID, err)
			}
		}
		return nil
	})
	return removed, err
}
