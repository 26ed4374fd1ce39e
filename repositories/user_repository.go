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
	ErrUserNotFound         = errors.New("user not found")
	ErrUserUsernameConflict = errors.New("user username conflict")
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	ListByRole(ctx context.Context, role models.UserRole) ([]models.User, error)
	ListByIDs(ctx context.Context, ids []int) ([]models.User, error)
	ListByClubID(ctx context.Context, clubID int) ([]models.User, error)
	// AssignClub points club_id of the given users at clubID and returns how many rows changed.
	AssignClub(ctx context.Context, clubID int, userIDs []int) (int64, error)
}

type postgresUserRepository struct {
	db *sql.DB
}

func NewPostgresUserRepository(db *sql.DB) UserRepository {
	return &postgresUserRepository{db: db}
}

const userColumns = `
	u.id, u.username, u.role, u.password_hash, u.club_id, u.created_at,
	ARRAY(
		SELECT cm.club_id FROM club_memberships cm
		WHERE cm.player_id = u.id AND cm.status = 'invited'
		ORDER BY cm.joined_at, cm.club_id
	)`

func scanUser(scanner interface{ Scan(dest ...interface{}) error }) (*models.User, error) {
	var user models.User
	var clubID sql.NullInt64
	var invitations []int64

	err := scanner.Scan(
		&user.ID,
		&user.Username,
		&user.Role,
		&user.PasswordHash,
		&clubID,
		&user.CreatedAt,
		pq.Array(&invitations),
	)
	if err != nil {
		return nil, err
	}
	if clubID.Valid {
		id := int(clubID.Int64)
		user.ClubID = &id
	}
	user.Invitations = toIntSlice(invitations)
	return &user, nil
}

func (r *postgresUserRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (username, role, password_hash)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query, user.Username, user.Role, user.PasswordHash).
		Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		if constraint, ok := pqConstraintError(err, pqUniqueViolation); ok && constraint == "users_username_key" {
			return ErrUserUsernameConflict
		}
		return err
	}
	user.ClubID = nil
	user.Invitations = []int{}
	return nil
}

func (r *postgresUserRepository) GetByID(ctx context.Context, id int) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users u WHERE u.id = $1`

	user, err := scanUser(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (r *postgresUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users u WHERE u.username = $1`

	user, err := scanUser(r.db.QueryRowContext(ctx, query, username))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (r *postgresUserRepository) ListByRole(ctx context.Context, role models.UserRole) ([]models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users u WHERE u.role = $1 ORDER BY u.id`
	return r.list(ctx, query, role)
}

func (r *postgresUserRepository) ListByIDs(ctx context.Context, ids []int) ([]models.User, error) {
	if len(ids) == 0 {
		return []models.User{}, nil
	}
	query := `SELECT ` + userColumns + ` FROM users u WHERE u.id = ANY($1) ORDER BY u.id`
	return r.list(ctx, query, pq.Array(toInt64Slice(ids)))
}

func (r *postgresUserRepository) ListByClubID(ctx context.Context, clubID int) ([]models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users u WHERE u.club_id = $1 ORDER BY u.id`
	return r.list(ctx, query, clubID)
}

func (r *postgresUserRepository) list(ctx context.Context, query string, args ...interface{}) ([]models.User, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users := make([]models.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, *user)
	}
	return users, rows.Err()
}

func (r *postgresUserRepository) AssignClub(ctx context.Context, clubID int, userIDs []int) (int64, error) {
	if len(userIDs) == 0 {
		return 0, nil
	}
	query := `
		UPDATE users SET club_id = $1
		WHERE id = ANY($2) AND club_id IS DISTINCT FROM $1`

	result, err := r.db.ExecContext(ctx, query, clubID, pq.Array(toInt64Slice(userIDs)))
	if err != nil {
		return 0, fmt.Errorf("failed to assign club %d: %w", clubID, err)
	}
	return result.RowsAffected()
}
