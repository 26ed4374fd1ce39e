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
	ErrTeamNotFound     = errors.New("team not found")
	ErrTeamClubInvalid  = errors.New("team club conflict or invalid")
	ErrRosterConflict   = errors.New("player already on roster")
	ErrRosterRefInvalid = errors.New("roster team or player invalid")
)

type TeamRepository interface {
	// Create inserts the team and its initial roster in one transaction.
	Create(ctx context.Context, team *models.Team) error
	GetByID(ctx context.Context, id int) (*models.Team, error)
	ListByClubID(ctx context.Context, clubID int) ([]models.Team, error)
	UpdateFormation(ctx context.Context, teamID int, formation string) error
	AddPlayer(ctx context.Context, teamID int, entry models.RosterEntry) error
	RemovePlayer(ctx context.Context, teamID, playerID int) (bool, error)
}

type postgresTeamRepository struct {
	db *sql.DB
}

func NewPostgresTeamRepository(db *sql.DB) TeamRepository {
	return &postgresTeamRepository{db: db}
}

func (r *postgresTeamRepository) Create(ctx context.Context, team *models.Team) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		query := `
			INSERT INTO teams (club_id, team_name, formation)
			VALUES ($1, $2, $3)
			RETURNING id, created_at`

		err := tx.QueryRowContext(ctx, query, team.ClubID, team.TeamName, team.Formation).
			Scan(&team.ID, &team.CreatedAt)
		if err != nil {
			if constraint, ok := pqConstraintError(err, pqForeignKeyViolation); ok && constraint == "teams_club_id_fkey" {
				return ErrTeamClubInvalid
			}
			return err
		}

		for _, entry := range team.Players {
			if err := insertRosterEntry(ctx, tx, team.ID, entry); err != nil {
				return err
			}
		}
		if team.Players == nil {
			team.Players = []models.RosterEntry{}
		}
		return nil
	})
}

func insertRosterEntry(ctx context.Context, exec SQLExecutor, teamID int, entry models.RosterEntry) error {
	_, err := exec.ExecContext(ctx,
		`INSERT INTO team_players (team_id, player_id, position) VALUES ($1, $2, $3)`,
		teamID, entry.PlayerID, entry.Position)
	if err != nil {
		if constraint, ok := pqConstraintError(err, pqUniqueViolation); ok && constraint == "team_players_pkey" {
			return ErrRosterConflict
		}
		if _, ok := pqConstraintError(err, pqForeignKeyViolation); ok {
			return ErrRosterRefInvalid
		}
		return fmt.Errorf("failed to insert roster entry for player %d: %w", entry.PlayerID, err)
	}
	return nil
}

func (r *postgresTeamRepository) GetByID(ctx context.Context, id int) (*models.Team, error) {
	var team models.Team
	err := r.db.QueryRowContext(ctx,
		`SELECT id, club_id, team_name, formation, created_at FROM teams WHERE id = $1`, id).
		Scan(&team.ID, &team.ClubID, &team.TeamName, &team.Formation, &team.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}

	rosters, err := r.listRosters(ctx, []int{team.ID})
	if err != nil {
		return nil, err
	}
	team.Players = rosters[team.ID]
	if team.Players == nil {
		team.Players = []models.RosterEntry{}
	}
	return &team, nil
}

func (r *postgresTeamRepository) ListByClubID(ctx context.Context, clubID int) ([]models.Team, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, club_id, team_name, formation, created_at FROM teams WHERE club_id = $1 ORDER BY id`, clubID)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams for club %d: %w", clubID, err)
	}
	defer rows.Close()

	teams := make([]models.Team, 0)
	ids := make([]int, 0)
	for rows.Next() {
		var team models.Team
		if err := rows.Scan(&team.ID, &team.ClubID, &team.TeamName, &team.Formation, &team.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan team: %w", err)
		}
		teams = append(teams, team)
		ids = append(ids, team.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rosters, err := r.listRosters(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range teams {
		teams[i].Players = rosters[teams[i].ID]
		if teams[i].Players == nil {
			teams[i].Players = []models.RosterEntry{}
		}
	}
	return teams, nil
}

func (r *postgresTeamRepository) listRosters(ctx context.Context, teamIDs []int) (map[int][]models.RosterEntry, error) {
	result := make(map[int][]models.RosterEntry, len(teamIDs))
	if len(teamIDs) == 0 {
		return result, nil
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT team_id, player_id, position FROM team_players WHERE team_id = ANY($1) ORDER BY added_at, player_id`,
		pq.Array(toInt64Slice(teamIDs)))
	if err != nil {
		return nil, fmt.Errorf("failed to list roster entries: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var teamID int
		var entry models.RosterEntry
		var position sql.NullString
		if err := rows.Scan(&teamID, &entry.PlayerID, &position); err != nil {
			return nil, fmt.Errorf("failed to scan roster entry: %w", err)
		}
		if position.Valid {
			p := position.String
			entry.Position = &p
		}
		result[teamID] = append(result[teamID], entry)
	}
	return result, rows.Err()
}

func (r *postgresTeamRepository) UpdateFormation(ctx context.Context, teamID int, formation string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE teams SET formation = $1 WHERE id = $2`, formation, teamID)
	if err != nil {
		return fmt.Errorf("failed to update formation of team %d: %w", teamID, err)
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}

func (r *postgresTeamRepository) AddPlayer(ctx context.Context, teamID int, entry models.RosterEntry) error {
	return insertRosterEntry(ctx, r.db, teamID, entry)
}

func (r *postgresTeamRepository) RemovePlayer(ctx context.Context, teamID, playerID int) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM team_players WHERE team_id = $1 AND player_id = $2`, teamID, playerID)
	if err != nil {
		return false, fmt.Errorf("failed to remove player %d from team %d: %w", playerID, teamID, err)
	}
	if err := checkAffectedRows(result, ErrTeamNotFound); err != nil {
		if errors.Is(err, ErrTeamNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
