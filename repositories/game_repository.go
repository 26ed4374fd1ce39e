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
	ErrGameNotFound     = errors.New("game not found")
	ErrGameRefInvalid   = errors.New("game club or team invalid")
	ErrGameSameTeams    = errors.New("game teams must differ")
	ErrPhotoNotFound    = errors.New("photo not found")
	ErrPlayerStatRating = errors.New("player rating out of range")
)

type GameRepository interface {
	Create(ctx context.Context, game *models.Game) error
	GetByID(ctx context.Context, id int) (*models.Game, error)
	ListByClubID(ctx context.Context, clubID int) ([]models.Game, error)
	UpdateScore(ctx context.Context, gameID, scoreTeamA, scoreTeamB int) error
	SetMVP(ctx context.Context, gameID int, playerID *int) error
	// UpsertPlayerStat writes the rating for (game, player). Notes are kept when stat.Notes is nil.
	UpsertPlayerStat(ctx context.Context, gameID int, stat models.PlayerStat) error
	AddPhoto(ctx context.Context, gameID int, photo *models.Photo) error
	DeletePhoto(ctx context.Context, gameID, photoID int) error
	// SetPhotoTags replaces the photo's tag list.
	SetPhotoTags(ctx context.Context, gameID, photoID int, playerIDs []int) error
}

type postgresGameRepository struct {
	db *sql.DB
}

func NewPostgresGameRepository(db *sql.DB) GameRepository {
	return &postgresGameRepository{db: db}
}

const gameColumns = `id, club_id, team_a_id, team_b_id, match_date, location, score_team_a, score_team_b, mvp_player_id, created_at`

func scanGame(scanner interface{ Scan(dest ...interface{}) error }) (*models.Game, error) {
	var game models.Game
	var mvp sql.NullInt64
	err := scanner.Scan(
		&game.ID,
		&game.ClubID,
		&game.TeamAID,
		&game.TeamBID,
		&game.MatchDate,
		&game.Location,
		&game.ScoreTeamA,
		&game.ScoreTeamB,
		&mvp,
		&game.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if mvp.Valid {
		id := int(mvp.Int64)
		game.MVPPlayerID = &id
	}
	game.PlayerStats = []models.PlayerStat{}
	game.Photos = []models.Photo{}
	return &game, nil
}

func (r *postgresGameRepository) Create(ctx context.Context, game *models.Game) error {
	query := `
		INSERT INTO games (club_id, team_a_id, team_b_id, match_date, location, score_team_a, score_team_b)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		game.ClubID,
		game.TeamAID,
		game.TeamBID,
		game.MatchDate,
		game.Location,
		game.ScoreTeamA,
		game.ScoreTeamB,
	).Scan(&game.ID, &game.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			switch {
			case pqErr.Code == pqForeignKeyViolation:
				return ErrGameRefInvalid
			case pqErr.Constraint == "games_distinct_teams_check":
				return ErrGameSameTeams
			}
		}
		return err
	}
	game.PlayerStats = []models.PlayerStat{}
	game.Photos = []models.Photo{}
	return nil
}

func (r *postgresGameRepository) GetByID(ctx context.Context, id int) (*models.Game, error) {
	game, err := scanGame(r.db.QueryRowContext(ctx, `SELECT `+gameColumns+` FROM games WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrGameNotFound
		}
		return nil, err
	}

	games := []models.Game{*game}
	if err := r.loadChildren(ctx, games); err != nil {
		return nil, err
	}
	return &games[0], nil
}

func (r *postgresGameRepository) ListByClubID(ctx context.Context, clubID int) ([]models.Game, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+gameColumns+` FROM games WHERE club_id = $1 ORDER BY match_date DESC, id DESC`, clubID)
	if err != nil {
		return nil, fmt.Errorf("failed to list games for club %d: %w", clubID, err)
	}
	defer rows.Close()

	games := make([]models.Game, 0)
	for rows.Next() {
		game, err := scanGame(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan game: %w", err)
		}
		games = append(games, *game)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.loadChildren(ctx, games); err != nil {
		return nil, err
	}
	return games, nil
}

// loadChildren fills player stats, photos and photo tags for the given games.
func (r *postgresGameRepository) loadChildren(ctx context.Context, games []models.Game) error {
	if len(games) == 0 {
		return nil
	}
	index := make(map[int]int, len(games))
	ids := make([]int, 0, len(games))
	for i, g := range games {
		index[g.ID] = i
		ids = append(ids, g.ID)
	}
	gameIDs := pq.Array(toInt64Slice(ids))

	statRows, err := r.db.QueryContext(ctx,
		`SELECT game_id, player_id, rating, notes FROM game_player_stats WHERE game_id = ANY($1) ORDER BY player_id`,
		gameIDs)
	if err != nil {
		return fmt.Errorf("failed to list player stats: %w", err)
	}
	defer statRows.Close()
	for statRows.Next() {
		var gameID int
		var stat models.PlayerStat
		var notes sql.NullString
		if err := statRows.Scan(&gameID, &stat.PlayerID, &stat.Rating, &notes); err != nil {
			return fmt.Errorf("failed to scan player stat: %w", err)
		}
		if notes.Valid {
			n := notes.String
			stat.Notes = &n
		}
		i := index[gameID]
		games[i].PlayerStats = append(games[i].PlayerStats, stat)
	}
	if err := statRows.Err(); err != nil {
		return err
	}

	photoRows, err := r.db.QueryContext(ctx, `
		SELECT p.game_id, p.id, p.url, p.public_id, p.uploaded_at,
			ARRAY(SELECT t.player_id FROM game_photo_tags t WHERE t.photo_id = p.id ORDER BY t.player_id)
		FROM game_photos p
		WHERE p.game_id = ANY($1)
		ORDER BY p.uploaded_at, p.id`, gameIDs)
	if err != nil {
		return fmt.Errorf("failed to list photos: %w", err)
	}
	defer photoRows.Close()
	for photoRows.Next() {
		var gameID int
		var photo models.Photo
		var tags []int64
		if err := photoRows.Scan(&gameID, &photo.ID, &photo.URL, &photo.PublicID, &photo.UploadedAt, pq.Array(&tags)); err != nil {
			return fmt.Errorf("failed to scan photo: %w", err)
		}
		photo.TaggedPlayerIDs = toIntSlice(tags)
		i := index[gameID]
		games[i].Photos = append(games[i].Photos, photo)
	}
	return photoRows.Err()
}

func (r *postgresGameRepository) UpdateScore(ctx context.Context, gameID, scoreTeamA, scoreTeamB int) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE games SET score_team_a = $1, score_team_b = $2 WHERE id = $3`, scoreTeamA, scoreTeamB, gameID)
	if err != nil {
		return fmt.Errorf("failed to update score of game %d: %w", gameID, err)
	}
	return checkAffectedRows(result, ErrGameNotFound)
}

func (r *postgresGameRepository) SetMVP(ctx context.Context, gameID int, playerID *int) error {
	result, err := r.db.ExecContext(ctx, `UPDATE games SET mvp_player_id = $1 WHERE id = $2`, playerID, gameID)
	if err != nil {
		if _, ok := pqConstraintError(err, pqForeignKeyViolation); ok {
			return ErrGameRefInvalid
		}
		return fmt.Errorf("failed to set mvp of game %d: %w", gameID, err)
	}
	return checkAffectedRows(result, ErrGameNotFound)
}

func (r *postgresGameRepository) UpsertPlayerStat(ctx context.Context, gameID int, stat models.PlayerStat) error {
	query := `
		INSERT INTO game_player_stats (game_id, player_id, rating, notes)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (game_id, player_id) DO UPDATE
		SET rating = EXCLUDED.rating,
		    notes = COALESCE(EXCLUDED.notes, game_player_stats.notes)`

	_, err := r.db.ExecContext(ctx, query, gameID, stat.PlayerID, stat.Rating, stat.Notes)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			if pqErr.Code == pqForeignKeyViolation {
				return ErrGameNotFound
			}
			if pqErr.Constraint == "game_player_stats_rating_check" {
				return ErrPlayerStatRating
			}
		}
		return fmt.Errorf("failed to upsert stat for player %d: %w", stat.PlayerID, err)
	}
	return nil
}

func (r *postgresGameRepository) AddPhoto(ctx context.Context, gameID int, photo *models.Photo) error {
	query := `
		INSERT INTO game_photos (game_id, url, public_id, uploaded_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	err := r.db.QueryRowContext(ctx, query, gameID, photo.URL, photo.PublicID, photo.UploadedAt).Scan(&photo.ID)
	if err != nil {
		if constraint, ok := pqConstraintError(err, pqForeignKeyViolation); ok && constraint == "game_photos_game_id_fkey" {
			return ErrGameNotFound
		}
		return err
	}
	if photo.TaggedPlayerIDs == nil {
		photo.TaggedPlayerIDs = []int{}
	}
	return nil
}

func (r *postgresGameRepository) DeletePhoto(ctx context.Context, gameID, photoID int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM game_photos WHERE id = $1 AND game_id = $2`, photoID, gameID)
	if err != nil {
		return fmt.Errorf("failed to delete photo %d: %w", photoID, err)
	}
	return checkAffectedRows(result, ErrPhotoNotFound)
}

func (r *postgresGameRepository) SetPhotoTags(ctx context.Context, gameID, photoID int, playerIDs []int) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		var lockedID int
		err := tx.QueryRowContext(ctx,
			`SELECT id FROM game_photos WHERE id = $1 AND game_id = $2 FOR UPDATE`,
			photoID, gameID).Scan(&lockedID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrPhotoNotFound
			}
			return fmt.Errorf("failed to lock photo %d: %w", photoID, err)
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM game_photo_tags WHERE photo_id = $1`, photoID); err != nil {
			return fmt.Errorf("failed to clear tags of photo %d: %w", photoID, err)
		}
		if len(playerIDs) == 0 {
			return nil
		}

		_, err = tx.ExecContext(ctx,
			`INSERT INTO game_photo_tags (photo_id, player_id) SELECT $1, unnest($2::int[]) ON CONFLICT DO NOTHING`,
			photoID, pq.Array(toInt64Slice(playerIDs)))
		if err != nil {
			return fmt.Errorf("failed to tag photo %d: %w", photoID, err)
		}
		return nil
	})
}
