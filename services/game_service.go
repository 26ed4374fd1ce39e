package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/fadhelhaji/90Plus-backend/models"
	"github.com/fadhelhaji/90Plus-backend/repositories"
	"github.com/fadhelhaji/90Plus-backend/storage"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

const (
	EventGameCreated      = "GAME_CREATED"
	EventGameScoreUpdated = "GAME_SCORE_UPDATED"
	EventGamePlayerRated  = "GAME_PLAYER_RATED"
	EventGameMVPSet       = "GAME_MVP_SET"
	EventGamePhotoAdded   = "GAME_PHOTO_ADDED"
	EventGamePhotoDeleted = "GAME_PHOTO_DELETED"
	EventGamePhotoTagged  = "GAME_PHOTO_TAGGED"
)

var photoExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

type GameService interface {
	CreateGame(ctx context.Context, actor models.Actor, clubID int, input CreateGameInput) (*models.Game, error)
	ListGames(ctx context.Context, clubID int) ([]models.Game, error)
	GetGame(ctx context.Context, clubID, gameID int) (*models.Game, error)
	UpdateScore(ctx context.Context, actor models.Actor, clubID, gameID int, input UpdateScoreInput) (*models.Game, error)
	RatePlayer(ctx context.Context, actor models.Actor, clubID, gameID, playerID int, input RatePlayerInput) (*models.Game, error)
	SetMVP(ctx context.Context, actor models.Actor, clubID, gameID, playerID int) (*models.Game, error)
	AddPhoto(ctx context.Context, actor models.Actor, clubID, gameID int, file io.Reader, contentType string) (*models.Game, error)
	DeletePhoto(ctx context.Context, actor models.Actor, clubID, gameID, photoID int) (*models.Game, error)
	TagPhoto(ctx context.Context, actor models.Actor, clubID, gameID, photoID int, playerIDs []int) (*models.Game, error)
}

type CreateGameInput struct {
	TeamAID   int        `json:"team_a_id" validate:"required"`
	TeamBID   int        `json:"team_b_id" validate:"required"`
	MatchDate *time.Time `json:"match_date" validate:"required"`
	Location  string     `json:"location" validate:"required,max=200"`
}

type UpdateScoreInput struct {
	ScoreTeamA *int `json:"score_team_a" validate:"required"`
	ScoreTeamB *int `json:"score_team_b" validate:"required"`
}

type RatePlayerInput struct {
	Rating *float64 `json:"rating" validate:"required"`
	Notes  *string  `json:"notes,omitempty"`
}

type gameService struct {
	clubRepo  repositories.ClubRepository
	teamRepo  repositories.TeamRepository
	gameRepo  repositories.GameRepository
	uploader  storage.FileUploader
	publisher EventPublisher
	clock     clockwork.Clock
	logger    *slog.Logger
}

func NewGameService(
	clubRepo repositories.ClubRepository,
	teamRepo repositories.TeamRepository,
	gameRepo repositories.GameRepository,
	uploader storage.FileUploader,
	publisher EventPublisher,
	clock clockwork.Clock,
	logger *slog.Logger,
) GameService {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &gameService{
		clubRepo:  clubRepo,
		teamRepo:  teamRepo,
		gameRepo:  gameRepo,
		uploader:  uploader,
		publisher: publisherOrNop(publisher),
		clock:     clock,
		logger:    logger,
	}
}

func (s *gameService) getGame(ctx context.Context, clubID, gameID int) (*models.Game, error) {
	game, err := s.gameRepo.GetByID(ctx, gameID)
	if err != nil {
		if errors.Is(err, repositories.ErrGameNotFound) {
			return nil, ErrGameNotFound
		}
		return nil, fmt.Errorf("%w: %w", ErrGameOperationFailed, err)
	}
	if game.ClubID != clubID {
		return nil, ErrGameNotFound
	}
	return game, nil
}

// getOwnedGame checks club ownership and that the game belongs to the club.
func (s *gameService) getOwnedGame(ctx context.Context, actor models.Actor, clubID, gameID int) (*models.Game, error) {
	if _, err := getOwnedClub(ctx, s.clubRepo, actor, clubID); err != nil {
		return nil, err
	}
	return s.getGame(ctx, clubID, gameID)
}

func (s *gameService) mapGameWriteErr(err error) error {
	switch {
	case errors.Is(err, repositories.ErrGameNotFound):
		return ErrGameNotFound
	case errors.Is(err, repositories.ErrPhotoNotFound):
		return ErrPhotoNotFound
	case errors.Is(err, repositories.ErrPlayerStatRating):
		return ErrInvalidRating
	case errors.Is(err, repositories.ErrGameSameTeams):
		return ErrSameTeams
	}
	return fmt.Errorf("%w: %w", ErrGameOperationFailed, err)
}

// commit reloads the game after a write and publishes the event.
func (s *gameService) commit(ctx context.Context, clubID, gameID int, eventType string) (*models.Game, error) {
	game, err := s.getGame(ctx, clubID, gameID)
	if err != nil {
		return nil, err
	}
	s.publisher.Publish(clubID, eventType, game)
	return game, nil
}

func (s *gameService) CreateGame(ctx context.Context, actor models.Actor, clubID int, input CreateGameInput) (*models.Game, error) {
	if _, err := getOwnedClub(ctx, s.clubRepo, actor, clubID); err != nil {
		return nil, err
	}

	input.Location = strings.TrimSpace(input.Location)
	if err := validateInput(ctx, input); err != nil {
		return nil, err
	}
	if input.TeamAID == input.TeamBID {
		return nil, ErrSameTeams
	}

	for _, teamID := range []int{input.TeamAID, input.TeamBID} {
		team, err := s.teamRepo.GetByID(ctx, teamID)
		if err != nil {
			if errors.Is(err, repositories.ErrTeamNotFound) {
				return nil, fmt.Errorf("%w: team %d", ErrTeamNotFound, teamID)
			}
			return nil, fmt.Errorf("%w: %w", ErrTeamOperationFailed, err)
		}
		if team.ClubID != clubID {
			return nil, fmt.Errorf("%w: team %d", ErrTeamNotInClub, teamID)
		}
	}

	game := &models.Game{
		ClubID:    clubID,
		TeamAID:   input.TeamAID,
		TeamBID:   input.TeamBID,
		MatchDate: input.MatchDate.UTC(),
		Location:  input.Location,
	}
	if err := s.gameRepo.Create(ctx, game); err != nil {
		if errors.Is(err, repositories.ErrGameRefInvalid) {
			return nil, ErrTeamNotFound
		}
		return nil, s.mapGameWriteErr(err)
	}

	s.publisher.Publish(clubID, EventGameCreated, game)
	return game, nil
}

func (s *gameService) ListGames(ctx context.Context, clubID int) ([]models.Game, error) {
	if _, err := getClub(ctx, s.clubRepo, clubID); err != nil {
		return nil, err
	}
	games, err := s.gameRepo.ListByClubID(ctx, clubID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGameOperationFailed, err)
	}
	return games, nil
}

func (s *gameService) GetGame(ctx context.Context, clubID, gameID int) (*models.Game, error) {
	if _, err := getClub(ctx, s.clubRepo, clubID); err != nil {
		return nil, err
	}
	return s.getGame(ctx, clubID, gameID)
}

func (s *gameService) UpdateScore(ctx context.Context, actor models.Actor, clubID, gameID int, input UpdateScoreInput) (*models.Game, error) {
	if _, err := s.getOwnedGame(ctx, actor, clubID, gameID); err != nil {
		return nil, err
	}
	if err := validateInput(ctx, input); err != nil {
		return nil, err
	}
	if err := s.gameRepo.UpdateScore(ctx, gameID, *input.ScoreTeamA, *input.ScoreTeamB); err != nil {
		return nil, s.mapGameWriteErr(err)
	}
	return s.commit(ctx, clubID, gameID, EventGameScoreUpdated)
}

func (s *gameService) RatePlayer(ctx context.Context, actor models.Actor, clubID, gameID, playerID int, input RatePlayerInput) (*models.Game, error) {
	if _, err := s.getOwnedGame(ctx, actor, clubID, gameID); err != nil {
		return nil, err
	}
	if err := validateInput(ctx, input); err != nil {
		return nil, err
	}
	if *input.Rating < models.MinRating || *input.Rating > models.MaxRating {
		return nil, ErrInvalidRating
	}

	stat := models.PlayerStat{
		PlayerID: playerID,
		Rating:   *input.Rating,
		Notes:    input.Notes,
	}
	if err := s.gameRepo.UpsertPlayerStat(ctx, gameID, stat); err != nil {
		return nil, s.mapGameWriteErr(err)
	}
	return s.commit(ctx, clubID, gameID, EventGamePlayerRated)
}

func (s *gameService) SetMVP(ctx context.Context, actor models.Actor, clubID, gameID, playerID int) (*models.Game, error) {
	if _, err := s.getOwnedGame(ctx, actor, clubID, gameID); err != nil {
		return nil, err
	}
	if err := s.gameRepo.SetMVP(ctx, gameID, &playerID); err != nil {
		if errors.Is(err, repositories.ErrGameRefInvalid) {
			return nil, ErrPlayerNotFound
		}
		return nil, s.mapGameWriteErr(err)
	}
	return s.commit(ctx, clubID, gameID, EventGameMVPSet)
}

func (s *gameService) AddPhoto(ctx context.Context, actor models.Actor, clubID, gameID int, file io.Reader, contentType string) (*models.Game, error) {
	if _, err := s.getOwnedGame(ctx, actor, clubID, gameID); err != nil {
		return nil, err
	}
	if file == nil {
		return nil, ErrPhotoRequired
	}
	mediaType := strings.ToLower(strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0]))
	ext, ok := photoExtensions[mediaType]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedPhotoType, contentType)
	}
	if s.uploader == nil {
		return nil, fmt.Errorf("%w: no object storage configured", ErrPhotoUploadFailed)
	}

	key := fmt.Sprintf("games/%d/photos/%s%s", gameID, uuid.NewString(), ext)
	result, err := s.uploader.Upload(ctx, key, mediaType, file)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPhotoUploadFailed, err)
	}

	photo := &models.Photo{
		URL:             result.Location,
		PublicID:        result.Key,
		TaggedPlayerIDs: []int{},
		UploadedAt:      s.clock.Now().UTC(),
	}
	if err := s.gameRepo.AddPhoto(ctx, gameID, photo); err != nil {
		if delErr := s.uploader.Delete(ctx, result.Key); delErr != nil {
			s.logger.Error("failed to remove orphaned photo object",
				slog.String("key", result.Key), slog.Any("error", delErr))
		}
		return nil, s.mapGameWriteErr(err)
	}
	return s.commit(ctx, clubID, gameID, EventGamePhotoAdded)
}

func (s *gameService) DeletePhoto(ctx context.Context, actor models.Actor, clubID, gameID, photoID int) (*models.Game, error) {
	game, err := s.getOwnedGame(ctx, actor, clubID, gameID)
	if err != nil {
		return nil, err
	}
	photo, ok := game.FindPhoto(photoID)
	if !ok {
		return nil, ErrPhotoNotFound
	}

	if s.uploader != nil && photo.PublicID != "" {
		if err := s.uploader.Delete(ctx, photo.PublicID); err != nil {
			s.logger.Warn("failed to delete photo object, removing record anyway",
				slog.Int("game_id", gameID),
				slog.Int("photo_id", photoID),
				slog.String("key", photo.PublicID),
				slog.Any("error", err))
		}
	}

	if err := s.gameRepo.DeletePhoto(ctx, gameID, photoID); err != nil {
		return nil, s.mapGameWriteErr(err)
	}
	return s.commit(ctx, clubID, gameID, EventGamePhotoDeleted)
}

func (s *gameService) TagPhoto(ctx context.Context, actor models.Actor, clubID, gameID, photoID int, playerIDs []int) (*models.Game, error) {
	game, err := s.getOwnedGame(ctx, actor, clubID, gameID)
	if err != nil {
		return nil, err
	}
	if _, ok := game.FindPhoto(photoID); !ok {
		return nil, ErrPhotoNotFound
	}

	if err := s.gameRepo.SetPhotoTags(ctx, gameID, photoID, normalizeTags(playerIDs)); err != nil {
		return nil, s.mapGameWriteErr(err)
	}
	return s.commit(ctx, clubID, gameID, EventGamePhotoTagged)
}

// normalizeTags drops non-positive ids and duplicates. The result is sorted and never nil.
func normalizeTags(ids []int) []int {
	out := make([]int, 0, len(ids))
	for _, id := range ids {
		if id > 0 {
			out = append(out, id)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}
