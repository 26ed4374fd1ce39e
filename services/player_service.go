package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/fadhelhaji/90Plus-backend/models"
	"github.com/fadhelhaji/90Plus-backend/repositories"
)

type PlayerService interface {
	Market(ctx context.Context) ([]models.MarketPlayer, error)
	GetPlayer(ctx context.Context, playerID int) (*models.User, error)
	Me(ctx context.Context, actor models.Actor) (*models.User, error)
}

type playerService struct {
	userRepo repositories.UserRepository
	clubRepo repositories.ClubRepository
}

func NewPlayerService(userRepo repositories.UserRepository, clubRepo repositories.ClubRepository) PlayerService {
	return &playerService{
		userRepo: userRepo,
		clubRepo: clubRepo,
	}
}

func (s *playerService) Market(ctx context.Context) ([]models.MarketPlayer, error) {
	users, err := s.userRepo.ListByRole(ctx, models.RolePlayer)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrClubOperationFailed, err)
	}
	players := make([]models.MarketPlayer, 0, len(users))
	for _, u := range users {
		players = append(players, toMarketPlayer(u))
	}
	return players, nil
}

func (s *playerService) GetPlayer(ctx context.Context, playerID int) (*models.User, error) {
	user, err := s.loadUser(ctx, playerID, ErrPlayerNotFound)
	if err != nil {
		return nil, err
	}
	if user.Role != models.RolePlayer {
		return nil, ErrPlayerNotFound
	}
	if err := s.attachClub(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *playerService) Me(ctx context.Context, actor models.Actor) (*models.User, error) {
	user, err := s.loadUser(ctx, actor.UserID, ErrUserNotFound)
	if err != nil {
		return nil, err
	}
	if err := s.attachClub(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *playerService) loadUser(ctx context.Context, id int, notFound error) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, notFound
		}
		return nil, fmt.Errorf("%w: %w", ErrClubOperationFailed, err)
	}
	user.PasswordHash = ""
	return user, nil
}

// attachClub fills the club summary. A dangling club_id leaves it empty.
func (s *playerService) attachClub(ctx context.Context, user *models.User) error {
	if user.ClubID == nil {
		return nil
	}
	club, err := s.clubRepo.GetByID(ctx, *user.ClubID)
	if err != nil {
		if errors.Is(err, repositories.ErrClubNotFound) {
			return nil
		}
		return fmt.Errorf("%w: %w", ErrClubOperationFailed, err)
	}
	user.Club = &models.ClubSummary{ID: club.ID, ClubName: club.ClubName}
	return nil
}
