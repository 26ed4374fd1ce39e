package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fadhelhaji/90Plus-backend/models"
	"github.com/fadhelhaji/90Plus-backend/repositories"
	"golang.org/x/sync/errgroup"
)

type ClubService interface {
	CreateClub(ctx context.Context, actor models.Actor, input CreateClubInput) (*models.Club, error)
	ListClubs(ctx context.Context) ([]models.Club, error)
	GetClubDetails(ctx context.Context, clubID int) (*ClubDetails, error)
	// EnsureClub returns ErrClubNotFound when the club does not exist.
	EnsureClub(ctx context.Context, clubID int) error
}

type CreateClubInput struct {
	ClubName string `json:"club_name" validate:"required,max=150"`
}

// ClubDetails is the club page: the club with populated memberships, its teams and its players.
type ClubDetails struct {
	Club        *models.Club          `json:"club"`
	Teams       []models.Team         `json:"teams"`
	ClubPlayers []models.MarketPlayer `json:"clubPlayers"`
}

type clubService struct {
	clubRepo repositories.ClubRepository
	teamRepo repositories.TeamRepository
	userRepo repositories.UserRepository
}

func NewClubService(
	clubRepo repositories.ClubRepository,
	teamRepo repositories.TeamRepository,
	userRepo repositories.UserRepository,
) ClubService {
	return &clubService{
		clubRepo: clubRepo,
		teamRepo: teamRepo,
		userRepo: userRepo,
	}
}

func (s *clubService) CreateClub(ctx context.Context, actor models.Actor, input CreateClubInput) (*models.Club, error) {
	if !actor.IsCoach() {
		return nil, ErrCoachRoleRequired
	}
	input.ClubName = strings.TrimSpace(input.ClubName)
	if err := validateInput(ctx, input); err != nil {
		return nil, err
	}

	_, err := s.clubRepo.GetByCoachID(ctx, actor.UserID)
	switch {
	case err == nil:
		return nil, ErrCoachAlreadyOwnsClub
	case !errors.Is(err, repositories.ErrClubNotFound):
		return nil, fmt.Errorf("%w: %w", ErrClubOperationFailed, err)
	}

	club := &models.Club{
		ClubName: input.ClubName,
		CoachID:  actor.UserID,
	}
	if err := s.clubRepo.Create(ctx, club); err != nil {
		switch {
		case errors.Is(err, repositories.ErrClubCoachConflict):
			return nil, ErrCoachAlreadyOwnsClub
		case errors.Is(err, repositories.ErrClubCoachInvalid):
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("%w: %w", ErrClubOperationFailed, err)
	}
	return club, nil
}

func (s *clubService) ListClubs(ctx context.Context) ([]models.Club, error) {
	clubs, err := s.clubRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrClubOperationFailed, err)
	}
	return clubs, nil
}

func (s *clubService) EnsureClub(ctx context.Context, clubID int) error {
	exists, err := s.clubRepo.Exists(ctx, clubID)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrClubOperationFailed, err)
	}
	if !exists {
		return ErrClubNotFound
	}
	return nil
}

func (s *clubService) GetClubDetails(ctx context.Context, clubID int) (*ClubDetails, error) {
	var (
		club    *models.Club
		teams   []models.Team
		players []models.User
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		club, err = getClub(gctx, s.clubRepo, clubID)
		return err
	})
	g.Go(func() error {
		var err error
		if teams, err = s.teamRepo.ListByClubID(gctx, clubID); err != nil {
			return fmt.Errorf("%w: %w", ErrTeamOperationFailed, err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if players, err = s.userRepo.ListByClubID(gctx, clubID); err != nil {
			return fmt.Errorf("%w: %w", ErrClubOperationFailed, err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if err := s.populateClub(ctx, club); err != nil {
		return nil, err
	}

	clubPlayers := make([]models.MarketPlayer, 0, len(players))
	for _, p := range players {
		clubPlayers = append(clubPlayers, toMarketPlayer(p))
	}

	return &ClubDetails{
		Club:        club,
		Teams:       teams,
		ClubPlayers: clubPlayers,
	}, nil
}

// populateClub attaches the coach and membership players to the club.
func (s *clubService) populateClub(ctx context.Context, club *models.Club) error {
	ids := make([]int, 0, len(club.Players)+1)
	ids = append(ids, club.CoachID)
	for _, m := range club.Players {
		ids = append(ids, m.PlayerID)
	}

	users, err := s.userRepo.ListByIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrClubOperationFailed, err)
	}
	byID := make(map[int]models.MarketPlayer, len(users))
	for _, u := range users {
		byID[u.ID] = toMarketPlayer(u)
	}

	if coach, ok := byID[club.CoachID]; ok {
		club.Coach = &coach
	}
	for i := range club.Players {
		if p, ok := byID[club.Players[i].PlayerID]; ok {
			club.Players[i].Player = &p
		}
	}
	return nil
}

func toMarketPlayer(u models.User) models.MarketPlayer {
	return models.MarketPlayer{
		ID:       u.ID,
		Username: u.Username,
		ClubID:   u.ClubID,
	}
}
