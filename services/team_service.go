package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fadhelhaji/90Plus-backend/models"
	"github.com/fadhelhaji/90Plus-backend/repositories"
)

type TeamService interface {
	CreateTeam(ctx context.Context, actor models.Actor, clubID int, input CreateTeamInput) (*models.Team, error)
	GetTeam(ctx context.Context, clubID, teamID int) (*models.Team, error)
	UpdateFormation(ctx context.Context, actor models.Actor, clubID, teamID int, input UpdateFormationInput) (*models.Team, error)
	AddPlayerToTeam(ctx context.Context, actor models.Actor, clubID, teamID int, input AddPlayerInput) (*models.Team, error)
	RemovePlayerFromTeam(ctx context.Context, actor models.Actor, clubID, teamID, playerID int) (*models.Team, error)
}

type RosterEntryInput struct {
	PlayerID int     `json:"player_id" validate:"required,gt=0"`
	Position *string `json:"position,omitempty" validate:"omitempty,max=50"`
}

type CreateTeamInput struct {
	TeamName  string             `json:"team_name" validate:"required,max=100"`
	Formation string             `json:"formation" validate:"required"`
	Players   []RosterEntryInput `json:"players" validate:"dive"`
}

type UpdateFormationInput struct {
	Formation string `json:"formation"`
}

type AddPlayerInput struct {
	PlayerID int     `json:"player_id" validate:"required,gt=0"`
	Position *string `json:"position,omitempty" validate:"omitempty,max=50"`
}

type teamService struct {
	clubRepo repositories.ClubRepository
	teamRepo repositories.TeamRepository
}

func NewTeamService(clubRepo repositories.ClubRepository, teamRepo repositories.TeamRepository) TeamService {
	return &teamService{
		clubRepo: clubRepo,
		teamRepo: teamRepo,
	}
}

func isApprovedMember(club *models.Club, playerID int) bool {
	m, ok := club.FindMembership(playerID)
	return ok && m.Status == models.MembershipApproved
}

func (s *teamService) CreateTeam(ctx context.Context, actor models.Actor, clubID int, input CreateTeamInput) (*models.Team, error) {
	club, err := getOwnedClub(ctx, s.clubRepo, actor, clubID)
	if err != nil {
		return nil, err
	}

	input.TeamName = strings.TrimSpace(input.TeamName)
	if err := validateInput(ctx, input); err != nil {
		return nil, err
	}
	if !models.IsAllowedFormation(input.Formation) {
		return nil, ErrInvalidFormation
	}

	roster := make([]models.RosterEntry, 0, len(input.Players))
	seen := make(map[int]struct{}, len(input.Players))
	for _, p := range input.Players {
		if _, dup := seen[p.PlayerID]; dup {
			return nil, fmt.Errorf("%w: player %d", ErrDuplicateRosterEntry, p.PlayerID)
		}
		seen[p.PlayerID] = struct{}{}
		if !isApprovedMember(club, p.PlayerID) {
			return nil, fmt.Errorf("%w: player %d", ErrPlayerNotInClub, p.PlayerID)
		}
		roster = append(roster, models.RosterEntry{PlayerID: p.PlayerID, Position: p.Position})
	}

	team := &models.Team{
		ClubID:    clubID,
		TeamName:  input.TeamName,
		Formation: input.Formation,
		Players:   roster,
	}
	if err := s.teamRepo.Create(ctx, team); err != nil {
		switch {
		case errors.Is(err, repositories.ErrTeamClubInvalid):
			return nil, ErrClubNotFound
		case errors.Is(err, repositories.ErrRosterConflict):
			return nil, ErrDuplicateRosterEntry
		case errors.Is(err, repositories.ErrRosterRefInvalid):
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("%w: %w", ErrTeamOperationFailed, err)
	}
	return team, nil
}

func (s *teamService) GetTeam(ctx context.Context, clubID, teamID int) (*models.Team, error) {
	if _, err := getClub(ctx, s.clubRepo, clubID); err != nil {
		return nil, err
	}
	return getClubTeam(ctx, s.teamRepo, clubID, teamID)
}

func (s *teamService) UpdateFormation(ctx context.Context, actor models.Actor, clubID, teamID int, input UpdateFormationInput) (*models.Team, error) {
	if !models.IsAllowedFormation(input.Formation) {
		return nil, ErrInvalidFormation
	}
	if _, err := getOwnedClub(ctx, s.clubRepo, actor, clubID); err != nil {
		return nil, err
	}
	team, err := getClubTeam(ctx, s.teamRepo, clubID, teamID)
	if err != nil {
		return nil, err
	}

	if err := s.teamRepo.UpdateFormation(ctx, teamID, input.Formation); err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("%w: %w", ErrTeamOperationFailed, err)
	}
	team.Formation = input.Formation
	return team, nil
}

func (s *teamService) AddPlayerToTeam(ctx context.Context, actor models.Actor, clubID, teamID int, input AddPlayerInput) (*models.Team, error) {
	club, err := getOwnedClub(ctx, s.clubRepo, actor, clubID)
	if err != nil {
		return nil, err
	}
	team, err := getClubTeam(ctx, s.teamRepo, clubID, teamID)
	if err != nil {
		return nil, err
	}
	if err := validateInput(ctx, input); err != nil {
		return nil, err
	}

	if !isApprovedMember(club, input.PlayerID) {
		return nil, ErrPlayerNotInClub
	}
	if team.HasPlayer(input.PlayerID) {
		return nil, ErrPlayerAlreadyOnRoster
	}

	entry := models.RosterEntry{PlayerID: input.PlayerID, Position: input.Position}
	if err := s.teamRepo.AddPlayer(ctx, teamID, entry); err != nil {
		switch {
		case errors.Is(err, repositories.ErrRosterConflict):
			return nil, ErrPlayerAlreadyOnRoster
		case errors.Is(err, repositories.ErrRosterRefInvalid):
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("%w: %w", ErrTeamOperationFailed, err)
	}
	return s.reload(ctx, teamID)
}

func (s *teamService) RemovePlayerFromTeam(ctx context.Context, actor models.Actor, clubID, teamID, playerID int) (*models.Team, error) {
	if _, err := getOwnedClub(ctx, s.clubRepo, actor, clubID); err != nil {
		return nil, err
	}
	if _, err := getClubTeam(ctx, s.teamRepo, clubID, teamID); err != nil {
		return nil, err
	}

	if _, err := s.teamRepo.RemovePlayer(ctx, teamID, playerID); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTeamOperationFailed, err)
	}
	return s.reload(ctx, teamID)
}

func (s *teamService) reload(ctx context.Context, teamID int) (*models.Team, error) {
	team, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("%w: %w", ErrTeamOperationFailed, err)
	}
	return team, nil
}
