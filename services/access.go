package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/fadhelhaji/90Plus-backend/models"
	"github.com/fadhelhaji/90Plus-backend/repositories"
)

// EventPublisher delivers domain events to live subscribers of a club.
type EventPublisher interface {
	Publish(clubID int, eventType string, payload interface{})
}

type nopPublisher struct{}

func (nopPublisher) Publish(int, string, interface{}) {}

func publisherOrNop(p EventPublisher) EventPublisher {
	if p == nil {
		return nopPublisher{}
	}
	return p
}

func getClub(ctx context.Context, clubs repositories.ClubRepository, clubID int) (*models.Club, error) {
	club, err := clubs.GetByID(ctx, clubID)
	if err != nil {
		if errors.Is(err, repositories.ErrClubNotFound) {
			return nil, ErrClubNotFound
		}
		return nil, fmt.Errorf("%w: %w", ErrClubOperationFailed, err)
	}
	return club, nil
}

// getOwnedClub loads the club and checks that the actor is its coach.
func getOwnedClub(ctx context.Context, clubs repositories.ClubRepository, actor models.Actor, clubID int) (*models.Club, error) {
	club, err := getClub(ctx, clubs, clubID)
	if err != nil {
		return nil, err
	}
	if !club.IsCoach(actor.UserID) {
		return nil, ErrClubOwnerRequired
	}
	return club, nil
}

// getClubTeam loads a team and checks it belongs to clubID. A foreign team is reported as missing.
func getClubTeam(ctx context.Context, teams repositories.TeamRepository, clubID, teamID int) (*models.Team, error) {
	team, err := teams.GetByID(ctx, teamID)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("%w: %w", ErrTeamOperationFailed, err)
	}
	if team.ClubID != clubID {
		return nil, ErrTeamNotFound
	}
	return team, nil
}
