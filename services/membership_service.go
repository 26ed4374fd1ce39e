package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/fadhelhaji/90Plus-backend/models"
	"github.com/fadhelhaji/90Plus-backend/repositories"
	"github.com/sourcegraph/conc/pool"
)

const defaultReconcileWorkers = 4

type MembershipService interface {
	Invite(ctx context.Context, actor models.Actor, clubID, playerID int) error
	Accept(ctx context.Context, actor models.Actor, clubID int) error
	Reject(ctx context.Context, actor models.Actor, clubID int) error
	RemoveMember(ctx context.Context, actor models.Actor, clubID, playerID int) error
	Reconcile(ctx context.Context) (*ReconcileResult, error)
}

type ReconcileResult struct {
	ClubsScanned int   `json:"clubs_scanned"`
	UsersUpdated int64 `json:"users_updated"`
}

type membershipService struct {
	clubRepo repositories.ClubRepository
	userRepo repositories.UserRepository
	logger   *slog.Logger
	workers  int
}

func NewMembershipService(
	clubRepo repositories.ClubRepository,
	userRepo repositories.UserRepository,
	logger *slog.Logger,
) MembershipService {
	if logger == nil {
		logger = slog.Default()
	}
	return &membershipService{
		clubRepo: clubRepo,
		userRepo: userRepo,
		logger:   logger,
		workers:  defaultReconcileWorkers,
	}
}

func (s *membershipService) Invite(ctx context.Context, actor models.Actor, clubID, playerID int) error {
	if !actor.IsCoach() {
		return ErrCoachRoleRequired
	}
	club, err := getOwnedClub(ctx, s.clubRepo, actor, clubID)
	if err != nil {
		return err
	}

	player, err := s.userRepo.GetByID(ctx, playerID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return ErrPlayerNotFound
		}
		return fmt.Errorf("%w: %w", ErrMembershipOperationFailed, err)
	}
	if player.Role != models.RolePlayer {
		return ErrNotAPlayer
	}
	if player.ClubID != nil {
		return ErrPlayerAlreadyInClub
	}
	if _, exists := club.FindMembership(playerID); exists {
		return ErrAlreadyInvited
	}

	membership := &models.Membership{
		PlayerID: playerID,
		Status:   models.MembershipInvited,
	}
	if err := s.clubRepo.AddMembership(ctx, clubID, membership); err != nil {
		switch {
		case errors.Is(err, repositories.ErrMembershipConflict):
			return ErrAlreadyInvited
		case errors.Is(err, repositories.ErrMembershipRefInvalid):
			return ErrPlayerNotFound
		}
		return fmt.Errorf("%w: %w", ErrMembershipOperationFailed, err)
	}
	return nil
}

func (s *membershipService) Accept(ctx context.Context, actor models.Actor, clubID int) error {
	club, err := getClub(ctx, s.clubRepo, clubID)
	if err != nil {
		return err
	}

	membership, ok := club.FindMembership(actor.UserID)
	if !ok {
		return ErrInvitationNotFound
	}
	switch membership.Status {
	case models.MembershipApproved:
		return nil
	case models.MembershipInvited:
	default:
		return ErrInvitationNotFound
	}

	if err := s.clubRepo.ApproveMembership(ctx, clubID, actor.UserID); err != nil {
		switch {
		case errors.Is(err, repositories.ErrMembershipNotFound):
			return ErrInvitationNotFound
		case errors.Is(err, repositories.ErrMembershipApproved):
			return ErrPlayerAlreadyInClub
		}
		return fmt.Errorf("%w: %w", ErrMembershipOperationFailed, err)
	}
	return nil
}

func (s *membershipService) Reject(ctx context.Context, actor models.Actor, clubID int) error {
	if _, err := s.clubRepo.RemoveMembership(ctx, clubID, actor.UserID); err != nil {
		return fmt.Errorf("%w: %w", ErrMembershipOperationFailed, err)
	}
	return nil
}

func (s *membershipService) RemoveMember(ctx context.Context, actor models.Actor, clubID, playerID int) error {
	if _, err := getOwnedClub(ctx, s.clubRepo, actor, clubID); err != nil {
		return err
	}
	if _, err := s.clubRepo.RemoveMembership(ctx, clubID, playerID); err != nil {
		return fmt.Errorf("%w: %w", ErrMembershipOperationFailed, err)
	}
	return nil
}

// Reconcile points club_id of every approved member at the member's club.
func (s *membershipService) Reconcile(ctx context.Context) (*ReconcileResult, error) {
	clubs, err := s.clubRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMembershipOperationFailed, err)
	}

	var updated atomic.Int64
	p := pool.New().WithContext(ctx).WithMaxGoroutines(s.workers)
	for _, club := range clubs {
		ids := club.ApprovedPlayerIDs()
		if len(ids) == 0 {
			continue
		}
		clubID := club.ID
		p.Go(func(ctx context.Context) error {
			n, err := s.userRepo.AssignClub(ctx, clubID, ids)
			if err != nil {
				return fmt.Errorf("club %d: %w", clubID, err)
			}
			if n > 0 {
				s.logger.Info("reconciled club members", slog.Int("club_id", clubID), slog.Int64("updated", n))
			}
			updated.Add(n)
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMembershipOperationFailed, err)
	}

	return &ReconcileResult{
		ClubsScanned: len(clubs),
		UsersUpdated: updated.Load(),
	}, nil
}
