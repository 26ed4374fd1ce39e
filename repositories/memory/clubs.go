package memory

import (
	"context"
	"slices"

	"github.com/fadhelhaji/90Plus-backend/models"
	"github.com/fadhelhaji/90Plus-backend/repositories"
)

type ClubRepository struct {
	store *Store
}

func NewClubRepository(store *Store) *ClubRepository {
	return &ClubRepository{store: store}
}

var _ repositories.ClubRepository = (*ClubRepository)(nil)

// view must be called with the lock held.
func (r *ClubRepository) view(c models.Club) models.Club {
	s := r.store
	c.Players = make([]models.Membership, 0, len(s.membershipOrder[c.ID]))
	for _, playerID := range s.membershipOrder[c.ID] {
		m := s.memberships[membershipKey{c.ID, playerID}]
		m.Player = nil
		c.Players = append(c.Players, m)
	}
	c.Coach = nil
	return c
}

func (r *ClubRepository) Create(_ context.Context, club *models.Club) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[club.CoachID]; !ok {
		return repositories.ErrClubCoachInvalid
	}
	for _, existing := range s.clubs {
		if existing.CoachID == club.CoachID {
			return repositories.ErrClubCoachConflict
		}
	}

	s.nextClubID++
	club.ID = s.nextClubID
	club.CreatedAt = s.now()
	club.Players = []models.Membership{}
	stored := *club
	stored.Players = nil
	s.clubs[club.ID] = stored
	return nil
}

func (r *ClubRepository) Exists(_ context.Context, id int) (bool, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.clubs[id]
	return ok, nil
}

func (r *ClubRepository) GetByID(_ context.Context, id int) (*models.Club, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.clubs[id]
	if !ok {
		return nil, repositories.ErrClubNotFound
	}
	out := r.view(c)
	return &out, nil
}

func (r *ClubRepository) GetByCoachID(_ context.Context, coachID int) (*models.Club, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, c := range s.clubs {
		if c.CoachID == coachID {
			out := r.view(c)
			return &out, nil
		}
	}
	return nil, repositories.ErrClubNotFound
}

func (r *ClubRepository) List(_ context.Context) ([]models.Club, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Club, 0, len(s.clubs))
	for _, id := range sortedKeys(s.clubs) {
		out = append(out, r.view(s.clubs[id]))
	}
	return out, nil
}

func (r *ClubRepository) AddMembership(_ context.Context, clubID int, membership *models.Membership) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.clubs[clubID]; !ok {
		return repositories.ErrMembershipRefInvalid
	}
	if _, ok := s.users[membership.PlayerID]; !ok {
		return repositories.ErrMembershipRefInvalid
	}
	key := membershipKey{clubID, membership.PlayerID}
	if _, exists := s.memberships[key]; exists {
		return repositories.ErrMembershipConflict
	}
	if membership.Status == models.MembershipApproved {
		if _, approved := s.approvedClubOf(membership.PlayerID); approved {
			return repositories.ErrMembershipApproved
		}
	}

	membership.JoinedAt = s.now()
	stored := *membership
	stored.Player = nil
	s.memberships[key] = stored
	s.membershipOrder[clubID] = append(s.membershipOrder[clubID], membership.PlayerID)
	return nil
}

func (r *ClubRepository) ApproveMembership(_ context.Context, clubID, playerID int) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	key := membershipKey{clubID, playerID}
	m, ok := s.memberships[key]
	if !ok {
		return repositories.ErrMembershipNotFound
	}
	if other, approved := s.approvedClubOf(playerID); approved && other != clubID {
		return repositories.ErrMembershipApproved
	}

	m.Status = models.MembershipApproved
	s.memberships[key] = m

	if u, ok := s.users[playerID]; ok {
		cid := clubID
		u.ClubID = &cid
		s.users[playerID] = u
	}
	return nil
}

func (r *ClubRepository) RemoveMembership(_ context.Context, clubID, playerID int) (bool, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	key := membershipKey{clubID, playerID}
	m, ok := s.memberships[key]
	if !ok {
		return false, nil
	}
	delete(s.memberships, key)
	s.membershipOrder[clubID] = slices.DeleteFunc(s.membershipOrder[clubID], func(id int) bool { return id == playerID })

	if m.Status == models.MembershipApproved {
		if u, ok := s.users[playerID]; ok && u.ClubID != nil && *u.ClubID == clubID {
			u.ClubID = nil
			s.users[playerID] = u
		}
	}
	return true, nil
}
