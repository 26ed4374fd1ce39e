package memory

import (
	"context"
	"slices"

	"github.com/fadhelhaji/90Plus-backend/models"
	"github.com/fadhelhaji/90Plus-backend/repositories"
)

type UserRepository struct {
	store *Store
}

func NewUserRepository(store *Store) *UserRepository {
	return &UserRepository{store: store}
}

var _ repositories.UserRepository = (*UserRepository)(nil)

// view must be called with the lock held.
func (r *UserRepository) view(u models.User) models.User {
	u.ClubID = copyIntPtr(u.ClubID)
	u.Invitations = r.store.invitationsFor(u.ID)
	u.Club = nil
	return u
}

func (r *UserRepository) Create(_ context.Context, user *models.User) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Username == user.Username {
			return repositories.ErrUserUsernameConflict
		}
	}

	s.nextUserID++
	user.ID = s.nextUserID
	user.CreatedAt = s.now()
	user.ClubID = nil
	user.Invitations = []int{}
	s.users[user.ID] = *user
	return nil
}

func (r *UserRepository) GetByID(_ context.Context, id int) (*models.User, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	out := r.view(u)
	return &out, nil
}

func (r *UserRepository) GetByUsername(_ context.Context, username string) (*models.User, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Username == username {
			out := r.view(u)
			return &out, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *UserRepository) ListByRole(_ context.Context, role models.UserRole) ([]models.User, error) {
	return r.filter(func(u models.User) bool { return u.Role == role }), nil
}

func (r *UserRepository) ListByIDs(_ context.Context, ids []int) ([]models.User, error) {
	return r.filter(func(u models.User) bool { return slices.Contains(ids, u.ID) }), nil
}

func (r *UserRepository) ListByClubID(_ context.Context, clubID int) ([]models.User, error) {
	return r.filter(func(u models.User) bool { return u.ClubID != nil && *u.ClubID == clubID }), nil
}

func (r *UserRepository) filter(keep func(models.User) bool) []models.User {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.User, 0)
	for _, id := range sortedKeys(s.users) {
		if u := s.users[id]; keep(u) {
			out = append(out, r.view(u))
		}
	}
	return out
}

func (r *UserRepository) AssignClub(_ context.Context, clubID int, userIDs []int) (int64, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	var changed int64
	for _, id := range userIDs {
		u, ok := s.users[id]
		if !ok {
			continue
		}
		if u.ClubID != nil && *u.ClubID == clubID {
			continue
		}
		cid := clubID
		u.ClubID = &cid
		s.users[id] = u
		changed++
	}
	return changed, nil
}
