// Package memory implements the repository interfaces on top of in-process maps.
// It enforces the same keys and uniqueness rules as the Postgres schema.
package memory

import (
	"slices"
	"sync"
	"time"

	"github.com/fadhelhaji/90Plus-backend/models"
	"github.com/jonboulle/clockwork"
)

type membershipKey struct {
	clubID   int
	playerID int
}

type Store struct {
	mu    sync.RWMutex
	clock clockwork.Clock

	nextUserID  int
	nextClubID  int
	nextTeamID  int
	nextGameID  int
	nextPhotoID int

	users       map[int]models.User
	clubs       map[int]models.Club
	memberships map[membershipKey]models.Membership
	// membershipOrder keeps insertion order per club.
	membershipOrder map[int][]int
	teams           map[int]models.Team
	games           map[int]models.Game
}

func NewStore() *Store {
	return NewStoreWithClock(clockwork.NewRealClock())
}

// NewStoreWithClock stamps created_at and joined_at from clock.
func NewStoreWithClock(clock clockwork.Clock) *Store {
	return &Store{
		clock:           clock,
		users:           make(map[int]models.User),
		clubs:           make(map[int]models.Club),
		memberships:     make(map[membershipKey]models.Membership),
		membershipOrder: make(map[int][]int),
		teams:           make(map[int]models.Team),
		games:           make(map[int]models.Game),
	}
}

func (s *Store) now() time.Time {
	return s.clock.Now().UTC()
}

// invitationsFor must be called with the lock held.
func (s *Store) invitationsFor(userID int) []int {
	out := []int{}
	for _, clubID := range sortedKeys(s.clubs) {
		if m, ok := s.memberships[membershipKey{clubID, userID}]; ok && m.Status == models.MembershipInvited {
			out = append(out, clubID)
		}
	}
	return out
}

// approvedClubOf must be called with the lock held.
func (s *Store) approvedClubOf(userID int) (int, bool) {
	for key, m := range s.memberships {
		if key.playerID == userID && m.Status == models.MembershipApproved {
			return key.clubID, true
		}
	}
	return 0, false
}

func sortedKeys[V any](m map[int]V) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func copyIntPtr(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func copyStringPtr(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
