package memory

import (
	"context"
	"slices"

	"github.com/fadhelhaji/90Plus-backend/models"
	"github.com/fadhelhaji/90Plus-backend/repositories"
)

type TeamRepository struct {
	store *Store
}

func NewTeamRepository(store *Store) *TeamRepository {
	return &TeamRepository{store: store}
}

var _ repositories.TeamRepository = (*TeamRepository)(nil)

func copyTeam(t models.Team) models.Team {
	players := make([]models.RosterEntry, 0, len(t.Players))
	for _, entry := range t.Players {
		players = append(players, models.RosterEntry{PlayerID: entry.PlayerID, Position: copyStringPtr(entry.Position)})
	}
	t.Players = players
	return t
}

func (r *TeamRepository) Create(_ context.Context, team *models.Team) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.clubs[team.ClubID]; !ok {
		return repositories.ErrTeamClubInvalid
	}
	seen := make(map[int]struct{}, len(team.Players))
	for _, entry := range team.Players {
		if _, ok := s.users[entry.PlayerID]; !ok {
			return repositories.ErrRosterRefInvalid
		}
		if _, dup := seen[entry.PlayerID]; dup {
			return repositories.ErrRosterConflict
		}
		seen[entry.PlayerID] = struct{}{}
	}

	s.nextTeamID++
	team.ID = s.nextTeamID
	team.CreatedAt = s.now()
	if team.Players == nil {
		team.Players = []models.RosterEntry{}
	}
	s.teams[team.ID] = copyTeam(*team)
	return nil
}

func (r *TeamRepository) GetByID(_ context.Context, id int) (*models.Team, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.teams[id]
	if !ok {
		return nil, repositories.ErrTeamNotFound
	}
	out := copyTeam(t)
	return &out, nil
}

func (r *TeamRepository) ListByClubID(_ context.Context, clubID int) ([]models.Team, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Team, 0)
	for _, id := range sortedKeys(s.teams) {
		if t := s.teams[id]; t.ClubID == clubID {
			out = append(out, copyTeam(t))
		}
	}
	return out, nil
}

func (r *TeamRepository) UpdateFormation(_ context.Context, teamID int, formation string) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.teams[teamID]
	if !ok {
		return repositories.ErrTeamNotFound
	}
	t.Formation = formation
	s.teams[teamID] = t
	return nil
}

func (r *TeamRepository) AddPlayer(_ context.Context, teamID int, entry models.RosterEntry) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.teams[teamID]
	if !ok {
		return repositories.ErrRosterRefInvalid
	}
	if _, ok := s.users[entry.PlayerID]; !ok {
		return repositories.ErrRosterRefInvalid
	}
	if t.HasPlayer(entry.PlayerID) {
		return repositories.ErrRosterConflict
	}
	t.Players = append(slices.Clone(t.Players), models.RosterEntry{
		PlayerID: entry.PlayerID,
		Position: copyStringPtr(entry.Position),
	})
	s.teams[teamID] = t
	return nil
}

func (r *TeamRepository) RemovePlayer(_ context.Context, teamID, playerID int) (bool, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.teams[teamID]
	if !ok || !t.HasPlayer(playerID) {
		return false, nil
	}
	t.Players = slices.DeleteFunc(slices.Clone(t.Players), func(e models.RosterEntry) bool { return e.PlayerID == playerID })
	s.teams[teamID] = t
	return true, nil
}
