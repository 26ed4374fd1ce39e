package memory

import (
	"context"
	"slices"

	"github.com/fadhelhaji/90Plus-backend/models"
	"github.com/fadhelhaji/90Plus-backend/repositories"
)

type GameRepository struct {
	store *Store
}

func NewGameRepository(store *Store) *GameRepository {
	return &GameRepository{store: store}
}

var _ repositories.GameRepository = (*GameRepository)(nil)

func copyGame(g models.Game) models.Game {
	stats := make([]models.PlayerStat, 0, len(g.PlayerStats))
	for _, st := range g.PlayerStats {
		stats = append(stats, models.PlayerStat{PlayerID: st.PlayerID, Rating: st.Rating, Notes: copyStringPtr(st.Notes)})
	}
	photos := make([]models.Photo, 0, len(g.Photos))
	for _, p := range g.Photos {
		p.TaggedPlayerIDs = append([]int{}, p.TaggedPlayerIDs...)
		photos = append(photos, p)
	}
	g.PlayerStats = stats
	g.Photos = photos
	g.MVPPlayerID = copyIntPtr(g.MVPPlayerID)
	return g
}

func (r *GameRepository) Create(_ context.Context, game *models.Game) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if game.TeamAID == game.TeamBID {
		return repositories.ErrGameSameTeams
	}
	if _, ok := s.clubs[game.ClubID]; !ok {
		return repositories.ErrGameRefInvalid
	}
	for _, teamID := range []int{game.TeamAID, game.TeamBID} {
		if _, ok := s.teams[teamID]; !ok {
			return repositories.ErrGameRefInvalid
		}
	}

	s.nextGameID++
	game.ID = s.nextGameID
	game.CreatedAt = s.now()
	game.PlayerStats = []models.PlayerStat{}
	game.Photos = []models.Photo{}
	s.games[game.ID] = copyGame(*game)
	return nil
}

func (r *GameRepository) GetByID(_ context.Context, id int) (*models.Game, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, ok := s.games[id]
	if !ok {
		return nil, repositories.ErrGameNotFound
	}
	out := copyGame(g)
	return &out, nil
}

func (r *GameRepository) ListByClubID(_ context.Context, clubID int) ([]models.Game, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Game, 0)
	for _, id := range sortedKeys(s.games) {
		if g := s.games[id]; g.ClubID == clubID {
			out = append(out, copyGame(g))
		}
	}
	slices.SortStableFunc(out, func(a, b models.Game) int {
		return b.MatchDate.Compare(a.MatchDate)
	})
	return out, nil
}

// update applies fn to a stored game under the write lock.
func (r *GameRepository) update(gameID int, fn func(g *models.Game) error) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.games[gameID]
	if !ok {
		return repositories.ErrGameNotFound
	}
	g = copyGame(g)
	if err := fn(&g); err != nil {
		return err
	}
	s.games[gameID] = g
	return nil
}

func (r *GameRepository) UpdateScore(_ context.Context, gameID, scoreTeamA, scoreTeamB int) error {
	return r.update(gameID, func(g *models.Game) error {
		g.ScoreTeamA = scoreTeamA
		g.ScoreTeamB = scoreTeamB
		return nil
	})
}

func (r *GameRepository) SetMVP(_ context.Context, gameID int, playerID *int) error {
	return r.update(gameID, func(g *models.Game) error {
		if playerID != nil {
			if _, ok := r.store.users[*playerID]; !ok {
				return repositories.ErrGameRefInvalid
			}
		}
		g.MVPPlayerID = copyIntPtr(playerID)
		return nil
	})
}

func (r *GameRepository) UpsertPlayerStat(_ context.Context, gameID int, stat models.PlayerStat) error {
	if stat.Rating < models.MinRating || stat.Rating > models.MaxRating {
		return repositories.ErrPlayerStatRating
	}
	return r.update(gameID, func(g *models.Game) error {
		for i := range g.PlayerStats {
			if g.PlayerStats[i].PlayerID == stat.PlayerID {
				g.PlayerStats[i].Rating = stat.Rating
				if stat.Notes != nil {
					g.PlayerStats[i].Notes = copyStringPtr(stat.Notes)
				}
				return nil
			}
		}
		g.PlayerStats = append(g.PlayerStats, models.PlayerStat{
			PlayerID: stat.PlayerID,
			Rating:   stat.Rating,
			Notes:    copyStringPtr(stat.Notes),
		})
		slices.SortFunc(g.PlayerStats, func(a, b models.PlayerStat) int { return a.PlayerID - b.PlayerID })
		return nil
	})
}

func (r *GameRepository) AddPhoto(_ context.Context, gameID int, photo *models.Photo) error {
	return r.update(gameID, func(g *models.Game) error {
		r.store.nextPhotoID++
		photo.ID = r.store.nextPhotoID
		if photo.TaggedPlayerIDs == nil {
			photo.TaggedPlayerIDs = []int{}
		}
		stored := *photo
		stored.TaggedPlayerIDs = append([]int{}, photo.TaggedPlayerIDs...)
		g.Photos = append(g.Photos, stored)
		return nil
	})
}

func (r *GameRepository) DeletePhoto(_ context.Context, gameID, photoID int) error {
	return r.update(gameID, func(g *models.Game) error {
		if _, ok := g.FindPhoto(photoID); !ok {
			return repositories.ErrPhotoNotFound
		}
		g.Photos = slices.DeleteFunc(g.Photos, func(p models.Photo) bool { return p.ID == photoID })
		return nil
	})
}

func (r *GameRepository) SetPhotoTags(_ context.Context, gameID, photoID int, playerIDs []int) error {
	return r.update(gameID, func(g *models.Game) error {
		for i := range g.Photos {
			if g.Photos[i].ID == photoID {
				tags := append([]int{}, playerIDs...)
				slices.Sort(tags)
				g.Photos[i].TaggedPlayerIDs = slices.Compact(tags)
				return nil
			}
		}
		return repositories.ErrPhotoNotFound
	})
}
