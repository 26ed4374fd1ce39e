package models

import "time"

const (
	MinRating = 0
	MaxRating = 5
)

type PlayerStat struct {
	PlayerID int     `json:"player_id" db:"player_id"`
	Rating   float64 `json:"rating" db:"rating"`
	Notes    *string `json:"notes,omitempty" db:"notes"`
}

type Photo struct {
	ID              int       `json:"id" db:"id"`
	URL             string    `json:"url" db:"url"`
	PublicID        string    `json:"public_id" db:"public_id"`
	TaggedPlayerIDs []int     `json:"tagged_player_ids" db:"-"`
	UploadedAt      time.Time `json:"uploaded_at" db:"uploaded_at"`
}

type Game struct {
	ID          int          `json:"id" db:"id"`
	ClubID      int          `json:"club_id" db:"club_id"`
	TeamAID     int          `json:"team_a_id" db:"team_a_id"`
	TeamBID     int          `json:"team_b_id" db:"team_b_id"`
	MatchDate   time.Time    `json:"match_date" db:"match_date"`
	Location    string       `json:"location" db:"location"`
	ScoreTeamA  int          `json:"score_team_a" db:"score_team_a"`
	ScoreTeamB  int          `json:"score_team_b" db:"score_team_b"`
	MVPPlayerID *int         `json:"mvp_player_id" db:"mvp_player_id"`
	PlayerStats []PlayerStat `json:"player_stats" db:"-"`
	Photos      []Photo      `json:"photos" db:"-"`
	CreatedAt   time.Time    `json:"created_at" db:"created_at"`
}

func (g *Game) FindPhoto(photoID int) (Photo, bool) {
	for _, p := range g.Photos {
		if p.ID == photoID {
			return p, true
		}
	}
	return Photo{}, false
}

func (g *Game) StatFor(playerID int) (PlayerStat, bool) {
	for _, s := range g.PlayerStats {
		if s.PlayerID == playerID {
			return s, true
		}
	}
	return PlayerStat{}, false
}
