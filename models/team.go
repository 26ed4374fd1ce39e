package models

import "time"

const FormationOneTwoTwoOne = "1-2-2-1"

var allowedFormations = map[string]struct{}{
	FormationOneTwoTwoOne: {},
}

func IsAllowedFormation(formation string) bool {
	_, ok := allowedFormations[formation]
	return ok
}

type RosterEntry struct {
	PlayerID int     `json:"player_id" db:"player_id"`
	Position *string `json:"position,omitempty" db:"position"`
}

type Team struct {
	ID        int           `json:"id" db:"id"`
	ClubID    int           `json:"club_id" db:"club_id"`
	TeamName  string        `json:"team_name" db:"team_name"`
	Formation string        `json:"formation" db:"formation"`
	Players   []RosterEntry `json:"players" db:"-"`
	CreatedAt time.Time     `json:"created_at" db:"created_at"`
}

func (t *Team) HasPlayer(playerID int) bool {
	for _, entry := range t.Players {
		if entry.PlayerID == playerID {
			return true
		}
	}
	return false
}
