package models

import "time"

type MembershipStatus string

const (
	// MembershipRequested is reserved for player-initiated join requests.
	MembershipRequested MembershipStatus = "requested"
	MembershipInvited   MembershipStatus = "invited"
	MembershipApproved  MembershipStatus = "approved"
)

type Membership struct {
	PlayerID int              `json:"player_id" db:"player_id"`
	Status   MembershipStatus `json:"status" db:"status"`
	JoinedAt time.Time        `json:"joined_at" db:"joined_at"`

	Player *MarketPlayer `json:"player,omitempty" db:"-"`
}

type Club struct {
	ID        int          `json:"id" db:"id"`
	ClubName  string       `json:"club_name" db:"club_name"`
	CoachID   int          `json:"coach_id" db:"coach_id"`
	Players   []Membership `json:"players" db:"-"`
	CreatedAt time.Time    `json:"created_at" db:"created_at"`

	Coach *MarketPlayer `json:"coach,omitempty" db:"-"`
}

type ClubSummary struct {
	ID       int    `json:"id"`
	ClubName string `json:"club_name"`
}

func (c *Club) IsCoach(userID int) bool {
	return c.CoachID == userID
}

func (c *Club) FindMembership(playerID int) (Membership, bool) {
	for _, m := range c.Players {
		if m.PlayerID == playerID {
			return m, true
		}
	}
	return Membership{}, false
}

func (c *Club) ApprovedPlayerIDs() []int {
	ids := make([]int, 0, len(c.Players))
	for _, m := range c.Players {
		if m.Status == MembershipApproved {
			ids = append(ids, m.PlayerID)
		}
	}
	return ids
}
