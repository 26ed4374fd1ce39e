package models

import "time"

type UserRole string

const (
	RoleCoach  UserRole = "Coach"
	RolePlayer UserRole = "Player"
)

func (r UserRole) Valid() bool {
	return r == RoleCoach || r == RolePlayer
}

type User struct {
	ID           int       `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	Role         UserRole  `json:"role" db:"role"`
	PasswordHash string    `json:"-" db:"password_hash"`
	ClubID       *int      `json:"club_id" db:"club_id"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`

	// Invitations lists the clubs holding an "invited" membership for this user.
	Invitations []int `json:"invitations" db:"-"`

	Club *ClubSummary `json:"club,omitempty" db:"-"`
}

// MarketPlayer is the public projection of a player listed on the market.
type MarketPlayer struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	ClubID   *int   `json:"club_id"`
}

// Actor is the authenticated identity passed explicitly into every operation.
type Actor struct {
	UserID int
	Role   UserRole
}

func (a Actor) IsCoach() bool {
	return a.Role == RoleCoach
}
