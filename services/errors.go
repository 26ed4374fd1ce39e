package services

import "errors"

// Sentinel errors shared by the services and mapped to HTTP statuses by the handlers.
var (
	// NotFound
	ErrUserNotFound       = errors.New("user not found")
	ErrPlayerNotFound     = errors.New("player not found")
	ErrClubNotFound       = errors.New("club not found")
	ErrTeamNotFound       = errors.New("team not found")
	ErrGameNotFound       = errors.New("game not found")
	ErrPhotoNotFound      = errors.New("photo not found")
	ErrInvitationNotFound = errors.New("no pending invitation for this club")

	// Forbidden
	ErrForbiddenOperation = errors.New("operation not allowed for the current user")
	ErrCoachRoleRequired  = errors.New("only coaches can perform this action")
	ErrClubOwnerRequired  = errors.New("only the club's coach can perform this action")

	// InvalidArgument
	ErrValidationFailed     = errors.New("validation failed")
	ErrInvalidFormation     = errors.New("invalid formation")
	ErrNotAPlayer           = errors.New("user is not a player")
	ErrPlayerNotInClub      = errors.New("player not in club")
	ErrDuplicateRosterEntry = errors.New("player listed more than once")
	ErrSameTeams            = errors.New("a game needs two different teams")
	ErrTeamNotInClub        = errors.New("team does not belong to this club")
	ErrInvalidRating        = errors.New("rating must be between 0 and 5")
	ErrPhotoRequired        = errors.New("photo file is required")
	ErrUnsupportedPhotoType = errors.New("unsupported photo type")

	// Conflict
	ErrCoachAlreadyOwnsClub  = errors.New("you already own a club")
	ErrPlayerAlreadyInClub   = errors.New("player already belongs to a club")
	ErrAlreadyInvited        = errors.New("player already has a membership in this club")
	ErrPlayerAlreadyOnRoster = errors.New("player already in team")
	ErrUsernameTaken         = errors.New("username is already taken")

	// Unauthorized
	ErrAuthInvalidCredentials = errors.New("invalid username or password")
)

// Wrapped around unexpected repository and storage failures.
var (
	ErrClubOperationFailed       = errors.New("club operation failed")
	ErrMembershipOperationFailed = errors.New("membership operation failed")
	ErrTeamOperationFailed       = errors.New("team operation failed")
	ErrGameOperationFailed       = errors.New("game operation failed")
	ErrPhotoUploadFailed         = errors.New("photo upload failed")
	ErrAuthFailed                = errors.New("authentication failed")
)
