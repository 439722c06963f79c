package services

import "errors"

// Sentinel errors shared across services and the HTTP mapping layer.
var (
	ErrNotFound = errors.New("requested resource not found")

	// Validation and business rules
	ErrValidationFailed  = errors.New("validation failed")
	ErrPasswordTooShort  = errors.New("password is too short")
	ErrTeamNameRequired  = errors.New("team name is required")
	ErrInvalidAmount     = errors.New("amount must be a positive value")
	ErrNoPlayersSelected = errors.New("select at least one player")
	ErrNoPayingPlayers   = errors.New("at least one player must be a paying player")
	ErrManagerRequired   = errors.New("team manager is required")

	// Conflicts
	ErrEmailConflict       = errors.New("email address is already in use")
	ErrTeamNameConflict    = errors.New("team name is already in use")
	ErrMemberConflict      = errors.New("player is already a member of this team")
	ErrParticipantConflict = errors.New("player is already a participant of this match")

	// Authentication and authorization
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrForbiddenOperation = errors.New("operation not allowed for the current user")

	// Entity-specific not-found errors
	ErrPlayerNotFound       = errors.New("player not found")
	ErrTeamNotFound         = errors.New("team not found")
	ErrMatchNotFound        = errors.New("match not found")
	ErrParticipantNotFound  = errors.New("match participant not found")
	ErrMemberNotFound       = errors.New("team member not found")
	ErrContributionNotFound = errors.New("contribution not found")
	ErrExpenseNotFound      = errors.New("expense not found")
	ErrPlayerHasHistory     = errors.New("player has contributions or match history and cannot be deleted")
)
