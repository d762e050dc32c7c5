package messages

// User facing replies.
const (
	// ErrUserErrorProcessing is sent when a command fails for a reason the user cannot fix.
	ErrUserErrorProcessing = "There was an error processing your request, please try again later."

	// ErrRateLimited is sent when a user runs commands too quickly.
	ErrRateLimited = "You are sending commands too quickly, please slow down."

	// ErrMissingPermissions is sent when a user may not manage the guild.
	ErrMissingPermissions = "You must have the Manage Server permission to use this command."

	// ErrNoRole is sent when a role argument was expected but not provided.
	ErrNoRole = "Please provide a role."

	// ErrNoSuchTicket is sent when a ticket ID does not exist.
	ErrNoSuchTicket = "There is no ticket with that ID."

	// ErrRoleTooHigh is sent when a user tries to manage a role at or above their own.
	ErrRoleTooHigh = "You can only manage roles below your highest role."

	// ErrNotHigherRanked is sent when a user tries to change another user's ticket without outranking them.
	ErrNotHigherRanked = "You must be ranked higher than the ticket creator to change their ticket."

	// ErrTicketingDisabled is sent when a ticket is created while ticketing is off.
	ErrTicketingDisabled = "Ticketing is not enabled on this server."

	// ErrNotAllowedToCreate is sent when a user may not create tickets.
	ErrNotAllowedToCreate = "You are not allowed to create tickets on this server."
)
