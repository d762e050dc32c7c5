package entities

import "slices"

// TicketSettings is the ticketing configuration of a guild.
type TicketSettings struct {
	// UseTicketing is whether the ticketing system is enabled.
	UseTicketing bool `json:"use_ticketing" bson:"use_ticketing"`

	// TicketChannelID is the ID of the channel that ticket updates are logged in.
	TicketChannelID string `json:"ticket_channel_id" bson:"ticket_channel_id"`

	// AllowAnyUserToCreate is whether every member may create tickets.
	AllowAnyUserToCreate bool `json:"allow_any_user_to_create" bson:"allow_any_user_to_create"`

	// AllowedCreationRoles are the roles that may create tickets when AllowAnyUserToCreate is off.
	AllowedCreationRoles []string `json:"allowed_creation_roles" bson:"allowed_creation_roles"`
}

// AddAllowedRole adds the role to the allow-list. It returns false if the role was already present.
func (s *TicketSettings) AddAllowedRole(roleID string) bool {
	if slices.Contains(s.AllowedCreationRoles, roleID) {
		return false
	}
	s.AllowedCreationRoles = append(s.AllowedCreationRoles, roleID)
	return true
}

// RemoveAllowedRole removes the role from the allow-list. It returns false if the role was not present.
func (s *TicketSettings) RemoveAllowedRole(roleID string) bool {
	idx := slices.Index(s.AllowedCreationRoles, roleID)
	if idx < 0 {
		return false
	}
	s.AllowedCreationRoles = slices.Delete(s.AllowedCreationRoles, idx, idx+1)
	return true
}

// HasAllowedRole reports whether any of the given roles is on the allow-list.
func (s *TicketSettings) HasAllowedRole(roleIDs ...string) bool {
	for _, id := range roleIDs {
		if slices.Contains(s.AllowedCreationRoles, id) {
			return true
		}
	}
	return false
}

// CanCreate reports whether a member holding the given roles may create tickets.
func (s *TicketSettings) CanCreate(roleIDs ...string) bool {
	return s.AllowAnyUserToCreate || s.HasAllowedRole(roleIDs...)
}
