package domain

import "slices"

// Member is the acting user behind an interaction, as reported by the chat
// gateway. Role membership arrives with every event; the server holds no
// member records of its own.
type Member struct {
	ID          string   `json:"id"`
	DisplayName string   `json:"display_name"`
	RoleIDs     []string `json:"role_ids"`
}

// HasRole reports whether the member holds the given role.
func (m *Member) HasRole(roleID string) bool {
	return slices.Contains(m.RoleIDs, roleID)
}
