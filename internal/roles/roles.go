// Package roles decides what an acting member may do, based on the role
// memberships the chat gateway reports with each interaction. The server
// keeps no role state of its own.
package roles

import "github.com/readnextapp/readnext-server/internal/domain"

// Gate evaluates role-based permissions for catalog actions.
type Gate struct {
	chairRoleID string
}

// NewGate creates a gate recognizing the given chair role ID.
func NewGate(chairRoleID string) *Gate {
	return &Gate{chairRoleID: chairRoleID}
}

// IsChair reports whether the member holds the chair role. Prioritization
// is gated on this predicate before any store mutation.
func (g *Gate) IsChair(member *domain.Member) bool {
	if member == nil || g.chairRoleID == "" {
		return false
	}
	return member.HasRole(g.chairRoleID)
}
