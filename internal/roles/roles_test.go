package roles

import (
	"testing"

	"github.com/readnextapp/readnext-server/internal/domain"
)

func TestIsChair(t *testing.T) {
	gate := NewGate("role-chair")

	cases := []struct {
		name   string
		member *domain.Member
		allow  bool
	}{
		{name: "chair", member: &domain.Member{ID: "u1", RoleIDs: []string{"role-chair"}}, allow: true},
		{name: "chair among other roles", member: &domain.Member{ID: "u2", RoleIDs: []string{"role-books", "role-chair"}}, allow: true},
		{name: "non-chair", member: &domain.Member{ID: "u3", RoleIDs: []string{"role-books"}}, allow: false},
		{name: "no roles", member: &domain.Member{ID: "u4"}, allow: false},
		{name: "nil member", member: nil, allow: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := gate.IsChair(tc.member); got != tc.allow {
				t.Fatalf("IsChair(%v) = %v, want %v", tc.member, got, tc.allow)
			}
		})
	}
}

func TestIsChairUnconfigured(t *testing.T) {
	// With no chair role configured, nobody is privileged.
	gate := NewGate("")
	member := &domain.Member{ID: "u1", RoleIDs: []string{""}}
	if gate.IsChair(member) {
		t.Fatal("unconfigured gate must deny everyone")
	}
}
