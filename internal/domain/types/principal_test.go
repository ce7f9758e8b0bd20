package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boolPtr(b bool) *bool { return &b }

func TestPrincipal_Authorities(t *testing.T) {
	p := NewPrincipal(UserProfile{
		Username:   "alice",
		Password:   "$2a$14$hash",
		ScopeRoles: map[string]string{"app2": "viewer", "app1": "admin"},
	})

	got := p.Authorities()
	require.Len(t, got, 2)
	assert.Equal(t, Authority{Scope: "app1", Role: "admin"}, got[0])
	assert.Equal(t, Authority{Scope: "app2", Role: "viewer"}, got[1])
	assert.Equal(t, "alice", p.Username())
	assert.Equal(t, "$2a$14$hash", p.PasswordHash())
}

func TestPrincipal_LifecycleFlags(t *testing.T) {
	p := NewPrincipal(UserProfile{Username: "bob"})
	assert.True(t, p.Enabled())
	assert.True(t, p.AccountNonExpired())
	assert.True(t, p.AccountNonLocked())
	assert.True(t, p.CredentialsNonExpired())
	assert.Empty(t, p.Authorities())

	disabled := NewPrincipal(UserProfile{Username: "bob", Active: boolPtr(false)})
	assert.False(t, disabled.Enabled())
	assert.True(t, disabled.AccountNonLocked())
}

func TestUserProfile_EmailVerified(t *testing.T) {
	var nilProfile *UserProfile
	assert.False(t, nilProfile.IsEmailVerified())
	assert.False(t, (&UserProfile{}).IsEmailVerified())
	assert.True(t, (&UserProfile{EmailVerified: boolPtr(true)}).IsEmailVerified())
}

func TestUserProfile_PartyRoles(t *testing.T) {
	p := &UserProfile{AuthorizeParties: []AuthorizePartyMembership{
		{Party: "app1", Roles: []AuthorizePartyRole{{Role: "admin"}, {Role: "viewer", Active: boolPtr(false)}}},
		{Party: "app2"},
	}}
	assert.Equal(t, map[string][]string{
		"app1": {"admin", "viewer"},
		"app2": {},
	}, p.PartyRoles())
}
