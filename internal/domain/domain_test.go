package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAddressType(t *testing.T) {
	tests := []struct {
		in      string
		want    AddressType
		wantErr bool
	}{
		{"HOME", AddressHome, false},
		{"home", AddressHome, false},
		{"  Work ", AddressWork, false},
		{"billing", AddressBilling, false},
		{"sHiPpInG", AddressShipping, false},
		{"", "", true},
		{"office", "", true},
		{"HOMEWORK", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseAddressType(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidAddressType)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIdentity_CanAuthenticate(t *testing.T) {
	tests := []struct {
		name string
		id   Identity
		want bool
	}{
		{"active", Identity{Enabled: true}, true},
		{"disabled", Identity{Enabled: false}, false},
		{"locked", Identity{Enabled: true, Locked: true}, false},
		{"expired", Identity{Enabled: true, Expired: true}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.id.CanAuthenticate())
		})
	}
}

func TestIdentity_Principal(t *testing.T) {
	id := &Identity{
		Username: "alice",
		Email:    "a@x.io",
		Roles:    []Role{{ID: 1, Authority: AuthorityUser}, {ID: 2, Authority: AuthorityAdmin}},
	}

	p := id.Principal()

	assert.True(t, p.Authenticated)
	assert.Equal(t, "alice", p.Username)
	assert.Equal(t, []string{"ROLE_USER", "ROLE_ADMIN"}, p.Authorities)
	assert.True(t, p.HasAuthority(AuthorityAdmin))
}

func TestAnonymous(t *testing.T) {
	a := Anonymous()

	assert.False(t, a.Authenticated)
	assert.Empty(t, a.Username)
	assert.False(t, a.HasAuthority(AuthorityUser))
}

func TestIdentity_PasswordHashNeverSerialized(t *testing.T) {
	b, err := json.Marshal(Identity{Username: "alice", PasswordHash: "$2a$10$abc"})
	require.NoError(t, err)

	assert.NotContains(t, string(b), "$2a$10$abc")
	assert.NotContains(t, string(b), "password")
}

func TestAuthority_IsValid(t *testing.T) {
	assert.True(t, AuthorityUser.IsValid())
	assert.True(t, AuthorityAdmin.IsValid())
	assert.False(t, Authority("ROLE_ROOT").IsValid())
}
