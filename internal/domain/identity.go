package domain

import "time"

// Identity is a registered storefront account.
type Identity struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	PhoneNumber  string    `json:"phoneNumber,omitempty"`
	Address      *Address  `json:"address,omitempty"`
	Roles        []Role    `json:"roles"`
	Enabled      bool      `json:"enabled"`
	Locked       bool      `json:"locked"`
	Expired      bool      `json:"expired"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Authorities returns the authority names granted through Roles.
func (i *Identity) Authorities() []string {
	out := make([]string, 0, len(i.Roles))
	for _, r := range i.Roles {
		out = append(out, string(r.Authority))
	}
	return out
}

// CanAuthenticate reports whether the account may log in or be resolved
// from a token.
func (i *Identity) CanAuthenticate() bool {
	return i.Enabled && !i.Locked && !i.Expired
}

// AuthenticatedIdentity is the principal attached to a request.
type AuthenticatedIdentity struct {
	Username      string   `json:"username"`
	Email         string   `json:"email"`
	Authorities   []string `json:"authorities"`
	Authenticated bool     `json:"authenticated"`
}

// Anonymous is the principal of a request with no valid token.
func Anonymous() AuthenticatedIdentity {
	return AuthenticatedIdentity{}
}

// Principal builds the authenticated principal for i.
func (i *Identity) Principal() AuthenticatedIdentity {
	return AuthenticatedIdentity{
		Username:      i.Username,
		Email:         i.Email,
		Authorities:   i.Authorities(),
		Authenticated: true,
	}
}

// HasAuthority reports whether the principal holds authority a.
func (p AuthenticatedIdentity) HasAuthority(a Authority) bool {
	for _, got := range p.Authorities {
		if got == string(a) {
			return true
		}
	}
	return false
}
