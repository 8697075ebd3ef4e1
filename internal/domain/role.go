package domain

// Authority names a granted permission set.
type Authority string

const (
	AuthorityUser  Authority = "ROLE_USER"
	AuthorityAdmin Authority = "ROLE_ADMIN"
)

// Role is a stored authority.
type Role struct {
	ID        int64     `json:"-"`
	Authority Authority `json:"authority"`
}

// IsValid reports whether a is one of the known authorities.
func (a Authority) IsValid() bool {
	switch a {
	case AuthorityUser, AuthorityAdmin:
		return true
	}
	return false
}
