package domain

import "fmt"

// Caller is the authenticated identity an operation runs on behalf of.
// It is built once at the transport boundary and passed explicitly.
type Caller struct {
	UserID   uint
	SchoolID *uint
	Role     Role
}

// School returns the caller's tenant, or ErrForbidden for callers without one.
func (c Caller) School() (uint, error) {
	if c.SchoolID == nil || *c.SchoolID == 0 {
		return 0, fmt.Errorf("no school bound to caller: %w", ErrForbidden)
	}
	return *c.SchoolID, nil
}

// Require denies unless the caller's role is one of allowed.
func (c Caller) Require(allowed ...Role) error {
	for _, r := range allowed {
		if c.Role == r {
			return nil
		}
	}
	return fmt.Errorf("role %q not permitted: %w", c.Role, ErrForbidden)
}

// Is reports whether the caller has role r.
func (c Caller) Is(r Role) bool { return c.Role == r }
