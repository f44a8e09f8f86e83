package authz

import (
	"errors"
	"strings"
)

var (
	// ErrUnauthenticated indicates the caller presented no valid credential
	ErrUnauthenticated = errors.New("not authenticated")

	// ErrForbidden indicates the caller is authenticated but not entitled
	ErrForbidden = errors.New("not authorized")
)

// Role is the closed set of user roles. Inputs are normalized once at the
// boundary via ParseRole instead of case-insensitive string comparisons
// scattered through handlers.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// ParseRole normalizes a role string ("admin", "Admin", "ADMIN", ...) to a
// Role. Unknown values fall back to RoleUser.
func ParseRole(s string) Role {
	if strings.EqualFold(strings.TrimSpace(s), string(RoleAdmin)) {
		return RoleAdmin
	}
	return RoleUser
}

// Identity describes the acting caller as derived from the auth middleware.
// A zero Identity is an anonymous caller.
type Identity struct {
	Authenticated bool
	UserID        string
	Role          Role
}

// Anonymous returns the identity of an unauthenticated caller.
func Anonymous() Identity {
	return Identity{}
}

// IsAdmin reports whether the identity is an authenticated admin.
func (id Identity) IsAdmin() bool {
	return id.Authenticated && id.Role == RoleAdmin
}

// Operation classifies what the caller is trying to do with a resource.
type Operation int

const (
	// OpMutate covers update/write operations on an owned resource
	OpMutate Operation = iota
	// OpDelete covers delete operations on an owned resource
	OpDelete
	// OpReadPrivate covers reads that require an authenticated caller
	OpReadPrivate
	// OpAdminOnly covers operations reserved for admins (all-posts listing,
	// role management, deleting other users)
	OpAdminOnly
)

// Authorize decides whether the acting identity may perform op on a resource
// owned by resourceOwnerID. Rules are evaluated in order:
//
//  1. Unauthenticated -> ErrUnauthenticated
//  2. Admin -> permitted regardless of ownership
//  3. Ownership match -> permitted for mutate/delete
//  4. Otherwise -> ErrForbidden
//
// Reads of public resources bypass this gate entirely; callers must not
// invoke it for them. OpReadPrivate requires only authentication: ownership
// is deliberately not checked on private reads.
func Authorize(id Identity, resourceOwnerID string, op Operation) error {
	if !id.Authenticated {
		return ErrUnauthenticated
	}
	if id.Role == RoleAdmin {
		return nil
	}
	switch op {
	case OpReadPrivate:
		return nil
	case OpMutate, OpDelete:
		if id.UserID == resourceOwnerID {
			return nil
		}
		return ErrForbidden
	case OpAdminOnly:
		return ErrForbidden
	default:
		return ErrForbidden
	}
}
