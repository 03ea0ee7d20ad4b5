// Package policy is the authorization policy: pure functions of a resolved
// identity, no storage access, no side effects.
package policy

import (
	"errors"

	"club_service/internal/models"
)

var (
	ErrRequiresLogin = errors.New("requires login")
	ErrRequiresAdmin = errors.New("requires admin")
	ErrAlreadyMember = errors.New("already a member")
)

// CanSeeAuthors gates author identity on message views. Membership is the
// only thing that counts here: an admin who never joined the club still
// gets the redacted view.
func CanSeeAuthors(id models.Identity) bool {
	return id.Member()
}

// CanCreateMessage permits any logged-in user, member or not.
func CanCreateMessage(id models.Identity) error {
	if id.Anonymous() {
		return ErrRequiresLogin
	}
	return nil
}

// CanDeleteMessage permits admins only. Everyone else, including anonymous
// visitors, gets the same denial.
func CanDeleteMessage(id models.Identity) error {
	if !id.Admin() {
		return ErrRequiresAdmin
	}
	return nil
}

// CanJoinClub reports whether a join attempt should even reach the passcode
// check. ErrAlreadyMember is not a real failure; callers turn it into a
// no-op success.
func CanJoinClub(id models.Identity) error {
	if id.Anonymous() {
		return ErrRequiresLogin
	}
	if id.Member() {
		return ErrAlreadyMember
	}
	return nil
}

// CanViewAdmin gates the admin dashboard.
func CanViewAdmin(id models.Identity) error {
	if !id.Admin() {
		return ErrRequiresAdmin
	}
	return nil
}
