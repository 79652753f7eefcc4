package service

import (
	"strings"

	"codeconnect/internal/shared"
)

// Authorizer holds the ownership rules for mutations. The admin address is
// configuration; an identity is admin when its row says so or its email
// matches that address.
type Authorizer struct {
	adminEmail string
}

func NewAuthorizer(adminEmail string) *Authorizer {
	return &Authorizer{adminEmail: strings.TrimSpace(adminEmail)}
}

// IsAdminEmail reports whether email is the configured admin address
func (a *Authorizer) IsAdminEmail(email string) bool {
	return a.adminEmail != "" && strings.EqualFold(email, a.adminEmail)
}

func (a *Authorizer) IsAdmin(caller *shared.Identity) bool {
	return caller.IsAdmin || a.IsAdminEmail(caller.Email)
}

// CanModifyProject: the author or an admin
func (a *Authorizer) CanModifyProject(caller *shared.Identity, authorID string) bool {
	return caller.ID == authorID || a.IsAdmin(caller)
}

// CanDeleteComment: the author only. Admins get no override here.
func (a *Authorizer) CanDeleteComment(caller *shared.Identity, authorID string) bool {
	return caller.ID == authorID
}

// CanRate: anyone but the project's author
func (a *Authorizer) CanRate(caller *shared.Identity, authorID string) bool {
	return caller.ID != authorID
}

// requireCaller rejects a missing identity before any rule is evaluated
func requireCaller(caller *shared.Identity) error {
	if caller == nil || caller.ID == "" {
		return unauthenticated("Authentication required")
	}
	return nil
}
