package model

import "github.com/google/uuid"

// UserProfile is the resolved identity of a signed-in user: who they are,
// what role they hold and which company they belong to.
type UserProfile struct {
	ID        uuid.UUID   `json:"id"`
	Email     string      `json:"email"`
	Role      Role        `json:"role"`
	CompanyID *uuid.UUID  `json:"company_id"`
	Company   *CompanyRef `json:"company,omitempty"`
}

// NewUserProfile composes a profile from the user row and its company row.
func NewUserProfile(u *User, c *Company) *UserProfile {
	return &UserProfile{
		ID:        u.ID,
		Email:     u.Email,
		Role:      u.Role,
		CompanyID: u.CompanyID,
		Company:   c.Ref(),
	}
}

// Can reports whether the profile grants a privilege. A nil profile grants nothing.
func (p *UserProfile) Can(code string) bool {
	if p == nil {
		return false
	}
	return p.Role.Can(code)
}

// Privileges is nil-safe.
func (p *UserProfile) Privileges() []string {
	if p == nil {
		return nil
	}
	return p.Role.Privileges()
}

// HasCompany reports whether the profile is bound to a tenant.
func (p *UserProfile) HasCompany() bool {
	return p != nil && p.CompanyID != nil && *p.CompanyID != uuid.Nil
}
