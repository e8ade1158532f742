package model

// Roles assigned by the backend.
const (
	RoleClient = "CLIENT"
	RoleAdmin  = "ADMIN"
)

// User is the signed-in account as returned by the backend's login and
// profile endpoints.  Token is only populated on login responses from
// backends that issue one; the identity store keeps it separately.
//
// Fields:
//  ID       – backend identifier, used as userId on reservations.
//  Username – login name.
//  FullName – display name.
//  Email    – contact address for confirmations.
//  Role     – RoleClient or RoleAdmin.
//  Token    – optional bearer token for subsequent backend calls.
type User struct {
	ID       uint64 `json:"id"`
	Username string `json:"username"`
	FullName string `json:"fullName,omitempty"`
	Email    string `json:"email,omitempty"`
	Role     string `json:"role,omitempty"`
	Token    string `json:"token,omitempty"`
}

// IsAdmin reports whether the user holds the admin role.
func (u User) IsAdmin() bool { return u.Role == RoleAdmin }

// Credentials is the login form.
type Credentials struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Registration is the sign-up form.  Role defaults to RoleClient.
type Registration struct {
	Username string `json:"username" validate:"required,min=3"`
	Password string `json:"password" validate:"required,min=6"`
	FullName string `json:"fullName" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Role     string `json:"role,omitempty" validate:"omitempty,oneof=CLIENT ADMIN"`
}

// ProfileUpdate carries the editable profile fields.
type ProfileUpdate struct {
	FullName string `json:"fullName" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
}
