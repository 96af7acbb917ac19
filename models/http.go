package models

// Request and response bodies exchanged with the HTTP API. Shapes follow
// the public API contract; handlers decode into these and hand plain
// domain models to the service layer.

// RegisterRequest is the body of POST /api/auth/register.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// LoginRequest is the body of POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RefreshTokenRequest is the body of POST /api/auth/refresh-token.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// ForgotPasswordRequest is the body of POST /api/auth/forgot-password.
type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

// ResetPasswordRequest is the body of POST /api/auth/reset-password.
type ResetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}

// UserSummary is the redacted user representation embedded in auth
// responses.
type UserSummary struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
	Role  string `json:"role,omitempty"`
}

// MessageResponse is the generic `{message: ...}` body used by flows that
// only need to acknowledge the request.
type MessageResponse struct {
	Message string       `json:"message"`
	User    *UserSummary `json:"user,omitempty"`
}

// LoginResponse is the body of a successful POST /api/auth/login.
type LoginResponse struct {
	User         UserSummary `json:"user"`
	AccessToken  string      `json:"accessToken"`
	RefreshToken string      `json:"refreshToken"`
}

// SearchResult is one hit from the cross-collection keyword search.
// Collection names the entity type the hit came from.
type SearchResult struct {
	Collection string `json:"collection"`
	ID         string `json:"id"`
	Title      string `json:"title,omitempty"`
	Content    string `json:"content,omitempty"`
}
