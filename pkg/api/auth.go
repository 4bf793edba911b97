// Package api holds the JSON request and response bodies of the /api/v1
// HTTP interface. The server and the command-line client share them.
package api

// RegisterRequest представляет запрос на регистрацию нового пользователя
type RegisterRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// LoginRequest принимает username или email вместе с паролем
type LoginRequest struct {
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
	Password string `json:"password"`
}

// Identifier returns the username, or the email when no username was sent
func (r LoginRequest) Identifier() string {
	if r.Username != "" {
		return r.Username
	}
	return r.Email
}

// CredentialsResponse is returned by register and login. APIKey together
// with the username forms the ApiKey credential.
type CredentialsResponse struct {
	User   UserResponse `json:"user"`
	APIKey string       `json:"api_key"`
}

// SetPasswordRequest changes the caller's password
type SetPasswordRequest struct {
	Password     string `json:"password"`
	Confirmation string `json:"confirmation"`
}

// ResetRequest asks for a password reset link
type ResetRequest struct {
	Email string `json:"email"`
}

// ResetConfirmRequest redeems a reset token
type ResetConfirmRequest struct {
	Token        string `json:"token"`
	NewPassword  string `json:"new_password"`
	Confirmation string `json:"confirmation"`
}

// MessageResponse is a plain acknowledgement.
// Warning is set when the request succeeded only partially.
type MessageResponse struct {
	Message string `json:"message"`
	Warning string `json:"warning,omitempty"`
}

// ErrorResponse представляет ответ с ошибкой
type ErrorResponse struct {
	Error   string `json:"error"`             // stable machine-readable code
	Message string `json:"message,omitempty"` // human-readable detail
	Field   string `json:"field,omitempty"`   // offending input field, for validation errors
}

// HealthResponse представляет ответ health check
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}
