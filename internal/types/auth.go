package types

// SignupRequest is the body of POST /api/auth/signup.
type SignupRequest struct {
	UserID   string `json:"userId" validate:"required,identifier" example:"testuser1"`
	Password string `json:"password" validate:"required,strongpassword" example:"Passw0rd"`
	Username string `json:"username" validate:"required,displayname" example:"Tester"`
}

// LoginRequest is the body of POST /api/auth/login.
type LoginRequest struct {
	UserID   string `json:"userId" validate:"required" example:"testuser1"`
	Password string `json:"password" validate:"required" example:"Passw0rd"`
}

// AuthResponse is returned by signup and login.
type AuthResponse struct {
	Success bool        `json:"success" example:"true"`
	Message string      `json:"message" example:"Login successful"`
	Token   string      `json:"token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	User    *PublicUser `json:"user"`
}

// UserResponse is returned by GET /api/auth/me.
type UserResponse struct {
	Success bool        `json:"success" example:"true"`
	User    *PublicUser `json:"user"`
}

// Response is a plain acknowledgement.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// ErrorBody is the shape of every error response.
type ErrorBody struct {
	Error   string `json:"error" example:"invalid or expired token"`
	Message string `json:"message,omitempty"`
}
