package api

type RegisterRequest struct {
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	Password    string `json:"password"`
}

type RegisterResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

type LogoutRequest struct{}

type LogoutResponse struct{}

type GetCurrentUserRequest struct{}

type GetCurrentUserResponse struct {
	User *User `json:"user"`
}

// UpdateProfileRequest replaces the caller's display name and UPI ID.
// An empty DisplayName keeps the current one.
type UpdateProfileRequest struct {
	DisplayName string `json:"displayName"`
	UpiId       string `json:"upiId"`
}

type UpdateProfileResponse struct {
	User *User `json:"user"`
}
