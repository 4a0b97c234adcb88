package users

// SignUpRequest represents the data needed to register a user
type SignUpRequest struct {
	Username       string `json:"username" binding:"required"`
	Password       string `json:"password" binding:"required"`
	ProfilePicture string `json:"profilePicture"`
}

// SignInRequest carries the credentials of an existing user
type SignInRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}
