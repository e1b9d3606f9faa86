package user

// UserResponse represents user data in API responses
type UserResponse struct {
	ID       string  `json:"id"`
	Email    string  `json:"email"`
	Name     string  `json:"name"`
	IsAdmin  bool    `json:"isAdmin"`
	MemberID *string `json:"memberId,omitempty"`
}
