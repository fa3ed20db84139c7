package dto

type SignInRequest struct {
	Email string `json:"email"`
}

type RegisterRequest struct {
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	Email     string  `json:"email"`
	Phone     *string `json:"phone,omitempty"`
	Address   *string `json:"address,omitempty"`
}

type SessionResponse struct {
	Token     string `json:"token"`
	UserID    string `json:"userId"`
	Kind      string `json:"kind"`
	Role      string `json:"role,omitempty"`
	ExpiresAt string `json:"expiresAt"`
}

type CreateAdminRequest struct {
	Email    string `json:"email"`
	FullName string `json:"fullName"`
	Role     string `json:"role"`
}
