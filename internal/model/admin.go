package model

// Admin is an administrator account. Accounts are provisioned by the seed
// tooling and are read-only at runtime.
type Admin struct {
	ID           int64
	Username     string
	PasswordHash string
}

// LoginRequest is the DTO for admin login.
type LoginRequest struct {
	Username string `json:"username" validate:"required,notblank,max=255"`
	Password string `json:"password" validate:"required,max=255"`
}
