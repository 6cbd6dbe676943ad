package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// User is a staff account allowed to sign in to the dashboard
type User struct {
	ID           int64      `json:"id" db:"id"`
	Username     string     `json:"username" db:"username" validate:"required,max=150"`
	Email        string     `json:"email,omitempty" db:"email" validate:"omitempty,email,max=254"`
	PasswordHash string     `json:"-" db:"password_hash"`
	IsActive     bool       `json:"isActive" db:"is_active"`
	LastLogin    *time.Time `json:"lastLogin,omitempty" db:"last_login"`
	CreatedAt    time.Time  `json:"createdAt" db:"created_at"`
}

// MinPasswordLength is the shortest password createuser accepts
const MinPasswordLength = 8

// NewUser creates an active user with the given password
func NewUser(username, email, password string) (*User, error) {
	u := &User{
		Username:  SanitizeString(username),
		Email:     SanitizeString(email),
		IsActive:  true,
		CreatedAt: time.Now().UTC(),
	}
	if err := u.SetPassword(password); err != nil {
		return nil, err
	}
	return u, nil
}

// SetPassword stores a bcrypt hash of password
func (u *User) SetPassword(password string) error {
	if len(password) < MinPasswordLength {
		return &ValidationError{Field: "password", Message: "パスワードは8文字以上で入力してください。"}
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return nil
}

// CheckPassword reports whether password matches the stored hash
func (u *User) CheckPassword(password string) bool {
	if u.PasswordHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// Validate validates the user data
func (u *User) Validate() error {
	return ValidateStruct(u)
}
