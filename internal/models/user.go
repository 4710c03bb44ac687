package models

import (
	"time"

	"gorm.io/gorm"
)

// DateLayout is the calendar date format a date input submits.
const DateLayout = "2006-01-02"

// RegistrationRequest carries the six sign-up fields. It lives only for one
// submission and is handed to the sign-up boundary as is.
type RegistrationRequest struct {
	FirstName string `json:"firstName" form:"firstName" validate:"required"`
	LastName  string `json:"lastName" form:"lastName" validate:"required"`
	Username  string `json:"username" form:"username" validate:"required"`
	Email     string `json:"email" form:"email" validate:"required,email"`
	Password  string `json:"password" form:"password" validate:"required"`
	DOB       string `json:"dob" form:"dob" validate:"required,datetime=2006-01-02"`
}

// DateOfBirth parses the DOB field.
func (r RegistrationRequest) DateOfBirth() (time.Time, error) {
	return time.Parse(DateLayout, r.DOB)
}

// SignUpResponse is what the sign-up boundary answers with.
type SignUpResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// Account is a locally stored user account created through sign-up.
type Account struct {
	gorm.Model   `json:"-"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	Username     string    `json:"username" gorm:"uniqueIndex"`
	Email        string    `json:"email" gorm:"uniqueIndex"`
	PasswordHash string    `json:"-"`              // bcrypt hash, never serialized; empty for Firebase accounts
	ExternalID   string    `json:"-" gorm:"index"` // Firebase UID
	DateOfBirth  time.Time `json:"dob" gorm:"type:date"`
}

// UserProfile is the public view of an Account.
type UserProfile struct {
	ID        uint   `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	DOB       string `json:"dob"`
}

// Profile returns the public view of a.
func (a Account) Profile() UserProfile {
	return UserProfile{
		ID:        a.ID,
		FirstName: a.FirstName,
		LastName:  a.LastName,
		Username:  a.Username,
		Email:     a.Email,
		DOB:       a.DateOfBirth.Format(DateLayout),
	}
}
