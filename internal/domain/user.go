package domain

import (
	"regexp"
	"strings"
	"time"
)

var (
	RgxEmail = regexp.MustCompile("^[a-zA-Z0-9.!#$%&'*+/=?^_`{|}~-]+@[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?(?:\\.[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)*$")
)

type User struct {
	ID           string    `json:"id"            db:"id"`
	FirstName    string    `json:"firstName"     db:"first_name"`
	LastName     string    `json:"lastName"      db:"last_name"`
	Email        string    `json:"email"         db:"email"`
	Bio          string    `json:"bio,omitempty" db:"bio"`
	AvatarURL    string    `json:"profileImage"  db:"avatar_url"`
	ActiveStatus bool      `json:"activeStatus"  db:"active_status"`
	Followers    int       `json:"followerCount" db:"-"`
	Following    int       `json:"followCount"   db:"-"`
	CreatedAt    time.Time `json:"createdAt"     db:"created_at"`
}

func (u *User) DisplayName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Email
	}
	return name
}

// UserRef is the slim participant view the messaging service exchanges.
type UserRef struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	AvatarURL string `json:"profileImage"`
}

func (u *User) Ref() UserRef {
	return UserRef{ID: u.ID, Name: u.DisplayName(), AvatarURL: u.AvatarURL}
}

// DTOs

type UserRegister struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

type UserAuth struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UserUpdate struct {
	FirstName    string `json:"firstName,omitempty"`
	LastName     string `json:"lastName,omitempty"`
	Bio          string `json:"bio,omitempty"`
	AvatarURL    string `json:"profileImage,omitempty"`
	ActiveStatus *bool  `json:"activeStatus,omitempty"`
}

type PasswordReset struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

func ValidateName(name string, ev *ErrValidation) {
	ev.Evaluate(name != "", "name", "must be provided")
	ev.Evaluate(len(name) <= 30, "name", "must be no more than 30 bytes long")
}

func ValidateEmail(email string, ev *ErrValidation) {
	ev.Evaluate(email != "", "email", "must be provided")
	if len(email) > 254 || !RgxEmail.MatchString(email) {
		ev.AddError("email", "must be a valid email address")
	}
}

func ValidPlainPassword(pass string, ev *ErrValidation) {
	ev.Evaluate(pass != "", "password", "must be provided")
	ev.Evaluate(pass == "" || len(pass) >= 8, "password", "must be at least 8 bytes long")
	ev.Evaluate(len(pass) <= 72, "password", "must not be more than 72 bytes long")
}

func ValidateOTP(otp string, ev *ErrValidation) {
	ev.Evaluate(len(otp) == 4, "otp", "must be 4 digits long")
	for _, r := range otp {
		if r < '0' || r > '9' {
			ev.AddError("otp", "must only contain digits")
			break
		}
	}
}
