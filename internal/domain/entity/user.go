package entity

import "time"

// UserType distinguishes citizens (reporters) from authorities, who may
// change issue statuses and post updates.
type UserType string

const (
	UserTypeCitizen   UserType = "citizen"
	UserTypeAuthority UserType = "authority"
)

// User is the aggregate root for the account domain.
// Passwords are stored as bcrypt hashes in Password.
//
// A user can authenticate only once Verified is true; the flag is flipped by
// the registration workflow after the Aadhaar check succeeds.
type User struct {
	ID        string
	Username  string
	Email     string
	Mobile    string
	Aadhaar   string
	Password  string
	Type      UserType
	Verified  bool
	AvatarURL string
	Bio       string
	JoinedAt  time.Time
}

// IsAuthority reports whether the user may manage issue lifecycles.
func (u *User) IsAuthority() bool {
	return u.Type == UserTypeAuthority
}
