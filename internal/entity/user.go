package entity

import "github.com/rocketscienceinc/boardgame-backend/internal/apperror"

const (
	minPasswordLength = 3
	maxPasswordLength = 64
)

// User is a registered account. PasswordHash holds the SHA-256 digest of the
// password; TurnsPlayed and TotalTime accumulate over accepted moves.
type User struct {
	Name         string `json:"name"`
	PasswordHash []byte `json:"-"`
	TurnsPlayed  int    `json:"turns_played"`
	TotalTime    int    `json:"total_time"`
}

// ValidatePassword - checks the password policy: 3-64 characters with at
// least one digit.
func ValidatePassword(password string) error {
	if len(password) < minPasswordLength || len(password) > maxPasswordLength {
		return apperror.ErrInvalidInput
	}

	for _, char := range password {
		if char >= '0' && char <= '9' {
			return nil
		}
	}

	return apperror.ErrInvalidInput
}
