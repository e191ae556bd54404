package utils

import (
	"errors"
	"fmt"
	netmail "net/mail"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/joshualeeee/GetItDone/models"
)

var (
	usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_]{4,19}$`)
	emailPattern    = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,7}$`)
)

// DateLayout is the wire format of task completion dates.
const DateLayout = models.DateLayout

func ValidateUsername(username string) error {
	if !usernamePattern.MatchString(username) {
		return fmt.Errorf("%w: username must be 4-19 letters, digits or underscores", ErrInvalidInput)
	}
	return nil
}

func ValidateEmail(email string) error {
	addr, err := netmail.ParseAddress(email)
	if err != nil || addr.Address != email || !emailPattern.MatchString(email) {
		return fmt.Errorf("%w: invalid email address", ErrInvalidInput)
	}
	return nil
}

// ValidatePassword bounds the password to what bcrypt can hash.
func ValidatePassword(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("%w: password must be at least 8 characters long", ErrInvalidInput)
	}
	if len(password) > 72 {
		return fmt.Errorf("%w: password must be at most 72 bytes long", ErrInvalidInput)
	}
	return nil
}

// ValidateName checks a goal or task name.
func ValidateName(field, name string) error {
	if strings.TrimSpace(name) == "" || utf8.RuneCountInString(name) > 255 {
		return fmt.Errorf("%w: %s must be between 1 and 255 characters", ErrInvalidInput, field)
	}
	return nil
}

func ValidateTimeTaken(timeTaken int) error {
	if timeTaken < 0 {
		return fmt.Errorf("%w: time_taken must not be negative", ErrInvalidInput)
	}
	return nil
}

// ValidateCompletion enforces that a task is recorded as complete with both
// time_taken and date_completed, or with neither.
func ValidateCompletion(timeTaken *int, dateCompleted *time.Time) error {
	if (timeTaken == nil) != (dateCompleted == nil) {
		return fmt.Errorf("%w: completed tasks require time_taken and date_completed", ErrInvalidInput)
	}
	if timeTaken != nil {
		return ValidateTimeTaken(*timeTaken)
	}
	return nil
}

// ParseDate parses a YYYY-MM-DD completion date.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, errors.New("invalid date format, expected YYYY-MM-DD")
	}
	return d, nil
}
