package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

const (
	minPasswordLength = 6
	maxPasswordLength = 72
)

// deadlineLayouts are tried in order when parsing a deadline.
var deadlineLayouts = []string{"2006-01-02", time.RFC3339Nano}

// RegisterInput is the registration request body.
type RegisterInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r RegisterInput) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required, validation.By(notBlank), validation.Length(1, 100)),
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required, validation.By(passwordLength)),
	)
}

// LoginInput is the login request body.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r LoginInput) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required, validation.By(passwordLength)),
	)
}

// ChangePasswordInput is the password change request body.
type ChangePasswordInput struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func (r ChangePasswordInput) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.CurrentPassword, validation.Required),
		validation.Field(&r.NewPassword, validation.Required, validation.By(passwordLength)),
	)
}

// TaskInput is the body of task create and update requests.
// Nil fields are absent from the request.
type TaskInput struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Deadline    *string `json:"deadline"`
}

// ValidateCreate requires a title and a deadline.
func (r TaskInput) ValidateCreate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.By(notBlank)),
		validation.Field(&r.Deadline, validation.Required, validation.By(validDeadline)),
	)
}

// ValidateUpdate checks only the fields that are present.
func (r TaskInput) ValidateUpdate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.NilOrNotEmpty, validation.By(notBlank)),
		validation.Field(&r.Deadline, validation.NilOrNotEmpty, validation.By(validDeadline)),
	)
}

func stringValue(value interface{}) (string, bool) {
	switch v := value.(type) {
	case string:
		return v, true
	case *string:
		if v == nil {
			return "", false
		}
		return *v, true
	}
	return "", false
}

func notBlank(value interface{}) error {
	s, ok := stringValue(value)
	if ok && strings.TrimSpace(s) == "" {
		return errors.New("cannot be blank")
	}
	return nil
}

func passwordLength(value interface{}) error {
	s, _ := stringValue(value)
	if n := len(strings.TrimSpace(s)); n < minPasswordLength {
		return fmt.Errorf("must be at least %d characters", minPasswordLength)
	}
	if len(s) > maxPasswordLength {
		return fmt.Errorf("must be at most %d bytes", maxPasswordLength)
	}
	return nil
}

func validDeadline(value interface{}) error {
	s, ok := stringValue(value)
	if !ok || s == "" {
		return nil
	}
	if _, err := parseDeadline(s); err != nil {
		return errors.New("must be a date (YYYY-MM-DD or RFC 3339)")
	}
	return nil
}

func parseDeadline(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	var lastErr error
	for _, layout := range deadlineLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t.UTC(), nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
