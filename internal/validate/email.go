package validate

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// MaxEmailLength matches the width of the users.email column.
const MaxEmailLength = 255

const (
	MsgInvalidEmail  = "Enter a valid email address."
	MsgEmailRequired = "Users must have an email address."
)

var MsgEmailTooLong = fmt.Sprintf("Ensure this field has no more than %d characters.", MaxEmailLength)

// NormalizeEmail trims surrounding whitespace and lower-cases the domain part.
// The local part is kept as typed.
func NormalizeEmail(email string) string {
	email = strings.TrimSpace(email)

	at := strings.LastIndex(email, "@")
	if at < 0 {
		return email
	}
	return email[:at] + "@" + strings.ToLower(email[at+1:])
}

// Email validates an address after trimming. The domain must be a fully
// qualified name, so "user@localhost" is rejected.
func (val *Validator) Email(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return FieldError("email", MsgEmailRequired)
	}
	if utf8.RuneCountInString(email) > MaxEmailLength {
		return FieldError("email", MsgEmailTooLong)
	}

	at := strings.LastIndex(email, "@")
	if at <= 0 || at == len(email)-1 {
		return FieldError("email", MsgInvalidEmail)
	}

	if err := val.v.Var(email, "email"); err != nil {
		return FieldError("email", MsgInvalidEmail)
	}
	if err := val.v.Var(email[at+1:], "fqdn"); err != nil {
		return FieldError("email", MsgInvalidEmail)
	}
	return nil
}
