package validate

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"frieren/internal/domain"
)

// These patterns are shared with the intake form and must stay identical.
var (
	rePersonName = regexp.MustCompile(`^[a-zA-Z\s]+$`)
	rePhoneIN    = regexp.MustCompile(`^[6-9]\d{9}$`)
)

const (
	NameMin     = 2
	NameMax     = 100
	FreeTextMax = 2000
	UsernameMin = 3
	UsernameMax = 50
	PasswordMin = 6
	PasswordMax = 72 // bcrypt input limit
)

// PersonName validates a client name: letters and spaces, 2-100 characters.
func PersonName(s string) (string, bool) {
	s = strings.TrimSpace(s)
	n := utf8.RuneCountInString(s)
	if n < NameMin || n > NameMax {
		return "", false
	}
	return s, rePersonName.MatchString(s)
}

// Phone validates a 10-digit Indian mobile number.
func Phone(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, rePhoneIN.MatchString(s)
}

// Email runs the same rule Order applies to clientEmail.
func Email(s string) (string, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return "", false
	}
	return s, orders.Var(s, "required,email") == nil
}

// Username normalises to lower case and enforces the admin username window.
func Username(s string) (string, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	n := utf8.RuneCountInString(s)
	return s, n >= UsernameMin && n <= UsernameMax
}

// Password enforces a simple length window for login checks.
func Password(s string) bool {
	l := len(s)
	return l >= PasswordMin && l <= PasswordMax
}

// Status validates an order status value.
func Status(s string) (domain.Status, bool) {
	st := domain.Status(strings.TrimSpace(s))
	return st, st.Valid()
}

// FreeText trims and enforces the free-text length cap.
func FreeText(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, utf8.RuneCountInString(s) <= FreeTextMax
}
