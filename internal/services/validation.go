package services

import (
	"errors"
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"
)

// ValidationError reports the first field that failed validation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// AsValidation unwraps a *ValidationError from err.
func AsValidation(err error) (*ValidationError, bool) {
	var v *ValidationError
	ok := errors.As(err, &v)
	return v, ok
}

var (
	handleRegex    = regexp.MustCompile(`^[a-z0-9](?:[a-z0-9._]{1,28}[a-z0-9])?$`)
	handleStrip    = regexp.MustCompile(`[^a-z0-9._]+`)
	handleRepeats  = regexp.MustCompile(`[._]{2,}`)
	nameSeparators = regexp.MustCompile(`[^a-z0-9]+`)
	slugRegex      = regexp.MustCompile(`^[a-z0-9-]{3,}$`)
	currencyRegex  = regexp.MustCompile(`^[A-Z]{3}$`)
)

var reservedHandles = map[string]struct{}{}

var reservedHandleList = []string{
	"admin", "root", "owner", "support", "help", "contact", "about", "pricing", "price",
	"privacy", "terms", "tos", "api", "auth", "signin", "signup", "logout", "user", "users",
	"me", "profile", "dashboard", "wait-list", "waitlist", "settings", "_", "www",
}

func init() {
	for _, h := range reservedHandleList {
		reservedHandles[h] = struct{}{}
	}
}

// NormalizeHandle lowercases raw, drops characters outside [a-z0-9._],
// collapses separator runs into one dot and trims leading and trailing
// separators.
func NormalizeHandle(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = handleStrip.ReplaceAllString(s, "")
	s = handleRepeats.ReplaceAllString(s, ".")
	return strings.Trim(s, "._")
}

// HandleFromFullName derives a dotted handle such as "jane.doe". Names
// shorter than three characters get a ".user" suffix so the result always
// passes the handle length rule.
func HandleFromFullName(name string) string {
	s := nameSeparators.ReplaceAllString(strings.ToLower(name), ".")
	s = strings.Trim(s, ".")
	if len(s) > 30 {
		s = strings.Trim(s[:30], ".")
	}
	switch {
	case s == "":
		return "user"
	case len(s) < 3:
		return s + ".user"
	}
	return s
}

func IsReservedHandle(h string) bool {
	_, ok := reservedHandles[h]
	return ok
}

func validHandle(h string) error {
	switch {
	case len(h) < 3:
		return invalid("handle", "Username must be at least 3 characters")
	case len(h) > 30:
		return invalid("handle", "Username must be at most 30 characters")
	case !handleRegex.MatchString(h) || hasDoubleSeparator(h):
		return invalid("handle", "Username can use letters, numbers, dot or underscore; no leading/trailing separators.")
	}
	return nil
}

func hasDoubleSeparator(h string) bool {
	for _, pair := range []string{"..", "__", "._", "_."} {
		if strings.Contains(h, pair) {
			return true
		}
	}
	return false
}

// ValidSlug reports whether s is usable as a public page slug.
func ValidSlug(s string) bool {
	return slugRegex.MatchString(s) && !strings.HasPrefix(s, "-") && !strings.HasSuffix(s, "-")
}

func NormalizeSlug(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func validCurrency(c string) bool {
	return currencyRegex.MatchString(c)
}

// validHTTPURL accepts absolute http and https URLs.
func validHTTPURL(raw string) bool {
	if raw == "" || len(raw) > 2048 {
		return false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}

func optionalString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
