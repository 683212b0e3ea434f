package validate

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	reEmail  = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
	reID     = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)
	reHostel = regexp.MustCompile(`^[A-Za-z0-9 .'\-]{1,40}$`)
	reRoom   = regexp.MustCompile(`^[A-Za-z0-9\-]{1,10}$`)
	reCode   = regexp.MustCompile(`^[0-9]{6}$`)
)

// ID validates a simple resource identifier (listing/order/product ids).
func ID(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && reID.MatchString(s)
}

func Email(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if len(s) == 0 || len(s) > 50 {
		return "", false
	}
	return s, reEmail.MatchString(s)
}

// Hostel validates a delivery hostel name.
func Hostel(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && reHostel.MatchString(s)
}

// Room validates a hostel room label (e.g. "B-214").
func Room(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && reRoom.MatchString(s)
}

// Qty parses a quantity, clamping to [1,50].
func Qty(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return 1
	}
	if n > 50 {
		return 50
	} // clamp to avoid abuse
	return n
}

// Rating parses a review rating; ok is false outside [1,5].
func Rating(n int) bool { return n >= 1 && n <= 5 }

// Code validates a 6-digit delivery verification code.
func Code(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, reCode.MatchString(s)
}

// Comment trims and caps a review comment.
func Comment(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > 500 {
		s = s[:500]
	}
	return s
}

// Password enforces a simple strength window for login checks.
func Password(s string) bool {
	l := len(s)
	if l < 8 || l > 20 {
		return false
	}
	var hasLower, hasUpper, hasDigit, hasSymbol bool
	for _, r := range s {
		switch {
		case 'a' <= r && r <= 'z':
			hasLower = true
		case 'A' <= r && r <= 'Z':
			hasUpper = true
		case '0' <= r && r <= '9':
			hasDigit = true
		default:
			hasSymbol = true
		}
	}
	return hasLower && hasUpper && hasDigit && hasSymbol
}
