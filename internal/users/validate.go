package users

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	emailRe  = regexp.MustCompile(`^\w+([.-]?\w+)*@\w+([.-]?\w+)*(\.\w{2,3})+$`)
	nameRe   = regexp.MustCompile(`^[a-zA-Z]{3,20}$`)
	numberRe = regexp.MustCompile(`^\d{10}$`)
)

const passwordSymbols = "!@#$%^&*()-+."

func ValidateEmail(email string) bool {
	return emailRe.MatchString(email)
}

func ValidateName(name string) bool {
	return nameRe.MatchString(name)
}

func ValidateNumber(number string) bool {
	return numberRe.MatchString(number)
}

// ValidatePassword requires 6-20 characters with at least one digit, one
// lowercase, one uppercase and one symbol from passwordSymbols.
func ValidatePassword(password string) bool {
	if len(password) < 6 || len(password) > 20 {
		return false
	}
	var digit, lower, upper, symbol bool
	for _, r := range password {
		switch {
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case strings.ContainsRune(passwordSymbols, r):
			symbol = true
		}
	}
	return digit && lower && upper && symbol
}
