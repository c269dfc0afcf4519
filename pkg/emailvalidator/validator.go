// Package emailvalidator checks the syntax of email addresses submitted as
// signup logins.
package emailvalidator

import (
	"strings"

	"github.com/asaskevich/govalidator"
)

// EmailValidator reports whether s is a syntactically valid email address.
type EmailValidator interface {
	IsValid(s string) bool
}

// Func adapts a plain function to EmailValidator.
type Func func(s string) bool

func (f Func) IsValid(s string) bool { return f(s) }

// Validator is the default EmailValidator. It accepts local-part@domain where
// the address passes govalidator.IsEmail and every domain label is a hostname
// label of letters, digits and hyphens. No DNS lookups are made.
type Validator struct{}

// New returns the default validator.
func New() Validator { return Validator{} }

func (Validator) IsValid(s string) bool {
	if s == "" || len(s) > 254 {
		return false
	}
	if strings.ContainsAny(s, " \t\r\n") {
		return false
	}
	at := strings.LastIndex(s, "@")
	if at <= 0 || at == len(s)-1 {
		return false
	}
	local, domain := s[:at], s[at+1:]
	if len(local) > 64 {
		return false
	}
	if !govalidator.IsEmail(s) {
		return false
	}
	return validDomain(domain)
}

func validDomain(domain string) bool {
	if !govalidator.IsDNSName(domain) {
		return false
	}
	labels := strings.Split(domain, ".")
	if len(labels) < 2 {
		return false
	}
	for _, label := range labels {
		if !validLabel(label) {
			return false
		}
	}
	return true
}

// validLabel accepts letters, digits and inner hyphens. An empty label
// (consecutive or trailing dots) is rejected.
func validLabel(label string) bool {
	if label == "" || len(label) > 63 {
		return false
	}
	if label[0] == '-' || label[len(label)-1] == '-' {
		return false
	}
	for i := 0; i < len(label); i++ {
		c := label[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-':
		default:
			return false
		}
	}
	return true
}
