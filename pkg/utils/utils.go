package utils

import (
	"crypto/rand"
	"database/sql"
	"math/big"
	"strings"
)

const tokenAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// ToNullString converts an empty string to an invalid sql.NullString.
func ToNullString(str string) sql.NullString {
	if str == "" {
		return sql.NullString{
			String: str,
			Valid:  false,
		}
	}
	return sql.NullString{
		String: str,
		Valid:  true,
	}
}

// GenerateRandomString returns a string of length n drawn from an
// alphanumeric alphabet using crypto/rand.
func GenerateRandomString(n int) (string, error) {
	var sb strings.Builder
	sb.Grow(n)
	limit := big.NewInt(int64(len(tokenAlphabet)))
	for i := 0; i < n; i++ {
		idx, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", err
		}
		sb.WriteByte(tokenAlphabet[idx.Int64()])
	}
	return sb.String(), nil
}

// MaskEmail hides the local part of an address except its first and last
// character, e.g. "john@example.com" becomes "j***n@example.com".
func MaskEmail(email string) string {
	at := strings.LastIndex(email, "@")
	if at < 0 {
		if len(email) <= 1 {
			return email
		}
		return email[:1] + "***"
	}
	local, domain := email[:at], email[at:]
	switch len(local) {
	case 0, 1:
		return email
	case 2:
		return local[:1] + "*" + local[1:] + domain
	}
	return local[:1] + "***" + local[len(local)-1:] + domain
}
