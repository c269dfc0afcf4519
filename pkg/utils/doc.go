// Package utils provides small helpers shared by the signup packages.
//
//   - GenerateRandomString: crypto/rand alphanumeric tokens for reset and
//     invitation links
//   - MaskEmail: log-safe rendering of a login, "j***n@example.com"
//   - ToNullString: "" becomes SQL NULL
package utils
