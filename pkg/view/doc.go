// Package view renders the signup and reset password pages.
package view
