// Package session stores the anti-forgery token of the signup forms in a
// signed cookie and checks it on form posts.
package session
