// Package i18n translates the signup pages and resolves the request locale.
//
// Locales are written the way users store them ("fr_FR"); matching against
// Accept-Language goes through golang.org/x/text/language and translations are
// served from a golang.org/x/text/message/catalog builder.
package i18n
