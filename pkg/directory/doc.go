// Package directory is the user directory behind signup.
//
// A DirectoryService creates users from signup values, issues invitations and
// password reset tokens, and emails the matching links through a Sender.
// Writes made inside Atomic are committed together or not at all; storage is
// provided by an InMemoryRepository or a PostgresRepository.
package directory
