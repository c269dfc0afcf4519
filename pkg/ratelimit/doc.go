// Package ratelimit throttles signup and reset requests per client address,
// in memory or with counters shared through Redis.
package ratelimit
