// Package timeouts provides the per-handler deadlines for database work.
//
// Handlers wrap their request context with one of these tiers instead of
// picking ad-hoc durations, so a slow Mongo node degrades every endpoint
// the same way.
//
// Guidelines for choosing a tier:
//   - Ping: health checks and connectivity verification
//   - Short: single-document reads or writes
//   - Medium: list queries, permission lookups, multi-step reads
//   - Long: cascading deletes and other multi-collection writes
package timeouts

import "time"

const (
	ping   = 2 * time.Second
	short  = 5 * time.Second
	medium = 10 * time.Second
	long   = 30 * time.Second
)

// Ping returns the timeout for health checks.
func Ping() time.Duration { return ping }

// Short returns the timeout for single-document operations.
func Short() time.Duration { return short }

// Medium returns the timeout for list queries and multi-step reads.
func Medium() time.Duration { return medium }

// Long returns the timeout for multi-collection writes.
func Long() time.Duration { return long }
