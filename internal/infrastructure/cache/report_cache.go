// Package cache holds the report cache used by the ledger read side.
//
// Entries are keyed under an epoch. Any balance write bumps the epoch, which
// orphans every cached report at once; orphans expire by TTL.
package cache

import "context"

const keyPrefix = "flock:report"

// ReportCache stores serialized reports.
type ReportCache interface {
	// Get decodes the entry for key into dst. ok is false on a miss.
	Get(ctx context.Context, key string, dst any) (ok bool, err error)
	Set(ctx context.Context, key string, value any) error
	// Invalidate drops every cached report.
	Invalidate(ctx context.Context) error
}
