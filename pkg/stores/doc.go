// Package stores provides the persistence layer for processing runs,
// writeback audit trails, part baselines, and events, backed by SQLite
// with embedded schema migrations.
package stores
