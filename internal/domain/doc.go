// Package domain provides the shared data model for dayplan.
//
// Templates are the persistent task definitions; instances are the transient
// per-date occurrences rebuilt on every load. Persisted records (execution
// entries, running records, day state) carry instance ids so an occurrence can
// be correlated with its history even when several instances share a template.
//
// This package follows strict import rules:
//   - CAN import: internal/constants, internal/errors, internal/timeslot,
//     internal/clock, standard library
//   - MUST NOT import: any other internal packages
//
// JSON field names match the on-disk record format (camelCase).
package domain
