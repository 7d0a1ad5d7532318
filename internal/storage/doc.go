// Package storage provides the BBolt database interface for vaultpad.
//
// Database structure uses two buckets:
//   - config: schema version, created/modified timestamps, vault id
//   - vault: credential (vp_pass), media collection (vp_media) and
//     text collection (vp_text)
//
// Each collection is stored as a single JSON array and every write replaces
// the whole array. Reads of a missing or unparsable collection return an
// empty one. Nothing is encrypted at rest.
//
// BBolt provides ACID transactions, file locking, and corruption detection.
package storage
