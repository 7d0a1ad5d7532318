// Package core provides the vaultpad gating state machine and the two vaults.
//
// Core operations include:
//   - Gate: primary unlock, per-section reauth, password change, reset
//   - MediaVault: queue and upload photos, reveal/hide, open one photo
//   - TextVault: save, reveal/hide, view, copy and delete notes
//   - App: one application run wiring a fresh Session to all of the above
//
// A Session starts locked on every run. The stored credential and a fixed
// numeric fallback PIN both unlock; only the stored credential authorizes a
// password change. Content is not encrypted.
package core
