// Package securestore implements the Credential Store that lives in the
// privileged shell process.
//
// # Layout
//
// All state lives in one private directory:
//
//	<dir>/.key               hex-encoded 32-byte AES key, created on first open
//	<dir>/secure-<key>.dat   one record per logical key: "ivHex:cipherHex"
//
// # Contract
//
// Set, Get and Delete never return errors. Set and Delete report success as a
// bool; Get returns nil for a missing record and for a record that cannot be
// decrypted (corruption, key mismatch). Failures are logged with the logical
// key name, never with the value.
//
// The symmetric key never leaves the process. Open fails when the key can be
// neither loaded nor created; there is no fallback key.
package securestore
