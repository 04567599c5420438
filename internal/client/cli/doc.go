// Package cli provides the interactive EmployCD client that runs as the
// shell's window.
//
// It wires configuration, the bridge to the host's secure storage, the
// backend session manager and the local card database, and runs a REPL
// until the user exits or the shell closes the window.
//
// Commands:
//   - login / logout / status / refresh
//   - create / list / search / show / delete for ID cards
//   - stats and company, both behind the entitlement gate
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
