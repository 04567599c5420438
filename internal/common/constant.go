// Package common contains shared constants and sentinel errors used across
// EmployCD components.
package common

// AuthTokenKey is the Credential Store key holding the serialized session token.
const AuthTokenKey = "auth_token"

// BridgeSocketEnv names the environment variable through which the shell
// hands the bridge socket path to the UI process it launches.
const BridgeSocketEnv = "EMPLOYCD_SOCKET"

// AppName is used for the private per-application data directory.
const AppName = "employcd"

// SocketFileName is the bridge socket created inside the data directory when
// no explicit socket path is configured.
const SocketFileName = "bridge.sock"

// DataDirEnv overrides the private data directory for every binary.
const DataDirEnv = "EMPLOYCD_DATA_DIR"
