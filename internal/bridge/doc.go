// Package bridge is the narrow request/response channel between the UI
// process and the privileged shell process.
//
// The shell serves a single gRPC service, employcd.bridge.v1.SecureStorage,
// on a unix socket that only the current user can open. Messages are
// protobuf well-known types, so no generated code is involved:
//
//	Set(Struct{"key": string, "value": string}) -> BoolValue
//	Get(StringValue key)                        -> Value (string | null)
//	Delete(StringValue key)                     -> BoolValue
//
// A server interceptor whitelists these methods plus the standard health
// check. The symmetric key and the on-disk record format never cross the
// socket.
//
// Client is the UI-side handle. Its methods never return errors: an
// unreachable shell degrades to nil/false, matching the store contract.
package bridge
