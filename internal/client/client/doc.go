// Package client contains the client-side building blocks that talk to the
// outside world.
//
// # Overview
//
//  1. A transport-agnostic backend contract (see the Client interface):
//     SignIn, SignOut, GetCurrentUser, GetSubscription and Ping.
//  2. A concrete implementation for a Supabase-compatible backend (see
//     SupabaseClient): GoTrue endpoints under /auth/v1 and the PostgREST
//     subscriptions table under /rest/v1.
//  3. Local persistence bootstrap (InitDatabase, RunMigrations) opening the
//     SQLite card database and applying embedded goose migrations.
//
// # Error Handling
//
// HTTP failures are mapped to sentinel errors that callers match with
// errors.Is: ErrUnauthorized (400/401/403/422), ErrNotFound (404) and
// ErrUnavailable (transport errors, timeouts, 408/429/5xx). A sign-in
// response without a session yields common.ErrNoSession.
//
// A missing subscription row is not an error: GetSubscription returns nil.
package client
