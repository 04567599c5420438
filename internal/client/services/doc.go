// Package services contains the application services of the EmployCD UI
// process: token persistence through the Credential Store, the session and
// entitlement manager, ID card management with statistics, and company
// branding.
//
// The Credential Store is reached only through the SecureStorage interface,
// which bridge.Client implements. Storage failures degrade to "no token"
// and never surface as panics.
package services
