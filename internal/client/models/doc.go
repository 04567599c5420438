// Package models defines the client-side data types: the signed-in user,
// the persisted session token, the subscription row, ID cards and company
// branding.
package models
