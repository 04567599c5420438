// Package migrations embeds the goose migrations of the project Postgres
// database that backs the subscription lookup.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
