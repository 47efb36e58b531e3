// Package migrations embeds the goose migrations for the local key-value
// store. Each supported dialect has its own directory named after the goose
// dialect.
package migrations

import "embed"

//go:embed sqlite3/*.sql postgres/*.sql
var Migrations embed.FS
