// Package migrations embeds the schema migration files for the
// corpus database.
package migrations

import "embed"

// FS holds the versioned *.sql migration files.
//
//go:embed *.sql
var FS embed.FS
