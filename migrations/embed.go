// Package migrations embeds the goose SQL migrations of the export schema.
package migrations

import "embed"

// FS holds every *.sql migration at the root of the package directory.
//
//go:embed *.sql
var FS embed.FS
