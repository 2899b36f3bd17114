// Package migrations embeds the sql schema
// consumed by golang-migrate.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
