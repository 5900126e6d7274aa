// Package migrations embeds the goose SQL migrations applied before the
// first database use.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
