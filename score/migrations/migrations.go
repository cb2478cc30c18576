// Package migrations embeds the score database schema for goose.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
