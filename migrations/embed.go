// Package migrations embeds the SQL schema so the binary can migrate the
// database at startup without shipping files alongside it.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
