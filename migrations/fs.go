// Package migrations embeds the SQL schema migrations shipped with the
// binary. Files follow the NNN_name.up.sql / NNN_name.down.sql convention.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
