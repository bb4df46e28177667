// Package migrations embeds the SQL schema applied by the durable backend
// at startup.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
