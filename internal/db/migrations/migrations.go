// Package migrations embebe los scripts SQL aplicados por goose.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
