// Package migrations embeds the schema for every supported SQL dialect.
package migrations

import "embed"

// FS holds one directory of ordered *.up.sql files per dialect.
//
//go:embed sqlite/*.sql postgres/*.sql
var FS embed.FS
