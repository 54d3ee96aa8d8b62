// Package migrations содержит SQL миграции, вшитые в бинарник
package migrations

import "embed"

// FS миграции goose
//
//go:embed *.sql
var FS embed.FS
