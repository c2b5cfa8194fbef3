// Package migrations содержит SQL-миграции схемы, встроенные в бинарник.
package migrations

import "embed"

// FS - файловая система с миграциями goose.
//
//go:embed *.sql
var FS embed.FS
