// Package migrations compiles the SQL migration files into the binary
// so deployments never depend on loose .sql files.
//
// Importing this package (blank import from cmd/lockmapd) registers
// the embedded filesystem with the database package.
package migrations

import (
	"embed"

	"github.com/lastlock/lockmap-core/internal/infrastructure/database"
)

//go:embed *.sql
var files embed.FS

func init() {
	database.MigrationsFS = files
	database.MigrationsDir = "."
}
