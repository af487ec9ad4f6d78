package postgres

import "embed"

// MigrationsDir is the goose directory inside MigrationsFS.
const MigrationsDir = "migrations"

// MigrationTableName is the goose version table.
const MigrationTableName = "schema_migrations"

// MigrationsFS holds the SQL migrations compiled into the binary.
//
//go:embed migrations/*.sql
var MigrationsFS embed.FS
