package postgres

import "embed"

// MigrationsDir is the directory inside Migrations holding goose SQL files.
const MigrationsDir = "migrations"

// Migrations holds the schema as goose SQL migrations.
//
//go:embed migrations/*.sql
var Migrations embed.FS
