// Package postgres implements the store interfaces on PostgreSQL through
// database/sql and the pgx stdlib driver. It also owns the schema, shipped
// as embedded goose migrations.
package postgres
