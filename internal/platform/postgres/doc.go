// Package postgres provides PostgreSQL-specific implementations for the data
// storage interfaces defined in the internal/store package, plus the embedded
// goose migrations that create their schema. Queries go through database/sql
// with the pgx driver, and driver errors are mapped onto store sentinels.
package postgres
