// Package pg bootstraps the PostgreSQL layer: connection pooling via pgx/v5,
// schema migrations via goose/v3, a health check, and common error helpers.
//
// Connect opens a *pgxpool.Pool from an environment-backed Config, retrying
// with backoff until the database becomes available. Migrate applies the SQL
// migrations from the configured directory, routing goose output through the
// application logger.
package pg
