package postgres

// Query defaults
const (
	DefaultListLimit = 20
)

// PostgreSQL error codes
const (
	PgErrCodeUniqueViolation = "23505"
)
