package migrations

import "embed"

// FS holds the Postgres migrations (goose, under postgres/) and the
// ClickHouse migrations (golang-migrate, under analytics/).
//
//go:embed postgres/*.sql analytics/*.sql
var FS embed.FS

const (
	PostgresDir  = "postgres"
	AnalyticsDir = "analytics"
)
