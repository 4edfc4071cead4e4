package db

import "database/sql"

// DBProvider hands out a connected sql.DB. PostgresClient and SupabaseClient
// (in direct mode) both satisfy it, so SQLAuditStore works on either.
type DBProvider interface {
	DB() *sql.DB
}
