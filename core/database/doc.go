// Package database handles connections to the two databases under audit.
//
// The generic Connect function opens a database/sql pool for the configured
// driver (Oracle, MySQL or Postgres), applies pool limits sized to the
// audit worker count, and verifies the connection with a bounded ping.
// The audit never writes to either side; pools are used read-only.
//
// # Usage
//
//	db, err := database.Connect(ctx, cfg.OldDatabase)
//	if err != nil {
//	    // fatal: no table on this side can be processed
//	}
package database
