package pgsql

import "embed"

// Migrations holds the golang-migrate SQL files for the ledger schema.
//
//go:embed migrations/*.sql
var Migrations embed.FS
