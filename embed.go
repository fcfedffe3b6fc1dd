// Package subwatch exposes repository-level assets needed at runtime,
// currently the embedded database migrations.
package subwatch

import "embed"

// Migrations contains the goose migration files applied by the migrate
// command and by storage tests.
//
//go:embed migrations
var Migrations embed.FS
