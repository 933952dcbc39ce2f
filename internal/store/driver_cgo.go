// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

//go:build !purego_sqlite

package store

import (
	_ "github.com/mattn/go-sqlite3"
)

const driverName = "sqlite3"

func dsn(path string) string {
	return path + "?_journal_mode=WAL&_foreign_keys=on"
}
