// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

//go:build purego_sqlite

// Pure Go SQLite for builds without CGO: go build -tags purego_sqlite

package store

import (
	_ "modernc.org/sqlite"
)

const driverName = "sqlite"

func dsn(path string) string {
	return "file:" + path + "?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)"
}
