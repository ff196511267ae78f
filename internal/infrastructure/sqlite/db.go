// Package sqlite persiste las anotaciones del servidor y el almacén clave/valor local de la interfaz
// en un archivo SQLite (modernc.org/sqlite, sin cgo).
package sqlite

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"
)

// Open abre (o crea) la base en path, configura WAL y aplica la migración.
// path ":memory:" abre una base efímera de una sola conexión.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, eris.Wrapf(err, "sqlite: create dir %s", dir)
			}
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	if path == ":memory:" {
		// Cada conexión nueva sería otra base vacía.
		db.SetMaxOpenConns(1)
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	if _, err := db.ExecContext(ctx, migration); err != nil {
		db.Close()
		return nil, eris.Wrap(err, "sqlite: migrate")
	}
	return db, nil
}

const migration = `
CREATE TABLE IF NOT EXISTS annotations (
	id                 TEXT PRIMARY KEY,
	siret              TEXT NOT NULL UNIQUE,
	statut             TEXT NOT NULL DEFAULT 'A traiter',
	statut_modified_at TEXT,
	funbooster         TEXT NOT NULL DEFAULT '',
	observation        TEXT NOT NULL DEFAULT '',
	modified_by        TEXT NOT NULL DEFAULT '',
	created_at         TEXT NOT NULL,
	updated_at         TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS kv (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	updated_at TEXT NOT NULL
);
`
