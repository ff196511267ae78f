package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/rotisserie/eris"
)

// KVStore almacén clave/valor persistente (tabla kv). Hace de "local storage" de la interfaz web.
type KVStore struct {
	db *sql.DB
}

// NewKVStore construye el almacén sobre una base abierta con Open.
func NewKVStore(db *sql.DB) *KVStore {
	return &KVStore{db: db}
}

// GetItem devuelve el valor de key; ok == false si la clave no existe.
func (s *KVStore) GetItem(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, eris.Wrapf(err, "sqlite: get %s", key)
	}
	return value, true, nil
}

// SetItem crea o reemplaza el valor de key.
func (s *KVStore) SetItem(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, formatTime(time.Now()),
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: set %s", key)
	}
	return nil
}
