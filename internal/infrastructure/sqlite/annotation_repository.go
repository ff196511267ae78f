package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/rotisserie/eris"

	"github.com/jhoicas/prospection-api/internal/domain"
	"github.com/jhoicas/prospection-api/internal/domain/entity"
	"github.com/jhoicas/prospection-api/internal/domain/repository"
)

var _ repository.AnnotationRepository = (*AnnotationRepo)(nil)

var annotationColumns = []string{
	"id", "siret", "statut", "statut_modified_at", "funbooster", "observation", "modified_by", "created_at", "updated_at",
}

// AnnotationRepo implementación SQLite de AnnotationRepository. Las fechas se guardan como texto RFC 3339 en UTC.
type AnnotationRepo struct {
	db *sql.DB
}

// NewAnnotationRepository construye el adaptador sobre una base abierta con Open.
func NewAnnotationRepository(db *sql.DB) *AnnotationRepo {
	return &AnnotationRepo{db: db}
}

// GetBySirets devuelve las anotaciones existentes de los SIRET indicados.
func (r *AnnotationRepo) GetBySirets(ctx context.Context, sirets []string) (map[string]*entity.AnnotationRecord, error) {
	out := make(map[string]*entity.AnnotationRecord, len(sirets))
	if len(sirets) == 0 {
		return out, nil
	}
	query, args, err := sq.Select(annotationColumns...).From("annotations").Where(sq.Eq{"siret": sirets}).ToSql()
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: build annotations query")
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list annotations")
	}
	defer rows.Close()
	for rows.Next() {
		rec, err := scanAnnotation(rows)
		if err != nil {
			return nil, err
		}
		out[rec.Siret] = rec
	}
	return out, eris.Wrap(rows.Err(), "sqlite: iterate annotations")
}

// GetBySiret obtiene la anotación de un SIRET; nil si nunca se anotó.
func (r *AnnotationRepo) GetBySiret(ctx context.Context, siret string) (*entity.AnnotationRecord, error) {
	query, args, err := sq.Select(annotationColumns...).From("annotations").Where(sq.Eq{"siret": siret}).ToSql()
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: build annotation query")
	}
	rec, err := scanAnnotation(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return rec, err
}

// SaveStatut crea la fila o sobrescribe el estado (última escritura gana).
func (r *AnnotationRepo) SaveStatut(ctx context.Context, siret string, statut entity.Statut, at time.Time, by string) error {
	ts := formatTime(at)
	query, args, err := sq.Insert("annotations").
		Columns("id", "siret", "statut", "statut_modified_at", "modified_by", "created_at", "updated_at").
		Values(uuid.New().String(), siret, string(statut), ts, by, ts, ts).
		Suffix(`ON CONFLICT(siret) DO UPDATE SET
			statut = excluded.statut,
			statut_modified_at = excluded.statut_modified_at,
			modified_by = excluded.modified_by,
			updated_at = excluded.updated_at`).
		ToSql()
	if err != nil {
		return eris.Wrap(err, "sqlite: build statut upsert")
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return eris.Wrapf(err, "sqlite: upsert statut %s", siret)
	}
	return nil
}

// SaveField crea la fila o sobrescribe uno de los dos campos libres.
func (r *AnnotationRepo) SaveField(ctx context.Context, siret, field, value string, at time.Time, by string) error {
	var column string
	switch field {
	case entity.FieldFunbooster:
		column = "funbooster"
	case entity.FieldObservation:
		column = "observation"
	default:
		return domain.ErrInvalidField
	}
	ts := formatTime(at)
	query, args, err := sq.Insert("annotations").
		Columns("id", "siret", column, "modified_by", "created_at", "updated_at").
		Values(uuid.New().String(), siret, value, by, ts, ts).
		Suffix(`ON CONFLICT(siret) DO UPDATE SET ` + column + ` = excluded.` + column + `,
			modified_by = excluded.modified_by,
			updated_at = excluded.updated_at`).
		ToSql()
	if err != nil {
		return eris.Wrap(err, "sqlite: build field upsert")
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return eris.Wrapf(err, "sqlite: upsert %s %s", field, siret)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAnnotation(s scanner) (*entity.AnnotationRecord, error) {
	var (
		rec                  entity.AnnotationRecord
		statut               string
		statutAt             sql.NullString
		createdAt, updatedAt string
	)
	err := s.Scan(&rec.ID, &rec.Siret, &statut, &statutAt, &rec.Funbooster, &rec.Observation, &rec.ModifiedBy, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: scan annotation")
	}
	rec.Statut = entity.Statut(statut)
	if statutAt.Valid && statutAt.String != "" {
		t, err := parseTime(statutAt.String)
		if err != nil {
			return nil, err
		}
		rec.StatutModifiedAt = &t
	}
	if rec.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if rec.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &rec, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, eris.Wrapf(err, "sqlite: parse time %q", s)
	}
	return t, nil
}
