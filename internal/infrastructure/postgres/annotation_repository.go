package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/prospection-api/internal/domain"
	"github.com/jhoicas/prospection-api/internal/domain/entity"
	"github.com/jhoicas/prospection-api/internal/domain/repository"
)

var _ repository.AnnotationRepository = (*AnnotationRepo)(nil)

const annotationColumns = `id::text, siret, statut, statut_modified_at, funbooster, observation, modified_by, created_at, updated_at`

// AnnotationRepo implementación de AnnotationRepository (usable con pool o tx).
type AnnotationRepo struct {
	q Querier
}

// NewAnnotationRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAnnotationRepository(q Querier) *AnnotationRepo {
	return &AnnotationRepo{q: q}
}

// GetBySirets devuelve las anotaciones existentes de los SIRET indicados.
func (r *AnnotationRepo) GetBySirets(ctx context.Context, sirets []string) (map[string]*entity.AnnotationRecord, error) {
	out := make(map[string]*entity.AnnotationRecord, len(sirets))
	if len(sirets) == 0 {
		return out, nil
	}
	query := `SELECT ` + annotationColumns + ` FROM annotations WHERE siret = ANY($1)`
	rows, err := r.q.Query(ctx, query, sirets)
	if err != nil {
		return nil, fmt.Errorf("list annotations: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		rec, err := scanAnnotation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan annotation: %w", err)
		}
		out[rec.Siret] = rec
	}
	return out, rows.Err()
}

// GetBySiret obtiene la anotación de un SIRET; nil si nunca se anotó.
func (r *AnnotationRepo) GetBySiret(ctx context.Context, siret string) (*entity.AnnotationRecord, error) {
	query := `SELECT ` + annotationColumns + ` FROM annotations WHERE siret = $1`
	rec, err := scanAnnotation(r.q.QueryRow(ctx, query, siret))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get annotation: %w", err)
	}
	return rec, nil
}

// SaveStatut crea la fila o sobrescribe el estado (última escritura gana).
func (r *AnnotationRepo) SaveStatut(ctx context.Context, siret string, statut entity.Statut, at time.Time, by string) error {
	query := `
		INSERT INTO annotations (id, siret, statut, statut_modified_at, modified_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $4, $4)
		ON CONFLICT (siret) DO UPDATE SET
			statut = EXCLUDED.statut,
			statut_modified_at = EXCLUDED.statut_modified_at,
			modified_by = EXCLUDED.modified_by,
			updated_at = EXCLUDED.updated_at`
	if _, err := r.q.Exec(ctx, query, uuid.New().String(), siret, string(statut), at, by); err != nil {
		return fmt.Errorf("upsert statut: %w", err)
	}
	return nil
}

// SaveField crea la fila o sobrescribe uno de los dos campos libres.
func (r *AnnotationRepo) SaveField(ctx context.Context, siret, field, value string, at time.Time, by string) error {
	column, err := fieldColumn(field)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO annotations (id, siret, ` + column + `, modified_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
		ON CONFLICT (siret) DO UPDATE SET
			` + column + ` = EXCLUDED.` + column + `,
			modified_by = EXCLUDED.modified_by,
			updated_at = EXCLUDED.updated_at`
	if _, err := r.q.Exec(ctx, query, uuid.New().String(), siret, value, by, at); err != nil {
		return fmt.Errorf("upsert %s: %w", field, err)
	}
	return nil
}

// fieldColumn traduce el nombre de campo de la API a columna (lista cerrada, nunca interpolar entrada libre).
func fieldColumn(field string) (string, error) {
	switch field {
	case entity.FieldFunbooster:
		return "funbooster", nil
	case entity.FieldObservation:
		return "observation", nil
	}
	return "", domain.ErrInvalidField
}

func scanAnnotation(row pgx.Row) (*entity.AnnotationRecord, error) {
	var rec entity.AnnotationRecord
	var statut string
	if err := row.Scan(
		&rec.ID, &rec.Siret, &statut, &rec.StatutModifiedAt, &rec.Funbooster, &rec.Observation,
		&rec.ModifiedBy, &rec.CreatedAt, &rec.UpdatedAt,
	); err != nil {
		return nil, err
	}
	rec.Statut = entity.Statut(statut)
	return &rec, nil
}
