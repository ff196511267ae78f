package repository

import (
	"context"
	"time"

	"github.com/jhoicas/prospection-api/internal/domain/entity"
)

// AnnotationRepository define el puerto de persistencia de las anotaciones del servidor (DIP).
// Las implementaciones viven en infrastructure (postgres, sqlite).
type AnnotationRepository interface {
	// GetBySirets devuelve los registros existentes indexados por SIRET; los ausentes no aparecen.
	GetBySirets(ctx context.Context, sirets []string) (map[string]*entity.AnnotationRecord, error)
	GetBySiret(ctx context.Context, siret string) (*entity.AnnotationRecord, error)
	// SaveStatut crea o sobrescribe el estado (última escritura gana).
	SaveStatut(ctx context.Context, siret string, statut entity.Statut, at time.Time, by string) error
	// SaveField crea o sobrescribe uno de los dos campos libres.
	SaveField(ctx context.Context, siret, field, value string, at time.Time, by string) error
}
