package prospection

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/prospection-api/internal/application/dto"
	"github.com/jhoicas/prospection-api/internal/domain"
	"github.com/jhoicas/prospection-api/internal/domain/entity"
	"github.com/jhoicas/prospection-api/internal/domain/repository"
)

// AnnotationUseCase persiste y fusiona las anotaciones del servidor (estado + campos libres).
// Es la única fuente de verdad: la búsqueda devuelve los registros ya fusionados.
type AnnotationUseCase struct {
	repo repository.AnnotationRepository
	loc  *time.Location
	now  func() time.Time
}

// NewAnnotationUseCase construye el caso de uso. loc es la zona de las fechas mostradas (nil = UTC).
func NewAnnotationUseCase(repo repository.AnnotationRepository, loc *time.Location) *AnnotationUseCase {
	if loc == nil {
		loc = time.UTC
	}
	return &AnnotationUseCase{repo: repo, loc: loc, now: time.Now}
}

// WithClock sustituye el reloj (tests).
func (uc *AnnotationUseCase) WithClock(now func() time.Time) *AnnotationUseCase {
	uc.now = now
	return uc
}

// SaveStatut crea o sobrescribe el estado de un SIRET y devuelve la fecha formateada.
// Un SIRET vacío es una clave válida: todas las filas sin SIRET comparten la anotación.
func (uc *AnnotationUseCase) SaveStatut(ctx context.Context, in dto.SaveStatutRequest, by string) (*dto.SaveStatutResponse, error) {
	siret := strings.TrimSpace(in.Siret)
	if !entity.IsKnownStatut(in.Statut) {
		return nil, domain.ErrInvalidInput
	}
	at := uc.now()
	if err := uc.repo.SaveStatut(ctx, siret, entity.ParseStatut(in.Statut), at, by); err != nil {
		return nil, fmt.Errorf("guardar estado %s: %w", siret, err)
	}
	return &dto.SaveStatutResponse{
		Success:          true,
		DateModification: entity.FormatDateModification(at, uc.loc),
	}, nil
}

// SaveField crea o sobrescribe uno de los dos campos libres (funbooster, observation).
func (uc *AnnotationUseCase) SaveField(ctx context.Context, in dto.SaveFieldRequest, by string) (*dto.SaveFieldResponse, error) {
	siret := strings.TrimSpace(in.Siret)
	if !entity.IsKnownField(in.Field) {
		return nil, domain.ErrInvalidField
	}
	if err := uc.repo.SaveField(ctx, siret, in.Field, in.Value, uc.now(), by); err != nil {
		return nil, fmt.Errorf("guardar campo %s/%s: %w", siret, in.Field, err)
	}
	return &dto.SaveFieldResponse{Success: true}, nil
}

// Merge devuelve una copia de records con las anotaciones almacenadas; los SIRET nunca
// anotados quedan con "A traiter" y fecha vacía.
func (uc *AnnotationUseCase) Merge(ctx context.Context, records []entity.Entreprise) ([]entity.Entreprise, error) {
	sirets := make([]string, 0, len(records))
	seen := make(map[string]bool, len(records))
	for _, r := range records {
		if !seen[r.Siret] {
			seen[r.Siret] = true
			sirets = append(sirets, r.Siret)
		}
	}

	stored := map[string]*entity.AnnotationRecord{}
	if len(sirets) > 0 {
		var err error
		stored, err = uc.repo.GetBySirets(ctx, sirets)
		if err != nil {
			return nil, fmt.Errorf("leer anotaciones: %w", err)
		}
	}

	out := make([]entity.Entreprise, len(records))
	for i, r := range records {
		rec := stored[r.Siret]
		out[i] = r.WithAnnotation(rec.Annotation(uc.loc), rec.Fields())
	}
	return out, nil
}
