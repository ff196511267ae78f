package prospection

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/prospection-api/internal/application/dto"
	"github.com/jhoicas/prospection-api/internal/domain"
	"github.com/jhoicas/prospection-api/internal/domain/entity"
)

// SearchUseCase busca establecimientos activos por sector y departamento.
type SearchUseCase struct {
	searcher    EntrepriseSearcher
	annotations *AnnotationUseCase // nil = sin fusión (CLI sin almacenamiento)
	limit       int
}

// NewSearchUseCase construye el caso de uso.
func NewSearchUseCase(searcher EntrepriseSearcher, annotations *AnnotationUseCase) *SearchUseCase {
	return &SearchUseCase{searcher: searcher, annotations: annotations, limit: DefaultSearchLimit}
}

// WithLimit cambia el máximo de resultados pedidos al proveedor.
func (uc *SearchUseCase) WithLimit(limit int) *SearchUseCase {
	if limit > 0 {
		uc.limit = limit
	}
	return uc
}

// Search valida los criterios, consulta el proveedor, conserva solo los establecimientos
// "Actif", añade los enlaces externos y fusiona las anotaciones guardadas.
func (uc *SearchUseCase) Search(ctx context.Context, in dto.SearchRequest) (*dto.SearchResponse, error) {
	secteur := strings.TrimSpace(in.Secteur)
	departement := strings.TrimSpace(in.Departement)
	if secteur == "" || departement == "" {
		return nil, domain.ErrMissingCriteria
	}

	found, err := uc.searcher.Search(ctx, SearchQuery{Secteur: secteur, Departement: departement, Limit: uc.limit})
	if err != nil {
		return nil, fmt.Errorf("buscar %q en %s: %w", secteur, departement, err)
	}

	active := entity.FilterActive(found)
	for i := range active {
		active[i] = WithLinks(active[i])
		active[i].Statut = string(entity.StatutATraiter)
	}

	if uc.annotations != nil {
		active, err = uc.annotations.Merge(ctx, active)
		if err != nil {
			return nil, err
		}
	}

	return &dto.SearchResponse{Success: true, Count: len(active), Results: active}, nil
}
