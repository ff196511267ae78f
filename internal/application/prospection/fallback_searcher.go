package prospection

import (
	"context"
	"errors"
	"fmt"

	"github.com/jhoicas/prospection-api/internal/domain"
	"github.com/jhoicas/prospection-api/internal/domain/entity"
)

// NamedSearcher proveedor con nombre para los mensajes de error.
type NamedSearcher struct {
	Name     string
	Searcher EntrepriseSearcher
}

// FallbackSearcher prueba los proveedores en orden y devuelve la primera respuesta sin error.
// Una lista vacía es una respuesta válida y no provoca el paso al siguiente proveedor.
type FallbackSearcher struct {
	providers []NamedSearcher
}

var _ EntrepriseSearcher = (*FallbackSearcher)(nil)

// NewFallbackSearcher construye la cadena. Sin proveedores, Search devuelve ErrProviderNotConfig.
func NewFallbackSearcher(providers ...NamedSearcher) *FallbackSearcher {
	return &FallbackSearcher{providers: providers}
}

// Search implementa EntrepriseSearcher.
func (f *FallbackSearcher) Search(ctx context.Context, q SearchQuery) ([]entity.Entreprise, error) {
	if len(f.providers) == 0 {
		return nil, domain.ErrProviderNotConfig
	}
	var errs []error
	for _, p := range f.providers {
		res, err := p.Searcher.Search(ctx, q)
		if err == nil {
			return res, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		errs = append(errs, fmt.Errorf("%s: %w", p.Name, err))
	}
	return nil, fmt.Errorf("%w: %w", domain.ErrProviderFailure, errors.Join(errs...))
}
