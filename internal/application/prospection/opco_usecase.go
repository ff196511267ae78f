package prospection

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/prospection-api/internal/application/dto"
	"github.com/jhoicas/prospection-api/internal/domain"
	"github.com/jhoicas/prospection-api/pkg/siret"
)

// OPCOUseCase consulta el OPCO/IDCC de un establecimiento.
type OPCOUseCase struct {
	resolver OPCOResolver
}

// NewOPCOUseCase construye el caso de uso.
func NewOPCOUseCase(resolver OPCOResolver) *OPCOUseCase {
	return &OPCOUseCase{resolver: resolver}
}

// Resolve requiere un SIRET de 14 dígitos; ape (código NAF) es opcional y alimenta el mapeo de respaldo.
func (uc *OPCOUseCase) Resolve(ctx context.Context, s, ape string) (*dto.OPCOResponse, error) {
	s = siret.Normalize(s)
	if !siret.IsWellFormed(s) {
		return nil, domain.ErrInvalidInput
	}
	res, err := uc.resolver.Resolve(ctx, s, strings.TrimSpace(ape))
	if err != nil {
		return nil, fmt.Errorf("opco %s: %w", s, err)
	}
	if !res.Found() {
		return nil, domain.ErrNotFound
	}
	return &dto.OPCOResponse{Siret: s, OPCO: res.Name, IDCC: res.IDCC, Source: res.Source}, nil
}
