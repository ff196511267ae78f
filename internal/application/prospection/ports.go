package prospection

import (
	"context"
	"time"

	"github.com/jhoicas/prospection-api/internal/domain/entity"
)

// DefaultSearchLimit número máximo de establecimientos pedidos al proveedor por búsqueda.
const DefaultSearchLimit = 300

// SearchQuery criterios de búsqueda ya validados.
type SearchQuery struct {
	Secteur     string // palabra clave o código NAF (ej. "boulangerie", "47.11C")
	Departement string // código de departamento (ej. "75", "2A")
	Limit       int
}

// EntrepriseSearcher puerto hacia un proveedor de datos de establecimientos (INSEE Sirene, GOUV, demo).
type EntrepriseSearcher interface {
	Search(ctx context.Context, q SearchQuery) ([]entity.Entreprise, error)
}

// SpreadsheetGenerator genera el libro Excel de exportación.
type SpreadsheetGenerator interface {
	GenerateSpreadsheet(ctx context.Context, rows []entity.Entreprise) ([]byte, error)
}

// CallSheetGenerator genera la hoja de llamadas en PDF.
type CallSheetGenerator interface {
	GenerateCallSheet(ctx context.Context, rows []entity.Entreprise, generatedAt time.Time) ([]byte, error)
}

// OPCOResolver resuelve el OPCO/IDCC de un establecimiento.
type OPCOResolver interface {
	Resolve(ctx context.Context, siret, ape string) (entity.OPCO, error)
}
