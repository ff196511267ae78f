package prospection

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/prospection-api/internal/application/dto"
	"github.com/jhoicas/prospection-api/internal/domain"
	"github.com/jhoicas/prospection-api/internal/domain/entity"
)

const (
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	ContentTypePDF  = "application/pdf"

	exportTimestampLayout = "20060102_150405"
)

// ExportUseCase genera los archivos descargables a partir de los resultados que envía la interfaz.
type ExportUseCase struct {
	sheets     SpreadsheetGenerator
	callSheets CallSheetGenerator // opcional
	now        func() time.Time
}

// NewExportUseCase construye el caso de uso. callSheets puede ser nil (sin exportación PDF).
func NewExportUseCase(sheets SpreadsheetGenerator, callSheets CallSheetGenerator) *ExportUseCase {
	return &ExportUseCase{sheets: sheets, callSheets: callSheets, now: time.Now}
}

// WithClock sustituye el reloj (tests).
func (uc *ExportUseCase) WithClock(now func() time.Time) *ExportUseCase {
	uc.now = now
	return uc
}

// ExportXLSX genera el libro Excel con las filas activas.
func (uc *ExportUseCase) ExportXLSX(ctx context.Context, in dto.ExportRequest) (*dto.FileResponse, error) {
	rows, err := exportableRows(in.Results)
	if err != nil {
		return nil, err
	}
	body, err := uc.sheets.GenerateSpreadsheet(ctx, rows)
	if err != nil {
		return nil, fmt.Errorf("export xlsx: %w", err)
	}
	return &dto.FileResponse{
		Filename:    fmt.Sprintf("entreprises_%s.xlsx", uc.now().Format(exportTimestampLayout)),
		ContentType: ContentTypeXLSX,
		Body:        body,
	}, nil
}

// ExportPDF genera la hoja de llamadas en PDF con las filas activas.
func (uc *ExportUseCase) ExportPDF(ctx context.Context, in dto.ExportRequest) (*dto.FileResponse, error) {
	if uc.callSheets == nil {
		return nil, fmt.Errorf("export pdf: %w", domain.ErrInvalidInput)
	}
	rows, err := exportableRows(in.Results)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	body, err := uc.callSheets.GenerateCallSheet(ctx, rows, now)
	if err != nil {
		return nil, fmt.Errorf("export pdf: %w", err)
	}
	return &dto.FileResponse{
		Filename:    fmt.Sprintf("entreprises_%s.pdf", now.Format(exportTimestampLayout)),
		ContentType: ContentTypePDF,
		Body:        body,
	}, nil
}

// exportableRows filtra los activos y limpia los valores (espacios, estado por defecto).
func exportableRows(results []entity.Entreprise) ([]entity.Entreprise, error) {
	if len(results) == 0 {
		return nil, domain.ErrNothingToExport
	}
	active := entity.FilterActive(results)
	if len(active) == 0 {
		return nil, domain.ErrNoActiveToExport
	}
	for i, e := range active {
		active[i] = cleanRow(e)
	}
	return active, nil
}

func cleanRow(e entity.Entreprise) entity.Entreprise {
	t := strings.TrimSpace
	e.Nom, e.Adresse, e.Telephone, e.Secteur = t(e.Nom), t(e.Adresse), t(e.Telephone), t(e.Secteur)
	e.Siret, e.Siren, e.Effectif, e.Etat = t(e.Siret), t(e.Siren), t(e.Effectif), t(e.Etat)
	e.DateModification, e.Funbooster, e.Observation = t(e.DateModification), t(e.Funbooster), t(e.Observation)
	e.OpcoURL, e.PappersURL, e.PagesJaunesURL = t(e.OpcoURL), t(e.PappersURL), t(e.PagesJaunesURL)
	if t(e.Statut) == "" {
		e.Statut = string(entity.StatutATraiter)
	} else {
		e.Statut = t(e.Statut)
	}
	return e
}
