package http

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/prospection-api/internal/application/dto"
	"github.com/jhoicas/prospection-api/internal/application/prospection"
	"github.com/jhoicas/prospection-api/internal/domain"
)

// ProspectionHandler búsqueda de establecimientos y exportaciones.
type ProspectionHandler struct {
	search *prospection.SearchUseCase
	export *prospection.ExportUseCase
	log    zerolog.Logger
}

// NewProspectionHandler construye el handler.
func NewProspectionHandler(search *prospection.SearchUseCase, export *prospection.ExportUseCase, log zerolog.Logger) *ProspectionHandler {
	return &ProspectionHandler{search: search, export: export, log: log}
}

// Search busca establecimientos activos y devuelve los resultados con sus anotaciones.
// POST /api/search
func (h *ProspectionHandler) Search(c *fiber.Ctx) error {
	var in dto.SearchRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Error: prospection.MsgInvalidInput})
	}
	out, err := h.search.Search(c.UserContext(), in)
	if err != nil {
		if errors.Is(err, domain.ErrMissingCriteria) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Error: prospection.MsgMissingCriteria})
		}
		h.log.Error().Err(err).Str("secteur", in.Secteur).Str("departement", in.Departement).Msg("búsqueda fallida")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "SEARCH_FAILED", Error: "Erreur lors de la recherche : " + err.Error()})
	}
	return c.JSON(out)
}

// Export genera el Excel de los resultados activos.
// POST /api/export
func (h *ProspectionHandler) Export(c *fiber.Ctx) error {
	var in dto.ExportRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Error: prospection.MsgInvalidInput})
	}
	file, err := h.export.ExportXLSX(c.UserContext(), in)
	if err != nil {
		return h.exportError(c, err)
	}
	return sendFile(c, file)
}

// ExportPDF genera la hoja de llamadas en PDF de los resultados activos.
// POST /api/export/pdf
func (h *ProspectionHandler) ExportPDF(c *fiber.Ctx) error {
	var in dto.ExportRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Error: prospection.MsgInvalidInput})
	}
	file, err := h.export.ExportPDF(c.UserContext(), in)
	if err != nil {
		return h.exportError(c, err)
	}
	return sendFile(c, file)
}

func (h *ProspectionHandler) exportError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrNothingToExport):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "NOTHING_TO_EXPORT", Error: prospection.MsgNothingToExport})
	case errors.Is(err, domain.ErrNoActiveToExport):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "NO_ACTIVE", Error: prospection.MsgNoActiveToExport})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Error: prospection.MsgInvalidInput})
	}
	h.log.Error().Err(err).Msg("exportación fallida")
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "EXPORT_FAILED", Error: "Erreur lors de l'export : " + err.Error()})
}

func sendFile(c *fiber.Ctx, file *dto.FileResponse) error {
	c.Set(fiber.HeaderContentType, file.ContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, file.Filename))
	return c.Status(fiber.StatusOK).Send(file.Body)
}
