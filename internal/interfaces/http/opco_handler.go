package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/prospection-api/internal/application/dto"
	"github.com/jhoicas/prospection-api/internal/application/prospection"
	"github.com/jhoicas/prospection-api/internal/domain"
)

// OPCOHandler consulta el OPCO de un establecimiento.
type OPCOHandler struct {
	uc *prospection.OPCOUseCase
}

// NewOPCOHandler construye el handler.
func NewOPCOHandler(uc *prospection.OPCOUseCase) *OPCOHandler {
	return &OPCOHandler{uc: uc}
}

// Resolve GET /api/opco/:siret?ape=47.11C
func (h *OPCOHandler) Resolve(c *fiber.Ctx) error {
	out, err := h.uc.Resolve(c.UserContext(), c.Params("siret"), c.Query("ape"))
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Error: "SIRET invalide (14 chiffres)."})
		}
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Error: prospection.MsgOPCONotFound})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Error: err.Error()})
	}
	return c.JSON(out)
}
