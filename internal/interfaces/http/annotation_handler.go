package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/prospection-api/internal/application/dto"
	"github.com/jhoicas/prospection-api/internal/application/prospection"
	"github.com/jhoicas/prospection-api/internal/domain"
)

// AnnotationHandler guarda el estado y los campos libres de un establecimiento.
type AnnotationHandler struct {
	uc *prospection.AnnotationUseCase
}

// NewAnnotationHandler construye el handler.
func NewAnnotationHandler(uc *prospection.AnnotationUseCase) *AnnotationHandler {
	return &AnnotationHandler{uc: uc}
}

// SaveStatut POST /api/save-statut
func (h *AnnotationHandler) SaveStatut(c *fiber.Ctx) error {
	var in dto.SaveStatutRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Error: prospection.MsgInvalidInput})
	}
	out, err := h.uc.SaveStatut(c.UserContext(), in, GetConseiller(c))
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Error: prospection.MsgInvalidInput})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Error: err.Error()})
	}
	return c.JSON(out)
}

// SaveField POST /api/save-field
func (h *AnnotationHandler) SaveField(c *fiber.Ctx) error {
	var in dto.SaveFieldRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Error: prospection.MsgInvalidInput})
	}
	out, err := h.uc.SaveField(c.UserContext(), in, GetConseiller(c))
	if err != nil {
		if errors.Is(err, domain.ErrInvalidField) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_FIELD", Error: prospection.MsgInvalidField})
		}
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Error: prospection.MsgInvalidInput})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Error: err.Error()})
	}
	return c.JSON(out)
}
