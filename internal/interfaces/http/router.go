package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/prospection-api/internal/application/prospection"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	SearchUC     *prospection.SearchUseCase
	ExportUC     *prospection.ExportUseCase
	AnnotationUC *prospection.AnnotationUseCase
	OPCOUC       *prospection.OPCOUseCase // nil = ruta /api/opco no registrada
	JWTSecret    string                   // vacío = API abierta
	Log          zerolog.Logger
}

// Router registra las rutas de la API JSON consumida por la interfaz web y el CLI.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))

	prospectionHandler := NewProspectionHandler(deps.SearchUC, deps.ExportUC, deps.Log)
	api.Post("/search", prospectionHandler.Search)
	api.Post("/export", prospectionHandler.Export)
	api.Post("/export/pdf", prospectionHandler.ExportPDF)

	annotationHandler := NewAnnotationHandler(deps.AnnotationUC)
	api.Post("/save-statut", annotationHandler.SaveStatut)
	api.Post("/save-field", annotationHandler.SaveField)

	if deps.OPCOUC != nil {
		opcoHandler := NewOPCOHandler(deps.OPCOUC)
		api.Get("/opco/:siret", opcoHandler.Resolve)
	}
}
