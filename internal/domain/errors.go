package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrMissingCriteria   = errors.New("secteur y departement son obligatorios")
	ErrNothingToExport   = errors.New("no hay datos para exportar")
	ErrNoActiveToExport  = errors.New("no hay empresas activas para exportar")
	ErrInvalidField      = errors.New("campo de anotación desconocido")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrProviderFailure   = errors.New("proveedor de búsqueda no disponible")
	ErrProviderNotConfig = errors.New("proveedor de búsqueda no configurado")
)
