// Package web es la interfaz de prospección servida en "/": formulario de búsqueda, tabla de
// resultados anotables y exportación. El HTML se genera en el servidor (html/template).
package web

import (
	"context"
	"sync"

	"github.com/jhoicas/prospection-api/internal/domain/entity"
)

// AnnotationStore estado de seguimiento por SIRET visto por la interfaz.
// Get y GetFields nunca fallan: un SIRET sin anotar devuelve los valores por defecto.
type AnnotationStore interface {
	Get(siret string) entity.Annotation
	// Set devuelve la fecha de modificación formateada; "" si no se pudo guardar.
	Set(ctx context.Context, siret string, statut entity.Statut) string
	GetFields(siret string) entity.FieldAnnotation
	SetField(ctx context.Context, siret, field, value string) bool
}

// Primer lo implementan los almacenes que se alimentan de los resultados ya fusionados por el servidor.
type Primer interface {
	Prime(records []entity.Entreprise)
}

// KeyValue almacén clave/valor de cadenas (el "local storage" de la interfaz).
type KeyValue interface {
	GetItem(ctx context.Context, key string) (value string, ok bool, err error)
	SetItem(ctx context.Context, key, value string) error
}

// MemoryKV KeyValue en memoria; se pierde al reiniciar.
type MemoryKV struct {
	mu    sync.RWMutex
	items map[string]string
}

var _ KeyValue = (*MemoryKV)(nil)

// NewMemoryKV construye un almacén vacío.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{items: map[string]string{}}
}

// GetItem implementa KeyValue.
func (m *MemoryKV) GetItem(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.items[key]
	return v, ok, nil
}

// SetItem implementa KeyValue.
func (m *MemoryKV) SetItem(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = value
	return nil
}
