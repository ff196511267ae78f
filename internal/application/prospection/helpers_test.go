package prospection_test

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/prospection-api/internal/application/prospection"
	"github.com/jhoicas/prospection-api/internal/domain/entity"
	"github.com/jhoicas/prospection-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Dobles de test
// ──────────────────────────────────────────────────────────────────────────────

var fixedNow = time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

func clock() time.Time { return fixedNow }

// memRepo repositorio de anotaciones en memoria.
type memRepo struct {
	mu      sync.Mutex
	records map[string]*entity.AnnotationRecord
	err     error
}

var _ repository.AnnotationRepository = (*memRepo)(nil)

func newMemRepo() *memRepo {
	return &memRepo{records: map[string]*entity.AnnotationRecord{}}
}

func (r *memRepo) GetBySirets(_ context.Context, sirets []string) (map[string]*entity.AnnotationRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	out := map[string]*entity.AnnotationRecord{}
	for _, s := range sirets {
		if rec, ok := r.records[s]; ok {
			cp := *rec
			out[s] = &cp
		}
	}
	return out, nil
}

func (r *memRepo) GetBySiret(ctx context.Context, siret string) (*entity.AnnotationRecord, error) {
	m, err := r.GetBySirets(ctx, []string{siret})
	if err != nil {
		return nil, err
	}
	return m[siret], nil
}

func (r *memRepo) get(siret string) *entity.AnnotationRecord {
	rec, ok := r.records[siret]
	if !ok {
		rec = &entity.AnnotationRecord{Siret: siret, Statut: entity.StatutATraiter}
		r.records[siret] = rec
	}
	return rec
}

func (r *memRepo) SaveStatut(_ context.Context, siret string, statut entity.Statut, at time.Time, by string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	rec := r.get(siret)
	rec.Statut = statut
	rec.StatutModifiedAt = &at
	rec.ModifiedBy = by
	return nil
}

func (r *memRepo) SaveField(_ context.Context, siret, field, value string, _ time.Time, by string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	rec := r.get(siret)
	switch field {
	case entity.FieldFunbooster:
		rec.Funbooster = value
	case entity.FieldObservation:
		rec.Observation = value
	}
	rec.ModifiedBy = by
	return nil
}

// stubSearcher devuelve resultados fijos y cuenta las llamadas.
type stubSearcher struct {
	results []entity.Entreprise
	err     error
	calls   int
	last    prospection.SearchQuery
}

func (s *stubSearcher) Search(_ context.Context, q prospection.SearchQuery) ([]entity.Entreprise, error) {
	s.calls++
	s.last = q
	if s.err != nil {
		return nil, s.err
	}
	out := make([]entity.Entreprise, len(s.results))
	copy(out, s.results)
	return out, nil
}

func sampleResults() []entity.Entreprise {
	return []entity.Entreprise{
		{Siret: "73282932000074", Siren: "732829320", Nom: "Boulangerie Martin", Adresse: "3 Rue du Four, 75006 Paris", Etat: "Actif"},
		{Siret: "55210055400013", Siren: "552100554", Nom: "Fournil Fermé", Adresse: "8 Quai Ouest, 75019 Paris", Etat: "Fermé"},
		{Siret: "12345678900011", Siren: "123456789", Nom: "Sans CP", Adresse: "Ville-Demo", Etat: "Actif"},
	}
}
