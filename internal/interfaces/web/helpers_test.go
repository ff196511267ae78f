package web_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jhoicas/prospection-api/internal/application/dto"
	"github.com/jhoicas/prospection-api/internal/domain/entity"
	"github.com/jhoicas/prospection-api/internal/interfaces/web"
)

// ──────────────────────────────────────────────────────────────────────────────
// Dobles de test
// ──────────────────────────────────────────────────────────────────────────────

var fixedNow = time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

func paris(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Europe/Paris")
	require.NoError(t, err)
	return loc
}

func ent(siret, nom, etat string) entity.Entreprise {
	siren := siret
	if len(siren) > 9 {
		siren = siren[:9]
	}
	return entity.Entreprise{
		Siret:      siret,
		Siren:      siren,
		Nom:        nom,
		Adresse:    "1 RUE DU TEST, 75001 PARIS",
		Etat:       etat,
		PappersURL: "https://www.pappers.fr/recherche-dirigeants?q=" + siren,
	}
}

// fakeAPI cuenta las llamadas y devuelve lo configurado.
type fakeAPI struct {
	mu          sync.Mutex
	results     []entity.Entreprise
	searchErr   error
	exportErr   error
	searchCalls int
	exportCalls int
	exported    []entity.Entreprise
}

func (f *fakeAPI) Search(_ context.Context, _, _ string) ([]entity.Entreprise, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.searchCalls++
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return f.results, nil
}

func (f *fakeAPI) Export(_ context.Context, records []entity.Entreprise) (*dto.FileResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.exportCalls++
	f.exported = records
	if f.exportErr != nil {
		return nil, f.exportErr
	}
	return &dto.FileResponse{
		Filename:    "entreprises_20260314_092653.xlsx",
		ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		Body:        []byte("PK-fake"),
	}, nil
}

// fakeAnnotationAPI escrituras remotas; fail simula un error de red.
// authors guarda el conseiller del contexto de cada escritura.
type fakeAnnotationAPI struct {
	mu      sync.Mutex
	fail    bool
	date    string
	statut  map[string]string
	fields  map[string]string
	authors map[string]string
}

func newFakeAnnotationAPI(date string) *fakeAnnotationAPI {
	return &fakeAnnotationAPI{date: date, statut: map[string]string{}, fields: map[string]string{}, authors: map[string]string{}}
}

func (f *fakeAnnotationAPI) SaveStatut(ctx context.Context, siret, statut string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return "", errors.New("connection refused")
	}
	f.statut[siret] = statut
	f.authors[siret] = web.ConseillerFrom(ctx)
	return f.date, nil
}

func (f *fakeAnnotationAPI) SaveField(ctx context.Context, siret, field, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errors.New("connection refused")
	}
	f.fields[siret+"/"+field] = value
	f.authors[siret+"/"+field] = web.ConseillerFrom(ctx)
	return nil
}

// failingKV simula un almacén local sin espacio.
type failingKV struct{}

func (failingKV) GetItem(context.Context, string) (string, bool, error) { return "", false, nil }
func (failingKV) SetItem(context.Context, string, string) error         { return errors.New("quota exceeded") }
