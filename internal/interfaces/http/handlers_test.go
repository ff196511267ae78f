package http_test

import (
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/prospection-api/internal/application/dto"
	"github.com/jhoicas/prospection-api/internal/application/prospection"
	"github.com/jhoicas/prospection-api/internal/domain/entity"
	pkgjwt "github.com/jhoicas/prospection-api/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// POST /api/search
// ──────────────────────────────────────────────────────────────────────────────

func TestSearch_OK(t *testing.T) {
	app := buildTestApp(t, "")

	resp := doJSON(t, app, http.MethodPost, "/api/search", dto.SearchRequest{Secteur: " boulangerie ", Departement: "75"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out dto.SearchResponse
	decode(t, resp, &out)
	assert.True(t, out.Success)
	assert.Equal(t, 2, out.Count)
	require.Len(t, out.Results, 2)

	first := out.Results[0]
	assert.Equal(t, "12345678900011", first.Siret)
	assert.Equal(t, "https://www.pappers.fr/recherche?q=123456789", first.PappersURL)
	assert.Equal(t, "https://www.pagesjaunes.fr/recherche/75001/Entreprise%20Boulangerie%20A%20%2875%29", first.PagesJaunesURL)
	assert.Equal(t, "https://quel-est-mon-opco.francecompetences.fr/?siret=12345678900011", first.OpcoURL)
	assert.Equal(t, string(entity.StatutATraiter), first.Statut)
	assert.Empty(t, first.DateModification)
}

func TestSearch_CriteriosVacios_Retorna400(t *testing.T) {
	app := buildTestApp(t, "")

	resp := doJSON(t, app, http.MethodPost, "/api/search", dto.SearchRequest{Secteur: "   ", Departement: "75"})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var out dto.ErrorResponse
	decode(t, resp, &out)
	assert.Equal(t, prospection.MsgMissingCriteria, out.Error)
}

func TestSearch_FusionaAnotacionesGuardadas(t *testing.T) {
	app := buildTestApp(t, "")

	resp := doJSON(t, app, http.MethodPost, "/api/save-statut", dto.SaveStatutRequest{Siret: "98765432100022", Statut: "RDV fixé"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
	resp = doJSON(t, app, http.MethodPost, "/api/save-field", dto.SaveFieldRequest{Siret: "98765432100022", Field: "observation", Value: "mardi 14h"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodPost, "/api/search", dto.SearchRequest{Secteur: "boulangerie", Departement: "75"})
	var out dto.SearchResponse
	decode(t, resp, &out)
	require.Len(t, out.Results, 2)
	assert.Equal(t, string(entity.StatutATraiter), out.Results[0].Statut)
	assert.Equal(t, "RDV fixé", out.Results[1].Statut)
	assert.Equal(t, "14/03/2026 10:26:53", out.Results[1].DateModification, "hora de París")
	assert.Equal(t, "mardi 14h", out.Results[1].Observation)
}

// ──────────────────────────────────────────────────────────────────────────────
// POST /api/save-statut, /api/save-field
// ──────────────────────────────────────────────────────────────────────────────

func TestSaveStatut_OK(t *testing.T) {
	app := buildTestApp(t, "")

	resp := doJSON(t, app, http.MethodPost, "/api/save-statut", dto.SaveStatutRequest{Siret: "12345678900011", Statut: "Appelé"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out dto.SaveStatutResponse
	decode(t, resp, &out)
	assert.True(t, out.Success)
	assert.Equal(t, "14/03/2026 10:26:53", out.DateModification)
}

func TestSaveStatut_SiretVacio_OK(t *testing.T) {
	app := buildTestApp(t, "")

	resp := doJSON(t, app, http.MethodPost, "/api/save-statut", dto.SaveStatutRequest{Siret: "", Statut: "Intéressé"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out dto.SaveStatutResponse
	decode(t, resp, &out)
	assert.True(t, out.Success)
	assert.Equal(t, "14/03/2026 10:26:53", out.DateModification)
}

func TestSaveStatut_EstadoDesconocido_Retorna400(t *testing.T) {
	app := buildTestApp(t, "")

	resp := doJSON(t, app, http.MethodPost, "/api/save-statut", dto.SaveStatutRequest{Siret: "12345678900011", Statut: "Perdu"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestSaveField_CampoDesconocido_Retorna400(t *testing.T) {
	app := buildTestApp(t, "")

	resp := doJSON(t, app, http.MethodPost, "/api/save-field", dto.SaveFieldRequest{Siret: "1", Field: "telephone", Value: "x"})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var out dto.ErrorResponse
	decode(t, resp, &out)
	assert.Equal(t, "INVALID_FIELD", out.Code)
}

func TestSaveStatut_ConToken_RegistraConseiller(t *testing.T) {
	app := buildTestApp(t, testJWTSecret)

	resp := doJSON(t, app, http.MethodPost, "/api/save-statut", dto.SaveStatutRequest{Siret: "1", Statut: "Appelé"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, "sin token")
	resp.Body.Close()

	tok, err := pkgjwt.Generate(testJWTSecret, "Alice", "prospection-test", 60)
	require.NoError(t, err)
	resp = doJSON(t, app, http.MethodPost, "/api/save-statut", dto.SaveStatutRequest{Siret: "1", Statut: "Appelé"}, "Authorization", "Bearer "+tok)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}

// ──────────────────────────────────────────────────────────────────────────────
// POST /api/export, /api/export/pdf
// ──────────────────────────────────────────────────────────────────────────────

func TestExport_XLSX(t *testing.T) {
	app := buildTestApp(t, "")
	in := dto.ExportRequest{Results: []entity.Entreprise{
		{Nom: "A", Siret: "12345678900011", Etat: "Actif"},
		{Nom: "B", Siret: "98765432100022", Etat: "Fermé"},
	}}

	resp := doJSON(t, app, http.MethodPost, "/api/export", in)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, prospection.ContentTypeXLSX, resp.Header.Get("Content-Type"))
	assert.Equal(t, `attachment; filename="entreprises_20260314_092653.xlsx"`, resp.Header.Get("Content-Disposition"))

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "PK", string(body[:2]), "un xlsx es un zip")
}

func TestExport_SinDatos_Retorna400(t *testing.T) {
	app := buildTestApp(t, "")

	resp := doJSON(t, app, http.MethodPost, "/api/export", dto.ExportRequest{})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var out dto.ErrorResponse
	decode(t, resp, &out)
	assert.Equal(t, prospection.MsgNothingToExport, out.Error)
}

func TestExport_SinActivos_Retorna400(t *testing.T) {
	app := buildTestApp(t, "")

	resp := doJSON(t, app, http.MethodPost, "/api/export", dto.ExportRequest{Results: []entity.Entreprise{{Nom: "B", Etat: "Fermé"}}})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var out dto.ErrorResponse
	decode(t, resp, &out)
	assert.Equal(t, prospection.MsgNoActiveToExport, out.Error)
}

func TestExport_PDF(t *testing.T) {
	app := buildTestApp(t, "")

	resp := doJSON(t, app, http.MethodPost, "/api/export/pdf", dto.ExportRequest{Results: []entity.Entreprise{{Nom: "A", Etat: "Actif"}}})
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, prospection.ContentTypePDF, resp.Header.Get("Content-Type"))

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(body[:4]))
}

// ──────────────────────────────────────────────────────────────────────────────
// GET /api/opco/:siret
// ──────────────────────────────────────────────────────────────────────────────

func TestOPCO_RespaldoPorAPE(t *testing.T) {
	app := buildTestApp(t, "")

	resp := doJSON(t, app, http.MethodGet, "/api/opco/73282932000074?ape=43.22A", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out dto.OPCOResponse
	decode(t, resp, &out)
	assert.Equal(t, "OPCO Constructys", out.OPCO)
	assert.Equal(t, "1596", out.IDCC)
	assert.Equal(t, entity.OPCOSourceMapping, out.Source)
}

func TestOPCO_SiretInvalido_Retorna400(t *testing.T) {
	app := buildTestApp(t, "")

	resp := doJSON(t, app, http.MethodGet, "/api/opco/1234", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestOPCO_NoEncontrado_Retorna404(t *testing.T) {
	app := buildTestApp(t, "")

	resp := doJSON(t, app, http.MethodGet, "/api/opco/73282932000074?ape=01.11Z", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}
