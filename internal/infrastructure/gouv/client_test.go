package gouv_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/prospection-api/internal/application/prospection"
	"github.com/jhoicas/prospection-api/internal/infrastructure/gouv"
)

const page1 = `{
  "results": [
    {
      "siren": "732829320",
      "nom_complet": "BOULANGERIE MARTIN (MARTIN)",
      "nom_raison_sociale": "BOULANGERIE MARTIN",
      "activite_principale": "10.71C",
      "etat_administratif": "A",
      "tranche_effectif_salarie": "03",
      "dirigeants": [{"nom": "MARTIN", "prenoms": "Paul", "qualite": "Gérant", "type_dirigeant": "personne physique"}],
      "matching_etablissements": [
        {"siret": "73282932000074", "adresse": "3 RUE DU FOUR 75006 PARIS", "code_postal": "75006", "etat_administratif": "A"},
        {"siret": "73282932000082", "adresse": "1 PLACE BELLECOUR 69002 LYON", "code_postal": "69002", "etat_administratif": "A"}
      ]
    }
  ],
  "total_results": 2, "page": 1, "per_page": 25, "total_pages": 2
}`

const page2 = `{
  "results": [
    {
      "siren": "552100554",
      "nom_complet": "FOURNIL",
      "etat_administratif": "C",
      "siege": {"siret": "55210055400013", "numero_voie": "8", "type_voie": "QUAI", "libelle_voie": "OUEST", "code_postal": "75019", "libelle_commune": "PARIS", "etat_administratif": "A"},
      "dirigeants": [{"denomination": "HOLDING FOURNIL", "type_dirigeant": "personne morale"}]
    }
  ],
  "total_results": 2, "page": 2, "per_page": 25, "total_pages": 2
}`

func TestClient_Search_Paginado(t *testing.T) {
	var pages []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "boulangerie", q.Get("q"))
		assert.Equal(t, "75", q.Get("departement"))
		assert.Equal(t, "A", q.Get("etat_administratif"))
		pages = append(pages, q.Get("page"))
		if q.Get("page") == "1" {
			_, _ = w.Write([]byte(page1))
			return
		}
		_, _ = w.Write([]byte(page2))
	}))
	defer srv.Close()

	c := gouv.NewClient(srv.URL, 5, time.Second, zerolog.Nop())
	res, err := c.Search(context.Background(), prospection.SearchQuery{Secteur: "boulangerie", Departement: "75", Limit: 300})
	require.NoError(t, err)

	assert.Equal(t, []string{"1", "2"}, pages, "se detiene en total_pages")
	require.Len(t, res, 2, "el establecimiento de Lyon se descarta")

	assert.Equal(t, "73282932000074", res[0].Siret)
	assert.Equal(t, "BOULANGERIE MARTIN", res[0].Nom)
	assert.Equal(t, "3 RUE DU FOUR 75006 PARIS", res[0].Adresse)
	assert.Equal(t, "Paul MARTIN", res[0].Dirigeant)
	assert.Equal(t, "6 à 9 salariés", res[0].Effectif)
	assert.Equal(t, "Actif", res[0].Etat)

	assert.Equal(t, "8 QUAI OUEST, 75019 PARIS", res[1].Adresse)
	assert.Equal(t, "HOLDING FOURNIL", res[1].Dirigeant)
	assert.Equal(t, "Fermé", res[1].Etat, "unidad legal cesada")
}

func TestClient_Search_CodigoNAF(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "47.11C", r.URL.Query().Get("activite_principale"))
		assert.Empty(t, r.URL.Query().Get("q"))
		_, _ = w.Write([]byte(`{"results":[],"total_pages":0}`))
	}))
	defer srv.Close()

	res, err := gouv.NewClient(srv.URL, 1, time.Second, zerolog.Nop()).
		Search(context.Background(), prospection.SearchQuery{Secteur: "47.11c", Departement: "13"})
	require.NoError(t, err)
	assert.Empty(t, res)
}

func TestClient_Search_Error(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := gouv.NewClient(srv.URL, 1, time.Second, zerolog.Nop()).
		Search(context.Background(), prospection.SearchQuery{Secteur: "x", Departement: "13"})
	assert.ErrorContains(t, err, "429")
}
