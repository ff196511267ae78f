// Package gouv consulta la API pública recherche-entreprises.api.gouv.fr (sin clave).
package gouv

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/prospection-api/internal/application/prospection"
	"github.com/jhoicas/prospection-api/internal/domain/entity"
	"github.com/jhoicas/prospection-api/internal/infrastructure/sirene"
)

const (
	DefaultBaseURL = "https://recherche-entreprises.api.gouv.fr"
	searchEndpoint = "/search"
	perPage        = 25
)

// Client cliente de la API Recherche d'entreprises.
type Client struct {
	baseURL    string
	maxPages   int
	httpClient *http.Client
	log        zerolog.Logger
}

var _ prospection.EntrepriseSearcher = (*Client)(nil)

// NewClient construye el cliente. maxPages limita las páginas de 25 resultados pedidas por búsqueda.
func NewClient(baseURL string, maxPages int, timeout time.Duration, log zerolog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if maxPages <= 0 {
		maxPages = 1
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		maxPages: maxPages,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				IdleConnTimeout:     30 * time.Second,
				MaxIdleConnsPerHost: 2,
			},
		},
		log: log,
	}
}

// SearchResponse página de resultados.
type SearchResponse struct {
	Results      []EntrepriseResult `json:"results"`
	TotalResults int                `json:"total_results"`
	Page         int                `json:"page"`
	PerPage      int                `json:"per_page"`
	TotalPages   int                `json:"total_pages"`
}

// EntrepriseResult unidad legal con sus establecimientos coincidentes.
type EntrepriseResult struct {
	Siren                  string          `json:"siren"`
	NomComplet             string          `json:"nom_complet"`
	NomRaisonSociale       string          `json:"nom_raison_sociale"`
	ActivitePrincipale     string          `json:"activite_principale"`
	EtatAdministratif      string          `json:"etat_administratif"`
	TrancheEffectifSalarie string          `json:"tranche_effectif_salarie"`
	Siege                  *Etablissement  `json:"siege"`
	Dirigeants             []Dirigeant     `json:"dirigeants"`
	MatchingEtablissements []Etablissement `json:"matching_etablissements"`
}

// Etablissement establecimiento (sede o coincidente).
type Etablissement struct {
	Siret                  string `json:"siret"`
	Adresse                string `json:"adresse"`
	CodePostal             string `json:"code_postal"`
	LibelleCommune         string `json:"libelle_commune"`
	NumeroVoie             string `json:"numero_voie"`
	TypeVoie               string `json:"type_voie"`
	LibelleVoie            string `json:"libelle_voie"`
	ActivitePrincipale     string `json:"activite_principale"`
	EtatAdministratif      string `json:"etat_administratif"`
	TrancheEffectifSalarie string `json:"tranche_effectif_salarie"`
	EstSiege               bool   `json:"est_siege"`
}

// Dirigeant persona física o moral que dirige la unidad legal.
type Dirigeant struct {
	Nom           string `json:"nom"`
	Prenoms       string `json:"prenoms"`
	Denomination  string `json:"denomination"`
	Qualite       string `json:"qualite"`
	TypeDirigeant string `json:"type_dirigeant"`
}

// Search implementa prospection.EntrepriseSearcher recorriendo páginas hasta el límite.
func (c *Client) Search(ctx context.Context, q prospection.SearchQuery) ([]entity.Entreprise, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = prospection.DefaultSearchLimit
	}
	prefix := sirene.DepartementPrefix(q.Departement)

	out := make([]entity.Entreprise, 0, perPage)
	for page := 1; page <= c.maxPages && len(out) < limit; page++ {
		resp, err := c.fetch(ctx, q, page)
		if err != nil {
			return nil, err
		}
		for _, r := range resp.Results {
			out = append(out, toEntreprises(r, prefix)...)
		}
		if page >= resp.TotalPages || len(resp.Results) == 0 {
			break
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	c.log.Info().Int("count", len(out)).Str("secteur", q.Secteur).Str("departement", q.Departement).Msg("gouv: búsqueda completada")
	return out, nil
}

func (c *Client) fetch(ctx context.Context, q prospection.SearchQuery, page int) (*SearchResponse, error) {
	params := url.Values{}
	if sirene.IsNAFCode(q.Secteur) {
		params.Set("activite_principale", strings.ToUpper(strings.TrimSpace(q.Secteur)))
	} else {
		params.Set("q", strings.TrimSpace(q.Secteur))
	}
	params.Set("departement", strings.ToUpper(strings.TrimSpace(q.Departement)))
	params.Set("etat_administratif", "A")
	params.Set("per_page", strconv.Itoa(perPage))
	params.Set("page", strconv.Itoa(page))
	searchURL := c.baseURL + searchEndpoint + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("gouv: crear request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gouv: llamada HTTP fallida: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return nil, fmt.Errorf("gouv: leer respuesta: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		c.log.Warn().Int("status", resp.StatusCode).Int("page", page).Msg("gouv: búsqueda fallida")
		return nil, fmt.Errorf("gouv: HTTP %d", resp.StatusCode)
	}

	var sr SearchResponse
	if err := json.Unmarshal(body, &sr); err != nil {
		return nil, fmt.Errorf("gouv: deserializar respuesta: %w", err)
	}
	return &sr, nil
}

// toEntreprises un registro por establecimiento coincidente del departamento; la sede si no hay ninguno.
func toEntreprises(r EntrepriseResult, cpPrefix string) []entity.Entreprise {
	etabs := r.MatchingEtablissements
	if len(etabs) == 0 && r.Siege != nil {
		etabs = []Etablissement{*r.Siege}
	}
	out := make([]entity.Entreprise, 0, len(etabs))
	for _, e := range etabs {
		if cpPrefix != "" && e.CodePostal != "" && !strings.HasPrefix(e.CodePostal, cpPrefix) {
			continue
		}
		siren := r.Siren
		if siren == "" && len(e.Siret) >= 9 {
			siren = e.Siret[:9]
		}
		tranche := e.TrancheEffectifSalarie
		if tranche == "" {
			tranche = r.TrancheEffectifSalarie
		}
		secteur := r.ActivitePrincipale
		if secteur == "" {
			secteur = e.ActivitePrincipale
		}
		out = append(out, entity.Entreprise{
			Siret:     e.Siret,
			Siren:     siren,
			Nom:       firstNonEmpty(r.NomRaisonSociale, r.NomComplet),
			Adresse:   address(e),
			Secteur:   secteur,
			Dirigeant: dirigeant(r.Dirigeants),
			Effectif:  sirene.EffectifLabel(tranche),
			Etat:      sirene.EtatFinal(e.EtatAdministratif, uniteEtat(r.EtatAdministratif)),
		})
	}
	return out
}

// uniteEtat la API usa "C" (cessée) para las unidades legales cerradas.
func uniteEtat(s string) string {
	if s == "" {
		return "A"
	}
	return s
}

func address(e Etablissement) string {
	if a := strings.TrimSpace(e.Adresse); a != "" {
		return a
	}
	voie := strings.Join(strings.Fields(e.NumeroVoie+" "+e.TypeVoie+" "+e.LibelleVoie), " ")
	return strings.Trim(voie+", "+e.CodePostal+" "+e.LibelleCommune, ", ")
}

func dirigeant(list []Dirigeant) string {
	for _, d := range list {
		if name := strings.TrimSpace(d.Prenoms + " " + d.Nom); name != "" {
			return name
		}
		if d.Denomination != "" {
			return d.Denomination
		}
	}
	return ""
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
