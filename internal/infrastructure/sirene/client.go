package sirene

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
	"github.com/jhoicas/prospection-api/internal/domain"
	"github.com/jhoicas/prospection-api/internal/domain/entity"
)

const (
	DefaultBaseURL   = "https://api.insee.fr/api-sirene/3.11"
	siretSearchPath  = "/siret"
	apiKeyHeader     = "X-INSEE-Api-Key-Integration"
	maxNombre        = 1000
	maxResponseBytes = 16 << 20
)

// Client cliente de la API Sirene de l'INSEE (portail-api.insee.fr).
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	log        zerolog.Logger
}

var _ prospection.EntrepriseSearcher = (*Client)(nil)

// Option configura el cliente.
type Option func(*Client)

// WithBaseURL cambia la URL base (tests con httptest).
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithTimeout cambia el timeout de red.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithLogger inyecta el logger del componente.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.log = l }
}

// NewClient construye el cliente. Sin apiKey, Search devuelve domain.ErrProviderNotConfig.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:  apiKey,
		baseURL: DefaultBaseURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				IdleConnTimeout:     30 * time.Second,
				MaxIdleConnsPerHost: 2,
			},
		},
		log: zerolog.Nop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Search implementa prospection.EntrepriseSearcher.
func (c *Client) Search(ctx context.Context, q prospection.SearchQuery) ([]entity.Entreprise, error) {
	if c.apiKey == "" {
		return nil, domain.ErrProviderNotConfig
	}
	limit := q.Limit
	if limit <= 0 {
		limit = prospection.DefaultSearchLimit
	}

	params := url.Values{}
	params.Set("q", BuildQuery(q.Secteur, q.Departement))
	params.Set("nombre", strconv.Itoa(min(limit, maxNombre)))
	searchURL := c.baseURL + siretSearchPath + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("sirene: crear request: %w", err)
	}
	req.Header.Set(apiKeyHeader, c.apiKey)
	req.Header.Set("Accept", "application/json;charset=utf-8")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sirene: llamada HTTP fallida: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("sirene: leer respuesta: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		// La API responde 404 cuando ningún establecimiento coincide.
		c.log.Debug().Str("q", params.Get("q")).Msg("sirene: sin resultados")
		return []entity.Entreprise{}, nil
	case resp.StatusCode != http.StatusOK:
		c.log.Warn().Int("status", resp.StatusCode).Str("body", truncate(string(body), 300)).Msg("sirene: búsqueda fallida")
		return nil, fmt.Errorf("sirene: HTTP %d", resp.StatusCode)
	}

	var data map[string]interface{}
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("sirene: deserializar respuesta: %w", err)
	}

	etabs := etablissements(data)
	if len(etabs) > limit {
		etabs = etabs[:limit]
	}
	out := make([]entity.Entreprise, 0, len(etabs))
	for _, e := range etabs {
		out = append(out, toEntreprise(e))
	}
	c.log.Info().Int("count", len(out)).Str("q", params.Get("q")).Msg("sirene: búsqueda completada")
	return out, nil
}

// etablissements acepta tanto [{...}] como [{"etablissement": {...}}].
func etablissements(data map[string]interface{}) []map[string]interface{} {
	raw, _ := data["etablissements"].([]interface{})
	out := make([]map[string]interface{}, 0, len(raw))
	for _, item := range raw {
		m, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		if inner, ok := m["etablissement"].(map[string]interface{}); ok {
			m = inner
		}
		out = append(out, m)
	}
	return out
}

func toEntreprise(e map[string]interface{}) entity.Entreprise {
	unite := object(e, "uniteLegale")
	adresse := object(e, "adresseEtablissement")

	nom := firstNonEmpty(str(unite, "denominationUniteLegale"), str(unite, "nomUniteLegale"))
	if nom == "" {
		nom = strings.TrimSpace(str(unite, "prenomUsuelUniteLegale") + " " + str(unite, "nomUniteLegale"))
	}

	voie := strings.Join(strings.Fields(strings.Join([]string{
		str(adresse, "numeroVoieEtablissement"),
		str(adresse, "typeVoieEtablissement"),
		str(adresse, "libelleVoieEtablissement"),
	}, " ")), " ")
	cp := str(adresse, "codePostalEtablissement")
	commune := str(adresse, "libelleCommuneEtablissement")
	adresseFull := strings.Trim(voie+", "+cp+" "+commune, ", ")

	siret := str(e, "siret")
	siren := firstNonEmpty(str(unite, "siren"), str(e, "siren"))
	if siren == "" && len(siret) >= 9 {
		siren = siret[:9]
	}

	etatEtab := str(e, "etatAdministratifEtablissement")
	if etatEtab == "" {
		etatEtab = lastPeriode(e, "periodesEtablissement", "etatAdministratifEtablissement")
	}
	etatUnite := str(unite, "etatAdministratifUniteLegale")
	if etatUnite == "" {
		etatUnite = lastPeriode(unite, "periodesUniteLegale", "etatAdministratifUniteLegale")
	}

	return entity.Entreprise{
		Siret:    siret,
		Siren:    siren,
		Nom:      nom,
		Adresse:  adresseFull,
		Secteur:  str(unite, "activitePrincipaleUniteLegale"),
		Effectif: EffectifLabel(str(e, "trancheEffectifsEtablissement")),
		Etat:     EtatFinal(etatEtab, etatUnite),
	}
}

// lastPeriode lee key en la última período (la más reciente) de la lista.
func lastPeriode(m map[string]interface{}, list, key string) string {
	periodes, _ := m[list].([]interface{})
	if len(periodes) == 0 {
		return ""
	}
	last, _ := periodes[len(periodes)-1].(map[string]interface{})
	return str(last, key)
}

func object(m map[string]interface{}, key string) map[string]interface{} {
	o, _ := m[key].(map[string]interface{})
	return o
}

func str(m map[string]interface{}, key string) string {
	if m == nil {
		return ""
	}
	switch v := m[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return ""
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
