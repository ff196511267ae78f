// Package client cliente HTTP de la API de prospección (/api/*). Lo usan la interfaz web en
// modo remoto y la CLI.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jhoicas/prospection-api/internal/application/dto"
	"github.com/jhoicas/prospection-api/internal/domain/entity"
)

const (
	maxJSONBody = 8 << 20
	maxFileBody = 64 << 20
)

// HeaderConseiller cabecera con la que se identifica el autor cuando la API no exige JWT.
const HeaderConseiller = "X-Conseiller"

// APIError respuesta no 2xx de la API. Message es el campo "error" del cuerpo, si lo hay.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api: %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api: %d", e.Status)
}

// ServerMessage mensaje del servidor listo para mostrar ("" si no vino ninguno).
func (e *APIError) ServerMessage() string { return e.Message }

// Client cliente de la API. Token y Conseiller son opcionales.
type Client struct {
	baseURL    string
	token      string
	conseiller string
	httpClient *http.Client
}

// Option configura el cliente.
type Option func(*Client)

// WithToken envía Authorization: Bearer <token>.
func WithToken(token string) Option {
	return func(c *Client) { c.token = strings.TrimSpace(token) }
}

// WithConseiller envía X-Conseiller (API sin JWT).
func WithConseiller(name string) Option {
	return func(c *Client) { c.conseiller = strings.TrimSpace(name) }
}

// WithHTTPClient sustituye el http.Client (tests, timeouts propios).
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpClient = h }
}

// New construye el cliente contra baseURL (ej. http://localhost:8080).
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Search POST /api/search.
func (c *Client) Search(ctx context.Context, secteur, departement string) ([]entity.Entreprise, error) {
	var out dto.SearchResponse
	if err := c.postJSON(ctx, "/api/search", dto.SearchRequest{Secteur: secteur, Departement: departement}, &out); err != nil {
		return nil, err
	}
	if out.Results == nil {
		out.Results = []entity.Entreprise{}
	}
	return out.Results, nil
}

// Export POST /api/export: hoja xlsx.
func (c *Client) Export(ctx context.Context, records []entity.Entreprise) (*dto.FileResponse, error) {
	return c.postFile(ctx, "/api/export", records)
}

// ExportPDF POST /api/export/pdf: fiche d'appels.
func (c *Client) ExportPDF(ctx context.Context, records []entity.Entreprise) (*dto.FileResponse, error) {
	return c.postFile(ctx, "/api/export/pdf", records)
}

// SaveStatut POST /api/save-statut; devuelve la fecha de modificación formateada.
func (c *Client) SaveStatut(ctx context.Context, siret, statut string) (string, error) {
	var out dto.SaveStatutResponse
	if err := c.postJSON(ctx, "/api/save-statut", dto.SaveStatutRequest{Siret: siret, Statut: statut}, &out); err != nil {
		return "", err
	}
	return out.DateModification, nil
}

// SaveField POST /api/save-field.
func (c *Client) SaveField(ctx context.Context, siret, field, value string) error {
	var out dto.SaveFieldResponse
	return c.postJSON(ctx, "/api/save-field", dto.SaveFieldRequest{Siret: siret, Field: field, Value: value}, &out)
}

// OPCO GET /api/opco/:siret?ape=
func (c *Client) OPCO(ctx context.Context, siret, ape string) (*dto.OPCOResponse, error) {
	path := "/api/opco/" + url.PathEscape(siret)
	if ape != "" {
		path += "?" + url.Values{"ape": {ape}}.Encode()
	}
	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	var out dto.OPCOResponse
	if err := c.doJSON(req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) postJSON(ctx context.Context, path string, in, out interface{}) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("client: serializar %s: %w", path, err)
	}
	req, err := c.newRequest(ctx, http.MethodPost, path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	return c.doJSON(req, out)
}

func (c *Client) postFile(ctx context.Context, path string, records []entity.Entreprise) (*dto.FileResponse, error) {
	body, err := json.Marshal(dto.ExportRequest{Results: records})
	if err != nil {
		return nil, fmt.Errorf("client: serializar %s: %w", path, err)
	}
	req, err := c.newRequest(ctx, http.MethodPost, path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("client: %s: %w", path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, apiError(resp)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxFileBody))
	if err != nil {
		return nil, fmt.Errorf("client: leer %s: %w", path, err)
	}
	return &dto.FileResponse{
		Filename:    filenameOf(resp.Header.Get("Content-Disposition")),
		ContentType: resp.Header.Get("Content-Type"),
		Body:        data,
	}, nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("client: crear request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if c.conseiller != "" {
		req.Header.Set(HeaderConseiller, c.conseiller)
	}
	return req, nil
}

func (c *Client) doJSON(req *http.Request, out interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("client: %s: %w", req.URL.Path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return apiError(resp)
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxJSONBody)).Decode(out); err != nil {
		return fmt.Errorf("client: decodificar %s: %w", req.URL.Path, err)
	}
	return nil
}

// apiError lee {code, error} si el cuerpo es JSON; si no, deja Message vacío.
func apiError(resp *http.Response) error {
	e := &APIError{Status: resp.StatusCode}
	var body dto.ErrorResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxJSONBody)).Decode(&body); err == nil {
		e.Code, e.Message = body.Code, body.Error
	}
	return e
}

func filenameOf(disposition string) string {
	const key = "filename="
	i := strings.Index(disposition, key)
	if i < 0 {
		return ""
	}
	return strings.Trim(disposition[i+len(key):], `"; `)
}
