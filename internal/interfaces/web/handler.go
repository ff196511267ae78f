package web

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/rs/zerolog"

	"github.com/jhoicas/prospection-api/pkg/jwt"
)

// CookieSession nombre de la cookie que identifica la página de cada navegador.
const CookieSession = "prospection_sid"

// Handler rutas HTML de la interfaz. Los POST redirigen a "/" (303) salvo una exportación correcta.
// Params y FormValue apuntan a buffers de fasthttp: se copian antes de guardarlos en la página.
type Handler struct {
	renderer *Renderer
	sessions *Sessions
	log      zerolog.Logger
	secret   string
}

// NewHandler construye el handler.
func NewHandler(renderer *Renderer, sessions *Sessions, log zerolog.Logger) *Handler {
	return &Handler{renderer: renderer, sessions: sessions, log: log}
}

// WithAuth exige un JWT firmado con secret (cookie prospection_token) en todas las rutas
// de la página. Con secret vacío la interfaz queda abierta.
func (h *Handler) WithAuth(secret string) *Handler {
	h.secret = secret
	return h
}

// Register monta las rutas en r.
func (h *Handler) Register(r fiber.Router) {
	r.Get("/connexion", h.LoginForm)
	r.Post("/connexion", h.Login)
	r.Post("/deconnexion", h.Logout)

	r.Get("/", h.guard, h.Index)
	r.Post("/recherche", h.guard, h.Search)
	r.Post("/export", h.guard, h.Export)
	r.Post("/lignes/statut", h.guard, h.ChangeStatut)
	r.Post("/lignes/champs/:field", h.guard, h.SaveField)
}

// guard valida la cookie del token y deja el conseiller en el UserContext.
func (h *Handler) guard(c *fiber.Ctx) error {
	if h.secret == "" {
		return c.Next()
	}
	token := utils.CopyString(c.Cookies(CookieToken))
	if token == "" {
		return c.Redirect("/connexion", fiber.StatusSeeOther)
	}
	conseiller, err := jwt.Parse(h.secret, token)
	if err != nil {
		h.log.Warn().Err(err).Str("path", c.Path()).Msg("token de la interfaz rechazado")
		c.ClearCookie(CookieToken)
		return c.Redirect("/connexion", fiber.StatusSeeOther)
	}
	c.SetUserContext(WithConseiller(c.UserContext(), conseiller))
	return c.Next()
}

// LoginForm GET /connexion
func (h *Handler) LoginForm(c *fiber.Ctx) error {
	if h.secret == "" {
		return c.Redirect("/", fiber.StatusSeeOther)
	}
	return h.renderLogin(c, fiber.StatusOK, LoginView{})
}

// Login POST /connexion: guarda el token en una cookie si es válido.
func (h *Handler) Login(c *fiber.Ctx) error {
	if h.secret == "" {
		return c.Redirect("/", fiber.StatusSeeOther)
	}
	token := strings.TrimSpace(utils.CopyString(c.FormValue("token")))
	conseiller, err := jwt.Parse(h.secret, token)
	if err != nil {
		h.log.Warn().Err(err).Msg("conexión rechazada")
		return h.renderLogin(c, fiber.StatusUnauthorized, LoginView{Error: MsgLoginInvalid})
	}
	c.Cookie(&fiber.Cookie{
		Name:     CookieToken,
		Value:    token,
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	h.log.Info().Str("conseiller", conseiller).Msg("conseiller conectado")
	return c.Redirect("/", fiber.StatusSeeOther)
}

// Logout POST /deconnexion
func (h *Handler) Logout(c *fiber.Ctx) error {
	c.ClearCookie(CookieToken)
	if h.secret == "" {
		return c.Redirect("/", fiber.StatusSeeOther)
	}
	return c.Redirect("/connexion", fiber.StatusSeeOther)
}

func (h *Handler) renderLogin(c *fiber.Ctx, status int, v LoginView) error {
	var buf bytes.Buffer
	if err := h.renderer.RenderLogin(&buf, v); err != nil {
		h.log.Error().Err(err).Msg("render de la conexión fallido")
		return c.Status(fiber.StatusInternalServerError).SendString("Erreur interne.")
	}
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Status(status).Send(buf.Bytes())
}

func (h *Handler) page(c *fiber.Ctx) *Page {
	current := utils.CopyString(c.Cookies(CookieSession))
	id, p := h.sessions.Get(current)
	if id != current {
		c.Cookie(&fiber.Cookie{
			Name:     CookieSession,
			Value:    id,
			Path:     "/",
			HTTPOnly: true,
			SameSite: fiber.CookieSameSiteLaxMode,
			Expires:  time.Now().Add(24 * time.Hour),
		})
	}
	return p
}

// Index GET /
func (h *Handler) Index(c *fiber.Ctx) error {
	view := h.page(c).View()
	view.Conseiller = ConseillerFrom(c.UserContext())
	var buf bytes.Buffer
	if err := h.renderer.Render(&buf, view); err != nil {
		h.log.Error().Err(err).Msg("render de la página fallido")
		return c.Status(fiber.StatusInternalServerError).SendString("Erreur interne.")
	}
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Send(buf.Bytes())
}

// Search POST /recherche (formulario secteur + departement).
func (h *Handler) Search(c *fiber.Ctx) error {
	h.page(c).Search(c.UserContext(), utils.CopyString(c.FormValue("secteur")), utils.CopyString(c.FormValue("departement")))
	return c.Redirect("/", fiber.StatusSeeOther)
}

// Export POST /export: descarga la hoja o vuelve a la página con el aviso.
func (h *Handler) Export(c *fiber.Ctx) error {
	dl, ok := h.page(c).Export(c.UserContext())
	if !ok {
		return c.Redirect("/", fiber.StatusSeeOther)
	}
	c.Set(fiber.HeaderContentType, dl.ContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, dl.Filename))
	return c.Send(dl.Body)
}

// ChangeStatut POST /lignes/statut (select con envío automático, siret en campo oculto).
func (h *Handler) ChangeStatut(c *fiber.Ctx) error {
	siret := utils.CopyString(c.FormValue("siret"))
	h.page(c).ChangeStatut(c.UserContext(), siret, utils.CopyString(c.FormValue("statut")))
	return c.Redirect(rowAnchor(siret), fiber.StatusSeeOther)
}

// SaveField POST /lignes/champs/:field
func (h *Handler) SaveField(c *fiber.Ctx) error {
	siret := utils.CopyString(c.FormValue("siret"))
	h.page(c).SaveField(c.UserContext(), siret, utils.CopyString(c.Params("field")), utils.CopyString(c.FormValue("value")))
	return c.Redirect(rowAnchor(siret), fiber.StatusSeeOther)
}

// rowAnchor vuelve a la fila editada; las filas sin SIRET no tienen ancla propia.
func rowAnchor(siret string) string {
	if siret == "" {
		return "/"
	}
	return "/#ligne-" + url.PathEscape(siret)
}
