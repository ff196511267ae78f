package web

import "context"

// CookieToken cookie con el JWT del conseiller cuando la interfaz exige sesión.
const CookieToken = "prospection_token"

// MsgLoginInvalid aviso de la página de conexión.
const MsgLoginInvalid = "Jeton invalide ou expiré."

type conseillerKey struct{}

// WithConseiller guarda en ctx el conseiller autenticado.
func WithConseiller(ctx context.Context, conseiller string) context.Context {
	return context.WithValue(ctx, conseillerKey{}, conseiller)
}

// ConseillerFrom devuelve el conseiller autenticado de ctx, o "".
func ConseillerFrom(ctx context.Context) string {
	s, _ := ctx.Value(conseillerKey{}).(string)
	return s
}

// LoginView datos de la página de conexión.
type LoginView struct {
	Error string
}
