package web

// Tipos de aviso.
const (
	BannerError   = "error"
	BannerSuccess = "success"
)

// Banner aviso único de la página; un aviso nuevo sustituye al anterior.
type Banner struct {
	Kind    string
	Message string
}

// Error muestra un aviso de error.
func (b *Banner) Error(msg string) { b.Kind, b.Message = BannerError, msg }

// Success muestra un aviso de éxito.
func (b *Banner) Success(msg string) { b.Kind, b.Message = BannerSuccess, msg }

// Clear oculta el aviso.
func (b *Banner) Clear() { b.Kind, b.Message = "", "" }

// Visible informa si hay algo que mostrar.
func (b Banner) Visible() bool { return b.Message != "" }
