package dto

// ErrorResponse cuerpo de error HTTP. El campo "error" es el que lee la interfaz web.
type ErrorResponse struct {
	Code  string `json:"code"`
	Error string `json:"error"`
}

// FileResponse archivo binario generado por un caso de uso (xlsx, pdf).
type FileResponse struct {
	Filename    string
	ContentType string
	Body        []byte
}
