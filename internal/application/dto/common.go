package dto

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// MessageResponse respuesta con un único mensaje (SuccessMessage en GraphQL).
type MessageResponse struct {
	Message string `json:"message"`
}

// PageRequest paginación de listados (skip/first).
type PageRequest struct {
	Skip  int `json:"skip" query:"skip"`
	First int `json:"first" query:"first"`
}

// MaxPageSize tope de first en listados.
const MaxPageSize = 100

// DefaultPage aplica valores por defecto: first 0 → 20, first > 100 → 100, skip negativo → 0.
func (p *PageRequest) DefaultPage() {
	if p.First <= 0 {
		p.First = 20
	}
	if p.First > MaxPageSize {
		p.First = MaxPageSize
	}
	if p.Skip < 0 {
		p.Skip = 0
	}
}
