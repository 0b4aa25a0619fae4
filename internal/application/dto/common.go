package dto

const (
	// DefaultPageLimit filas por página cuando el cliente no envía limit.
	DefaultPageLimit = 20
	// MaxPageLimit tope de filas por página en cualquier listado.
	MaxPageLimit = 200
)

// PageRequest paginación para listados (limit/offset en la query).
type PageRequest struct {
	Limit  int `query:"limit"`
	Offset int `query:"offset"`
}

// DefaultPage normaliza la página: limit ausente toma DefaultPageLimit, limit excesivo
// se recorta a MaxPageLimit y un offset negativo vuelve a cero.
func (p *PageRequest) DefaultPage() {
	switch {
	case p.Limit <= 0:
		p.Limit = DefaultPageLimit
	case p.Limit > MaxPageLimit:
		p.Limit = MaxPageLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}

// PageResponse metadatos de página devueltos junto al listado.
type PageResponse struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Total  int `json:"total,omitempty"`
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
