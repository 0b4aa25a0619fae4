package dto

import "time"

// CreateLocationRequest entrada para crear una ubicación. Code no se puede cambiar después.
type CreateLocationRequest struct {
	Code string `json:"code" validate:"required,min=1,max=32"`
	Name string `json:"name" validate:"required,min=1,max=200"`
	Kind string `json:"kind"`
}

// LocationResponse salida de una ubicación.
type LocationResponse struct {
	ID        string    `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Kind      string    `json:"kind"`
	Lifecycle string    `json:"lifecycle"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
