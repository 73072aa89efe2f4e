package dto

import "time"

// CreateClientRequest entrada para registrar un cliente.
type CreateClientRequest struct {
	FirstName            string `json:"first_name" validate:"required,min=1,max=100"`
	LastName             string `json:"last_name" validate:"max=100"`
	Email                string `json:"email" validate:"omitempty,email,max=200"`
	Phone                string `json:"phone" validate:"max=30"`
	Address              string `json:"address" validate:"max=255"`
	IdentificationType   string `json:"identification_type" validate:"max=20"`
	IdentificationNumber string `json:"identification_number" validate:"max=30"`
}

// UpdateClientRequest entrada para actualizar un cliente; los campos ausentes no cambian.
type UpdateClientRequest struct {
	FirstName            *string `json:"first_name" validate:"omitempty,min=1,max=100"`
	LastName             *string `json:"last_name" validate:"omitempty,max=100"`
	Email                *string `json:"email" validate:"omitempty,max=200"`
	Phone                *string `json:"phone" validate:"omitempty,max=30"`
	Address              *string `json:"address" validate:"omitempty,max=255"`
	IdentificationType   *string `json:"identification_type" validate:"omitempty,max=20"`
	IdentificationNumber *string `json:"identification_number" validate:"omitempty,max=30"`
}

// ClientResponse salida de un cliente.
type ClientResponse struct {
	ID                   string    `json:"id"`
	FirstName            string    `json:"first_name"`
	LastName             string    `json:"last_name"`
	FullName             string    `json:"full_name"`
	Email                string    `json:"email"`
	Phone                string    `json:"phone"`
	Address              string    `json:"address"`
	IdentificationType   string    `json:"identification_type"`
	IdentificationNumber string    `json:"identification_number,omitempty"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// ClientListResponse lista paginada de clientes.
type ClientListResponse struct {
	Items []ClientResponse `json:"items"`
	Page  PageResponse     `json:"page"`
}
