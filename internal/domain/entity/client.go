package entity

import "time"

// Tipo de identificación por defecto de un cliente.
const DefaultIdentificationType = "DNI"

// Client cliente de la farmacia. Las ventas anónimas no tienen cliente.
type Client struct {
	ID                   string
	FirstName            string
	LastName             string
	Email                string
	Phone                string
	Address              string
	IdentificationType   string
	IdentificationNumber string // vacío = sin identificar; único si existe
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// FullName nombre completo para comprobantes.
func (c *Client) FullName() string {
	if c.LastName == "" {
		return c.FirstName
	}
	return c.FirstName + " " + c.LastName
}
