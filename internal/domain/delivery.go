package domain

import (
	"net/url"
	"regexp"
	"strings"
	"time"
)

const (
	DeliveryStatusPending   = "pendente"
	DeliveryStatusDelivered = "entregue"
)

// Delivery is a contract routed to a courier. Client data is denormalized.
type Delivery struct {
	ID              string     `json:"id"`
	ContratoID      string     `json:"contratoId"`
	Motoboy         string     `json:"motoboy"`
	ClienteNome     string     `json:"clienteNome"`
	ClienteEndereco string     `json:"clienteEndereco"`
	ClienteCidade   string     `json:"clienteCidade"`
	ClienteEstado   string     `json:"clienteEstado"`
	ClienteTelefone string     `json:"clienteTelefone"`
	Status          string     `json:"status"`
	CriadoPor       string     `json:"criadoPor,omitempty"`
	CriadoEm        time.Time  `json:"criadoEm"`
	EntregueEm      *time.Time `json:"entregueEm,omitempty"`
}

var nonDigits = regexp.MustCompile(`\D`)

// FullAddress joins the denormalized address fields
func (d Delivery) FullAddress() string {
	return d.ClienteEndereco + ", " + d.ClienteCidade + " - " + d.ClienteEstado
}

// WhatsAppURL builds a wa.me link for the client phone (Brazil country code)
func (d Delivery) WhatsAppURL() string {
	return WhatsAppURL(d.ClienteTelefone)
}

// MapsURL builds a maps search link for the client address
func (d Delivery) MapsURL() string {
	return "https://www.google.com/maps/search/?api=1&query=" + url.QueryEscape(d.FullAddress())
}

func WhatsAppURL(telefone string) string {
	numero := nonDigits.ReplaceAllString(telefone, "")
	return "https://wa.me/55" + strings.TrimPrefix(numero, "55")
}

type DispatchRequest struct {
	MotoboyEmail string `json:"motoboyEmail" validate:"required,email"`
}
