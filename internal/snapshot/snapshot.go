// Package snapshot implements the import/export boundary. The wire format
// is the one the original front end reads and writes: a JSON object with
// exactly two arrays, "clientes" and "transacciones", decimal amounts and
// ISO calendar dates.
package snapshot

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"fiado/internal/charge"
	"fiado/internal/client"
	"fiado/internal/money"
)

var ErrFormat = errors.New("malformed snapshot")

type Snapshot struct {
	Clientes      []Cliente     `json:"clientes"`
	Transacciones []Transaccion `json:"transacciones"`
}

type Cliente struct {
	ID            string `json:"id"`
	Apellido      string `json:"apellido"`
	Nombre        string `json:"nombre"`
	Telefono      string `json:"telefono,omitempty"`
	FechaCreacion string `json:"fechaCreacion"`
}

type Transaccion struct {
	ID          string  `json:"id"`
	ClienteID   string  `json:"clienteId"`
	Monto       float64 `json:"monto"`
	MontoPagado float64 `json:"montoPagado"`
	Descripcion string  `json:"descripcion,omitempty"`
	Fecha       string  `json:"fecha"`
	Estado      string  `json:"estado"`
	CreatedAt   string  `json:"createdAt"`
}

// Decode parses and validates a snapshot. Both fields must be present and
// be arrays; any malformed record rejects the whole snapshot.
func Decode(data []byte) (*Snapshot, error) {
	var envelope struct {
		Clientes      json.RawMessage `json:"clientes"`
		Transacciones json.RawMessage `json:"transacciones"`
	}

	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFormat, err)
	}

	// A field set to JSON null decodes into a non-nil RawMessage and would
	// unmarshal into an empty slice, turning a broken snapshot into a wipe.
	if missingField(envelope.Clientes) {
		return nil, fmt.Errorf("%w: missing field %q", ErrFormat, "clientes")
	}

	if missingField(envelope.Transacciones) {
		return nil, fmt.Errorf("%w: missing field %q", ErrFormat, "transacciones")
	}

	var snap Snapshot

	if err := json.Unmarshal(envelope.Clientes, &snap.Clientes); err != nil {
		return nil, fmt.Errorf("%w: %q is not an array of clients", ErrFormat, "clientes")
	}

	if err := json.Unmarshal(envelope.Transacciones, &snap.Transacciones); err != nil {
		return nil, fmt.Errorf("%w: %q is not an array of charges", ErrFormat, "transacciones")
	}

	return &snap, nil
}

func missingField(raw json.RawMessage) bool {
	return raw == nil || bytes.Equal(raw, []byte("null"))
}

// legacy ids from the original system are plain strings, not UUIDs. They
// map to stable UUIDs so references between the two collections survive.
var legacyIDSpace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("fiado://legacy-id"))

func parseID(field, s string) (uuid.UUID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return uuid.Nil, fmt.Errorf("%w: %s is required", ErrFormat, field)
	}

	if id, err := uuid.Parse(s); err == nil {
		return id, nil
	}

	return uuid.NewSHA1(legacyIDSpace, []byte(s)), nil
}

func parseTimestamp(field, s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s %q is not a timestamp", ErrFormat, field, s)
	}

	return t, nil
}

func (c Cliente) toDomain() (*client.Client, error) {
	id, err := parseID("cliente id", c.ID)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(c.Apellido) == "" || strings.TrimSpace(c.Nombre) == "" {
		return nil, fmt.Errorf("%w: cliente %s needs apellido and nombre", ErrFormat, c.ID)
	}

	if err := client.ValidatePhone(strings.TrimSpace(c.Telefono)); err != nil {
		return nil, fmt.Errorf("%w: cliente %s: invalid telefono", ErrFormat, c.ID)
	}

	createdAt, err := parseTimestamp("fechaCreacion", c.FechaCreacion)
	if err != nil {
		return nil, err
	}

	return &client.Client{
		ID:        id,
		LastName:  strings.TrimSpace(c.Apellido),
		FirstName: strings.TrimSpace(c.Nombre),
		Phone:     strings.TrimSpace(c.Telefono),
		CreatedAt: createdAt,
	}, nil
}

func (t Transaccion) toDomain() (*charge.Charge, error) {
	id, err := parseID("transaccion id", t.ID)
	if err != nil {
		return nil, err
	}

	clientID, err := parseID("transaccion clienteId", t.ClienteID)
	if err != nil {
		return nil, err
	}

	date, err := time.Parse(time.DateOnly, t.Fecha)
	if err != nil {
		return nil, fmt.Errorf("%w: transaccion %s: fecha %q is not a calendar date", ErrFormat, t.ID, t.Fecha)
	}

	createdAt, err := parseTimestamp("createdAt", t.CreatedAt)
	if err != nil {
		return nil, err
	}

	ch := &charge.Charge{
		ID:          id,
		ClientID:    clientID,
		Amount:      money.FromFloat(t.Monto),
		AmountPaid:  money.FromFloat(t.MontoPagado),
		Description: strings.TrimSpace(t.Descripcion),
		Date:        date,
		Status:      charge.Status(t.Estado),
		CreatedAt:   createdAt,
	}

	if err := charge.Validate(ch); err != nil {
		return nil, fmt.Errorf("%w: transaccion %s: %v", ErrFormat, t.ID, err)
	}

	return ch, nil
}

func fromClient(c *client.Client) Cliente {
	return Cliente{
		ID:            c.ID.String(),
		Apellido:      c.LastName,
		Nombre:        c.FirstName,
		Telefono:      c.Phone,
		FechaCreacion: c.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func fromCharge(c *charge.Charge) Transaccion {
	return Transaccion{
		ID:          c.ID.String(),
		ClienteID:   c.ClientID.String(),
		Monto:       money.Decimal(c.Amount),
		MontoPagado: money.Decimal(c.AmountPaid),
		Descripcion: c.Description,
		Fecha:       c.Date.Format(time.DateOnly),
		Estado:      string(c.Status),
		CreatedAt:   c.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
}
