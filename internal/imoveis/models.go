package imoveis

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Imovel is the single entity managed by the API: one row in the imoveis
// table. Valor is a pointer so a NULL in storage surfaces as JSON null,
// never as 0.
type Imovel struct {
	ID             int64    `gorm:"primaryKey;autoIncrement" json:"id"`
	Logradouro     string   `gorm:"not null" json:"logradouro"`
	TipoLogradouro string   `gorm:"not null" json:"tipo_logradouro"`
	Bairro         string   `gorm:"not null" json:"bairro"`
	Cidade         string   `gorm:"not null;index" json:"cidade"`
	CEP            string   `gorm:"type:varchar(8);not null" json:"cep"`
	Tipo           string   `gorm:"not null;index" json:"tipo"`
	Valor          *float64 `gorm:"type:numeric(14,2)" json:"valor"`
	DataAquisicao  Date     `gorm:"type:date;not null" json:"data_aquisicao"`
}

func (Imovel) TableName() string {
	return "imoveis"
}

// Payload is the inbound shape of create and update requests. Every field is
// a pointer so the handlers can tell "absent" apart from "present but empty",
// which is what makes partial updates work.
type Payload struct {
	Logradouro     *string  `json:"logradouro"`
	TipoLogradouro *string  `json:"tipo_logradouro"`
	Bairro         *string  `json:"bairro"`
	Cidade         *string  `json:"cidade"`
	CEP            *string  `json:"cep"`
	Tipo           *string  `json:"tipo"`
	Valor          *float64 `json:"valor"`
	DataAquisicao  *string  `json:"data_aquisicao"`
}

// UnmarshalJSON decodes leniently: a wrong-typed field is not a malformed
// request, it is that field's validation failure. Scalars coerce to the
// target type (a numeric cep is fine, a string valor is parsed), a JSON null
// counts as absent, and a valor that cannot be read as a number comes out as
// NaN so the validator rejects it as InvalidValor rather than the decoder
// rejecting the whole body.
func (p *Payload) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	p.Logradouro = coerceString(raw["logradouro"])
	p.TipoLogradouro = coerceString(raw["tipo_logradouro"])
	p.Bairro = coerceString(raw["bairro"])
	p.Cidade = coerceString(raw["cidade"])
	p.CEP = coerceString(raw["cep"])
	p.Tipo = coerceString(raw["tipo"])
	p.Valor = coerceFloat(raw["valor"])
	p.DataAquisicao = coerceString(raw["data_aquisicao"])
	return nil
}

func rawAbsent(raw json.RawMessage) bool {
	return raw == nil || bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func coerceString(raw json.RawMessage) *string {
	if rawAbsent(raw) {
		return nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return &s
	}
	// Non-string scalar: keep its literal text, so {"cep": 12345678} reads
	// the same as {"cep": "12345678"}.
	t := string(bytes.TrimSpace(raw))
	return &t
}

func coerceFloat(raw json.RawMessage) *float64 {
	if rawAbsent(raw) {
		return nil
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return &f
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if v, perr := strconv.ParseFloat(strings.TrimSpace(s), 64); perr == nil {
			return &v
		}
	}
	nan := math.NaN()
	return &nan
}

const dateLayout = "2006-01-02"

// Date is a calendar day without time-of-day, serialized as YYYY-MM-DD both
// in JSON and against the date column.
type Date struct {
	t time.Time
}

func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, err
	}
	return Date{t: t}, nil
}

func (d Date) String() string {
	return d.t.Format(dateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d Date) Value() (driver.Value, error) {
	return d.t, nil
}

func (d *Date) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*d = Date{}
		return nil
	case time.Time:
		// Rebuild from the calendar components: truncating the absolute
		// timestamp would shift midnight values scanned in non-UTC locations
		// onto the previous day.
		*d = Date{t: time.Date(v.Year(), v.Month(), v.Day(), 0, 0, 0, 0, time.UTC)}
		return nil
	case string:
		return d.scanString(v)
	case []byte:
		return d.scanString(string(v))
	default:
		return fmt.Errorf("cannot scan %T into Date", src)
	}
}

func (d *Date) scanString(s string) error {
	parsed, err := ParseDate(s)
	if err != nil {
		// Some drivers hand dates back as full timestamps.
		t, tsErr := time.Parse(time.RFC3339, s)
		if tsErr != nil {
			return err
		}
		parsed = Date{t: t}
	}
	*d = parsed
	return nil
}
