package imoveis

import (
	"fmt"
	"math"
	"regexp"
	"strings"
)

// Validation failure kinds, machine readable. The handlers map every one of
// them to a 422.
const (
	KindMissingFields = "missing_fields"
	KindEmptyFields   = "empty_fields"
	KindEmptyField    = "empty_field"
	KindInvalidCEP    = "invalid_cep"
	KindInvalidTipo   = "invalid_tipo"
	KindInvalidValor  = "invalid_valor"
	KindInvalidData   = "invalid_data"
)

// ValidationError is the first failure found by Validate. Label is the short
// `error` field of the response body, Message the human description.
type ValidationError struct {
	Kind    string
	Field   string
	Label   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// RequiredFields lists every field a create request must carry, in the order
// checks run and messages list them.
var RequiredFields = []string{
	"logradouro",
	"tipo_logradouro",
	"bairro",
	"cidade",
	"cep",
	"tipo",
	"valor",
	"data_aquisicao",
}

var cepPattern = regexp.MustCompile(`^[0-9]{8}$`)

// NormalizeCEP strips the usual CEP punctuation so "12345-678", "12345.678"
// and "12345678" all normalize to the same stored value.
func NormalizeCEP(cep string) string {
	return strings.NewReplacer("-", "", ".", "").Replace(strings.TrimSpace(cep))
}

// Validate checks a request payload. On create (isUpdate false) every
// required field must be present; on update only the supplied fields are
// checked. Checks run in a fixed order and the first failure wins. No I/O.
func Validate(p Payload, isUpdate bool) *ValidationError {
	textFields := []struct {
		name  string
		value *string
	}{
		{"logradouro", p.Logradouro},
		{"tipo_logradouro", p.TipoLogradouro},
		{"bairro", p.Bairro},
		{"cidade", p.Cidade},
	}

	if !isUpdate {
		var missing []string
		presence := []struct {
			name    string
			present bool
		}{
			{"logradouro", p.Logradouro != nil},
			{"tipo_logradouro", p.TipoLogradouro != nil},
			{"bairro", p.Bairro != nil},
			{"cidade", p.Cidade != nil},
			{"cep", p.CEP != nil},
			{"tipo", p.Tipo != nil},
			{"valor", p.Valor != nil},
			{"data_aquisicao", p.DataAquisicao != nil},
		}
		for _, f := range presence {
			if !f.present {
				missing = append(missing, f.name)
			}
		}
		if len(missing) > 0 {
			return &ValidationError{
				Kind:    KindMissingFields,
				Field:   missing[0],
				Label:   "Campos obrigatórios ausentes",
				Message: "Os seguintes campos são obrigatórios: " + strings.Join(missing, ", "),
			}
		}

		var empty []string
		for _, f := range textFields {
			if strings.TrimSpace(*f.value) == "" {
				empty = append(empty, f.name)
			}
		}
		if len(empty) > 0 {
			return &ValidationError{
				Kind:    KindEmptyFields,
				Field:   empty[0],
				Label:   "Campos vazios",
				Message: "Os seguintes campos não podem ser vazios: " + strings.Join(empty, ", "),
			}
		}
	} else {
		for _, f := range textFields {
			if f.value != nil && strings.TrimSpace(*f.value) == "" {
				return &ValidationError{
					Kind:    KindEmptyField,
					Field:   f.name,
					Label:   "Campo vazio",
					Message: fmt.Sprintf("O campo %s não pode ser vazio", f.name),
				}
			}
		}
	}

	if p.CEP != nil && !cepPattern.MatchString(NormalizeCEP(*p.CEP)) {
		return &ValidationError{
			Kind:    KindInvalidCEP,
			Field:   "cep",
			Label:   "CEP inválido",
			Message: "O CEP deve conter exatamente 8 dígitos",
		}
	}

	if p.Tipo != nil && !TipoValido(*p.Tipo) {
		return &ValidationError{
			Kind:    KindInvalidTipo,
			Field:   "tipo",
			Label:   "Tipo inválido",
			Message: "O tipo deve ser um dos seguintes: " + strings.Join(TiposValidos, ", "),
		}
	}

	if p.Valor != nil {
		v := *p.Valor
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return &ValidationError{
				Kind:    KindInvalidValor,
				Field:   "valor",
				Label:   "Valor inválido",
				Message: "O valor deve ser um número válido",
			}
		}
		if v < 0 {
			return &ValidationError{
				Kind:    KindInvalidValor,
				Field:   "valor",
				Label:   "Valor inválido",
				Message: "O valor deve ser um número positivo",
			}
		}
	}

	if p.DataAquisicao != nil {
		if _, err := ParseDate(strings.TrimSpace(*p.DataAquisicao)); err != nil {
			return &ValidationError{
				Kind:    KindInvalidData,
				Field:   "data_aquisicao",
				Label:   "Data inválida",
				Message: "A data de aquisição deve estar no formato YYYY-MM-DD",
			}
		}
	}

	return nil
}
