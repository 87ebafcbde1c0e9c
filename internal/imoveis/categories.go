package imoveis

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/goccy/go-yaml"
)

//go:embed categories.yaml
var categoriesYAML []byte

// TiposValidos is the closed set of accepted property categories, in the
// order they are listed in validation messages.
var TiposValidos []string

var tipoSet map[string]struct{}

func init() {
	var doc struct {
		Tipos []string `yaml:"tipos"`
	}
	if err := yaml.Unmarshal(categoriesYAML, &doc); err != nil {
		panic(fmt.Sprintf("imoveis: invalid categories.yaml: %v", err))
	}
	if len(doc.Tipos) == 0 {
		panic("imoveis: categories.yaml lists no tipos")
	}

	TiposValidos = doc.Tipos
	tipoSet = make(map[string]struct{}, len(doc.Tipos))
	for _, tipo := range doc.Tipos {
		tipoSet[strings.ToLower(tipo)] = struct{}{}
	}
}

// TipoValido reports whether tipo belongs to the configured category set.
// The comparison is case-insensitive.
func TipoValido(tipo string) bool {
	_, ok := tipoSet[strings.ToLower(strings.TrimSpace(tipo))]
	return ok
}
