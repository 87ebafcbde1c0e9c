package imoveis_test

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/imovelhub/imoveis-api/internal/imoveis"
)

func TestBuildURL_ConcreteParams(t *testing.T) {
	got := imoveis.BuildURL("http://api.local", imoveis.RouteImovel, map[string]string{"id": "7"})
	if got != "http://api.local/imoveis/7" {
		t.Errorf("BuildURL = %q, want %q", got, "http://api.local/imoveis/7")
	}
}

func TestBuildURL_TemplatedPlaceholderStaysLiteral(t *testing.T) {
	got := imoveis.BuildURL("http://api.local", imoveis.RoutePorTipo, nil)
	if got != "http://api.local/imoveis/tipo/{tipo}" {
		t.Errorf("BuildURL = %q, want literal placeholder preserved", got)
	}
	if strings.Contains(got, "%7B") {
		t.Errorf("placeholder was percent-encoded: %q", got)
	}
}

func TestBuildURL_TrailingSlashBase(t *testing.T) {
	got := imoveis.BuildURL("http://api.local/", imoveis.RouteColecao, nil)
	if got != "http://api.local/imoveis" {
		t.Errorf("BuildURL = %q, want no double slash", got)
	}
}

func TestBaseURL(t *testing.T) {
	r := httptest.NewRequest("GET", "http://api.local/imoveis", nil)
	if got := imoveis.BaseURL(r); got != "http://api.local" {
		t.Errorf("BaseURL = %q, want %q", got, "http://api.local")
	}

	r.Header.Set("X-Forwarded-Proto", "https")
	if got := imoveis.BaseURL(r); got != "https://api.local" {
		t.Errorf("BaseURL with X-Forwarded-Proto = %q, want %q", got, "https://api.local")
	}
}

// Links must serialize as an object whose keys appear in insertion order.
func TestLinksMarshalKeepsOrder(t *testing.T) {
	var ls imoveis.Links
	ls.Add("self", imoveis.Link{Href: "http://a/1", Method: "GET", Title: "x"})
	ls.Add("edit", imoveis.Link{Href: "http://a/1", Method: "PUT", Title: "y"})
	ls.Add("delete", imoveis.Link{Href: "http://a/1", Method: "DELETE", Title: "z"})

	raw, err := json.Marshal(ls)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	s := string(raw)

	selfIdx := strings.Index(s, `"self"`)
	editIdx := strings.Index(s, `"edit"`)
	deleteIdx := strings.Index(s, `"delete"`)
	if selfIdx < 0 || editIdx < 0 || deleteIdx < 0 {
		t.Fatalf("missing rel in output: %s", s)
	}
	if !(selfIdx < editIdx && editIdx < deleteIdx) {
		t.Errorf("rels out of insertion order: %s", s)
	}
}

func sampleImovel() *imoveis.Imovel {
	valor := 250000.0
	data, _ := imoveis.ParseDate("2024-01-01")
	return &imoveis.Imovel{
		ID:             7,
		Logradouro:     "Rua A",
		TipoLogradouro: "Rua",
		Bairro:         "Centro",
		Cidade:         "São Paulo",
		CEP:            "01234567",
		Tipo:           "casa",
		Valor:          &valor,
		DataAquisicao:  data,
	}
}

func TestRepresentFetch(t *testing.T) {
	res := imoveis.Represent(sampleImovel(), "http://api.local", imoveis.ContextFetch)

	if res.DataAquisicao != "2024-01-01" {
		t.Errorf("DataAquisicao = %q, want %q", res.DataAquisicao, "2024-01-01")
	}

	self, ok := res.Links.Rel("self")
	if !ok {
		t.Fatal("missing self link")
	}
	if self.Href != "http://api.local/imoveis/7" || self.Method != "GET" {
		t.Errorf("unexpected self link: %+v", self)
	}
	if edit, ok := res.Links.Rel("edit"); !ok || edit.Method != "PUT" {
		t.Errorf("unexpected edit link: %+v", edit)
	}
	if _, ok := res.Links.Rel("collection"); !ok {
		t.Error("missing collection link")
	}
}

func TestRepresentCreatedOffersCreateAnother(t *testing.T) {
	res := imoveis.Represent(sampleImovel(), "http://api.local", imoveis.ContextCreated)
	if _, ok := res.Links.Rel("create_another"); !ok {
		t.Error("missing create_another link")
	}
}

func TestRepresentUpdatedOffersEditAgain(t *testing.T) {
	res := imoveis.Represent(sampleImovel(), "http://api.local", imoveis.ContextUpdated)
	if _, ok := res.Links.Rel("edit_again"); !ok {
		t.Error("missing edit_again link")
	}
	if _, ok := res.Links.Rel("edit"); ok {
		t.Error("edit link should be replaced by edit_again after an update")
	}
}

// After a delete the resource no longer exists: the snapshot keeps the field
// values but must not point at itself.
func TestRepresentDeleted(t *testing.T) {
	res := imoveis.Represent(sampleImovel(), "http://api.local", imoveis.ContextDeleted)

	for _, rel := range []string{"self", "edit", "delete"} {
		if _, ok := res.Links.Rel(rel); ok {
			t.Errorf("deleted representation must not carry %q link", rel)
		}
	}
	for _, rel := range []string{"collection", "create", "create_similar"} {
		if _, ok := res.Links.Rel(rel); !ok {
			t.Errorf("deleted representation missing %q link", rel)
		}
	}
}

func TestCollectionLinksTemplatedSearch(t *testing.T) {
	ls := imoveis.CollectionLinks("http://api.local")

	porTipo, ok := ls.Rel("por_tipo")
	if !ok {
		t.Fatal("missing por_tipo link")
	}
	if !strings.Contains(porTipo.Href, "{tipo}") {
		t.Errorf("por_tipo href lost its placeholder: %q", porTipo.Href)
	}
	if !porTipo.Templated {
		t.Error("por_tipo should be flagged templated")
	}

	porCidade, ok := ls.Rel("por_cidade")
	if !ok {
		t.Fatal("missing por_cidade link")
	}
	if !strings.Contains(porCidade.Href, "{cidade}") {
		t.Errorf("por_cidade href lost its placeholder: %q", porCidade.Href)
	}
}
