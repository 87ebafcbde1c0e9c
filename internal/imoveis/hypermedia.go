package imoveis

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
)

// Route identifies a named route in the API's link catalogue. Links are never
// assembled from ad-hoc strings: every URL the API hands out goes through
// BuildURL against this registry.
type Route int

const (
	RouteRaiz Route = iota
	RouteHealth
	RouteColecao
	RouteImovel
	RoutePorTipo
	RoutePorCidade
)

var routeTemplates = map[Route]string{
	RouteRaiz:      "/",
	RouteHealth:    "/health",
	RouteColecao:   "/imoveis",
	RouteImovel:    "/imoveis/{id}",
	RoutePorTipo:   "/imoveis/tipo/{tipo}",
	RoutePorCidade: "/imoveis/cidade/{cidade}",
}

// BuildURL resolves a named route against a base address. Placeholders with
// no matching param stay literal: that is how templated links such as
// /imoveis/tipo/{tipo} are advertised, so the token must not be
// percent-encoded away.
func BuildURL(base string, route Route, params map[string]string) string {
	path := routeTemplates[route]
	for name, value := range params {
		path = strings.ReplaceAll(path, "{"+name+"}", value)
	}
	return strings.TrimRight(base, "/") + path
}

// BaseURL reconstructs the absolute address the client used to reach the
// service, honoring the proxy's X-Forwarded-Proto when present.
func BaseURL(r *http.Request) string {
	scheme := "http"
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	} else if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}

// Link describes one action a client can take from the current resource.
type Link struct {
	Href      string `json:"href"`
	Method    string `json:"method"`
	Title     string `json:"title"`
	Templated bool   `json:"templated,omitempty"`
}

type linkEntry struct {
	rel  string
	link Link
}

// Links is an ordered rel → Link sequence. JSON objects built from Go maps
// lose insertion order, so Links marshals itself entry by entry.
type Links []linkEntry

func (ls *Links) Add(rel string, link Link) {
	*ls = append(*ls, linkEntry{rel: rel, link: link})
}

// Rel returns the link registered under rel, if any.
func (ls Links) Rel(rel string) (Link, bool) {
	for _, e := range ls {
		if e.rel == rel {
			return e.link, true
		}
	}
	return Link{}, false
}

func (ls Links) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range ls {
		if i > 0 {
			buf.WriteByte(',')
		}
		rel, err := json.Marshal(e.rel)
		if err != nil {
			return nil, err
		}
		buf.Write(rel)
		buf.WriteByte(':')
		link, err := json.Marshal(e.link)
		if err != nil {
			return nil, err
		}
		buf.Write(link)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// LinkContext selects which link set a resource representation carries,
// depending on where in its lifecycle the client is looking at it.
type LinkContext int

const (
	// ContextFetch is a direct GET of one resource.
	ContextFetch LinkContext = iota
	// ContextItem is a resource embedded in a collection listing.
	ContextItem
	// ContextCreated is the representation returned right after a POST.
	ContextCreated
	// ContextUpdated is the representation returned right after a PUT.
	ContextUpdated
	// ContextDeleted is the snapshot returned after a DELETE; the resource no
	// longer exists, so it carries no self/edit/delete links.
	ContextDeleted
)

// Resource is the API-facing representation of an Imovel. Field order is part
// of the contract: id first, then the record fields, links last.
type Resource struct {
	ID             int64    `json:"id"`
	Logradouro     string   `json:"logradouro"`
	TipoLogradouro string   `json:"tipo_logradouro"`
	Bairro         string   `json:"bairro"`
	Cidade         string   `json:"cidade"`
	CEP            string   `json:"cep"`
	Tipo           string   `json:"tipo"`
	Valor          *float64 `json:"valor"`
	DataAquisicao  string   `json:"data_aquisicao"`
	Links          Links    `json:"links"`
}

// Represent converts a record into its representation for the given context.
// Pure transformation: the only inputs are the record, the base URL and the
// context.
func Represent(im *Imovel, base string, ctx LinkContext) Resource {
	res := Resource{
		ID:             im.ID,
		Logradouro:     im.Logradouro,
		TipoLogradouro: im.TipoLogradouro,
		Bairro:         im.Bairro,
		Cidade:         im.Cidade,
		CEP:            im.CEP,
		Tipo:           im.Tipo,
		Valor:          im.Valor,
		DataAquisicao:  im.DataAquisicao.String(),
	}

	selfHref := BuildURL(base, RouteImovel, map[string]string{"id": strconv.FormatInt(im.ID, 10)})
	colHref := BuildURL(base, RouteColecao, nil)

	self := Link{Href: selfHref, Method: http.MethodGet, Title: "Consultar este imóvel"}
	edit := Link{Href: selfHref, Method: http.MethodPut, Title: "Atualizar este imóvel"}
	remove := Link{Href: selfHref, Method: http.MethodDelete, Title: "Remover este imóvel"}
	collection := Link{Href: colHref, Method: http.MethodGet, Title: "Listar todos os imóveis"}
	create := Link{Href: colHref, Method: http.MethodPost, Title: "Cadastrar novo imóvel"}

	switch ctx {
	case ContextItem:
		res.Links.Add("self", self)
		res.Links.Add("edit", edit)
		res.Links.Add("delete", remove)
	case ContextFetch:
		res.Links.Add("self", self)
		res.Links.Add("edit", edit)
		res.Links.Add("delete", remove)
		res.Links.Add("collection", collection)
	case ContextCreated:
		res.Links.Add("self", self)
		res.Links.Add("edit", edit)
		res.Links.Add("delete", remove)
		res.Links.Add("collection", collection)
		create.Title = "Cadastrar outro imóvel"
		res.Links.Add("create_another", create)
	case ContextUpdated:
		res.Links.Add("self", self)
		edit.Title = "Atualizar este imóvel novamente"
		res.Links.Add("edit_again", edit)
		res.Links.Add("delete", remove)
		res.Links.Add("collection", collection)
	case ContextDeleted:
		res.Links.Add("collection", collection)
		res.Links.Add("create", create)
		create.Title = "Cadastrar um imóvel semelhante"
		res.Links.Add("create_similar", create)
	}

	return res
}

// RepresentCollection enhances each record for embedding under data.
func RepresentCollection(imoveis []Imovel, base string) []Resource {
	data := make([]Resource, 0, len(imoveis))
	for i := range imoveis {
		data = append(data, Represent(&imoveis[i], base, ContextItem))
	}
	return data
}

// CollectionLinks are the collection-level links: the listing itself, the
// create action, and the two templated search links.
func CollectionLinks(base string) Links {
	var ls Links
	ls.Add("self", Link{
		Href:   BuildURL(base, RouteColecao, nil),
		Method: http.MethodGet,
		Title:  "Listar todos os imóveis",
	})
	ls.Add("create", Link{
		Href:   BuildURL(base, RouteColecao, nil),
		Method: http.MethodPost,
		Title:  "Cadastrar novo imóvel",
	})
	ls.Add("por_tipo", Link{
		Href:      BuildURL(base, RoutePorTipo, nil),
		Method:    http.MethodGet,
		Title:     "Buscar imóveis por tipo",
		Templated: true,
	})
	ls.Add("por_cidade", Link{
		Href:      BuildURL(base, RoutePorCidade, nil),
		Method:    http.MethodGet,
		Title:     "Buscar imóveis por cidade",
		Templated: true,
	})
	return ls
}

// DiscoveryLinks point a lost client (404 bodies) back to the collection.
func DiscoveryLinks(base string) Links {
	var ls Links
	ls.Add("collection", Link{
		Href:   BuildURL(base, RouteColecao, nil),
		Method: http.MethodGet,
		Title:  "Listar todos os imóveis",
	})
	ls.Add("create", Link{
		Href:   BuildURL(base, RouteColecao, nil),
		Method: http.MethodPost,
		Title:  "Cadastrar novo imóvel",
	})
	return ls
}

// CatalogueLinks is the full route catalogue served at the API root.
func CatalogueLinks(base string) Links {
	var ls Links
	ls.Add("self", Link{
		Href:   BuildURL(base, RouteRaiz, nil),
		Method: http.MethodGet,
		Title:  "Informações da API",
	})
	ls.Add("health", Link{
		Href:   BuildURL(base, RouteHealth, nil),
		Method: http.MethodGet,
		Title:  "Verificar saúde da API",
	})
	ls.Add("listar", Link{
		Href:   BuildURL(base, RouteColecao, nil),
		Method: http.MethodGet,
		Title:  "Listar todos os imóveis",
	})
	ls.Add("criar", Link{
		Href:   BuildURL(base, RouteColecao, nil),
		Method: http.MethodPost,
		Title:  "Cadastrar novo imóvel",
	})
	ls.Add("buscar", Link{
		Href:      BuildURL(base, RouteImovel, nil),
		Method:    http.MethodGet,
		Title:     "Consultar imóvel por ID",
		Templated: true,
	})
	ls.Add("atualizar", Link{
		Href:      BuildURL(base, RouteImovel, nil),
		Method:    http.MethodPut,
		Title:     "Atualizar imóvel existente",
		Templated: true,
	})
	ls.Add("remover", Link{
		Href:      BuildURL(base, RouteImovel, nil),
		Method:    http.MethodDelete,
		Title:     "Remover imóvel",
		Templated: true,
	})
	ls.Add("por_tipo", Link{
		Href:      BuildURL(base, RoutePorTipo, nil),
		Method:    http.MethodGet,
		Title:     "Buscar imóveis por tipo",
		Templated: true,
	})
	ls.Add("por_cidade", Link{
		Href:      BuildURL(base, RoutePorCidade, nil),
		Method:    http.MethodGet,
		Title:     "Buscar imóveis por cidade",
		Templated: true,
	})
	return ls
}
