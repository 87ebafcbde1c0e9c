package imoveis

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
)

// Handler wires the HTTP surface to the repository. Each route is a linear
// pipeline: parse, validate, persist, represent, respond.
type Handler struct {
	repo *Repository
}

func NewHandler(repo *Repository) *Handler {
	return &Handler{repo: repo}
}

// Responses are pretty-printed and keep the field order structs declare;
// consumers diff them by eye.
func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	_ = enc.Encode(body)
}

type errorBody struct {
	Success        bool     `json:"success"`
	Error          string   `json:"error"`
	Message        string   `json:"message"`
	RequiredFields []string `json:"required_fields,omitempty"`
	Links          Links    `json:"links,omitempty"`
}

type resourceBody struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Data    Resource `json:"data"`
}

type collectionBody struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Total   int               `json:"total"`
	Filtro  map[string]string `json:"filtro,omitempty"`
	Links   Links             `json:"links"`
	Data    []Resource        `json:"data"`
}

func writeStorageError(w http.ResponseWriter, err error) {
	status, label := classifyStorageError(err)
	writeJSON(w, status, errorBody{
		Success: false,
		Error:   label,
		Message: err.Error(),
	})
}

func writeNotFound(w http.ResponseWriter, base string, id int64) {
	writeJSON(w, http.StatusNotFound, errorBody{
		Success: false,
		Error:   "Imóvel não encontrado",
		Message: fmt.Sprintf("Nenhum imóvel encontrado com ID %d", id),
		Links:   DiscoveryLinks(base),
	})
}

func writeValidationError(w http.ResponseWriter, verr *ValidationError) {
	body := errorBody{
		Success: false,
		Error:   verr.Label,
		Message: verr.Message,
	}
	if verr.Kind == KindMissingFields {
		body.RequiredFields = RequiredFields
	}
	writeJSON(w, http.StatusUnprocessableEntity, body)
}

func writeMalformed(w http.ResponseWriter) {
	writeJSON(w, http.StatusBadRequest, errorBody{
		Success: false,
		Error:   "Requisição inválida",
		Message: "A requisição deve conter dados JSON válidos",
	})
}

// decodeBody enforces the JSON contract: wrong Content-Type or an
// undecodable body are both malformed requests (400), before any validation.
func decodeBody(r *http.Request, p *Payload) error {
	ct := r.Header.Get("Content-Type")
	if !strings.Contains(ct, "application/json") {
		return errors.New("content-type is not application/json")
	}
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(p); err != nil {
		return err
	}
	// The body must be exactly one JSON value; trailing garbage is malformed.
	if dec.More() {
		return errors.New("unexpected data after JSON body")
	}
	return nil
}

// NotFound is the catch-all for unmatched paths, registered on every router.
func NotFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, errorBody{
		Success: false,
		Error:   "Recurso não encontrado",
		Message: "O recurso solicitado não foi encontrado no servidor",
	})
}

// MethodNotAllowed answers known paths hit with an unsupported method.
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusMethodNotAllowed, errorBody{
		Success: false,
		Error:   "Método não permitido",
		Message: fmt.Sprintf("O método %s não é suportado para este recurso", r.Method),
	})
}

type infoBody struct {
	API         string `json:"api"`
	Version     string `json:"version"`
	Description string `json:"description"`
	Status      string `json:"status"`
	Links       Links  `json:"links"`
}

// APIInfo serves the root route catalogue so clients can navigate the whole
// API from a single entry point.
func (h *Handler) APIInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, infoBody{
		API:         "API RESTful de Imóveis",
		Version:     "1.0.0",
		Description: "API para gerenciamento de imóveis de uma empresa imobiliária",
		Status:      "online",
		Links:       CatalogueLinks(BaseURL(r)),
	})
}

type healthBody struct {
	Status       string `json:"status"`
	Message      string `json:"message"`
	Database     string `json:"database"`
	TotalImoveis *int64 `json:"total_imoveis,omitempty"`
	Error        string `json:"error,omitempty"`
}

// Health performs a trivial storage read; any failure reports the service as
// unavailable rather than internal-error, since the process itself is fine.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	total, err := h.repo.Count(r.Context())
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, healthBody{
			Status:   "unhealthy",
			Message:  "Problemas na API",
			Database: "disconnected",
			Error:    err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, healthBody{
		Status:       "healthy",
		Message:      "API funcionando corretamente",
		Database:     "connected",
		TotalImoveis: &total,
	})
}

func (h *Handler) ListAll(w http.ResponseWriter, r *http.Request) {
	imoveis, err := h.repo.ListAll(r.Context())
	if err != nil {
		writeStorageError(w, err)
		return
	}

	base := BaseURL(r)
	writeJSON(w, http.StatusOK, collectionBody{
		Success: true,
		Message: fmt.Sprintf("%d imóveis encontrados", len(imoveis)),
		Total:   len(imoveis),
		Links:   CollectionLinks(base),
		Data:    RepresentCollection(imoveis, base),
	})
}

func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	base := BaseURL(r)
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		NotFound(w, r)
		return
	}

	im, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		writeStorageError(w, err)
		return
	}
	if im == nil {
		writeNotFound(w, base, id)
		return
	}

	writeJSON(w, http.StatusOK, resourceBody{
		Success: true,
		Message: "Imóvel encontrado com sucesso",
		Data:    Represent(im, base, ContextFetch),
	})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	base := BaseURL(r)

	var p Payload
	if err := decodeBody(r, &p); err != nil {
		writeMalformed(w)
		return
	}

	if verr := Validate(p, false); verr != nil {
		writeValidationError(w, verr)
		return
	}

	data, err := ParseDate(strings.TrimSpace(*p.DataAquisicao))
	if err != nil {
		// Validate already parsed it; reaching here is a programming error.
		writeStorageError(w, err)
		return
	}

	im := &Imovel{
		Logradouro:     strings.TrimSpace(*p.Logradouro),
		TipoLogradouro: strings.TrimSpace(*p.TipoLogradouro),
		Bairro:         strings.TrimSpace(*p.Bairro),
		Cidade:         strings.TrimSpace(*p.Cidade),
		CEP:            NormalizeCEP(*p.CEP),
		Tipo:           strings.ToLower(strings.TrimSpace(*p.Tipo)),
		Valor:          p.Valor,
		DataAquisicao:  data,
	}

	id, err := h.repo.Insert(r.Context(), im)
	if err != nil {
		writeStorageError(w, err)
		return
	}

	criado, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		writeStorageError(w, err)
		return
	}
	if criado == nil {
		writeJSON(w, http.StatusInternalServerError, errorBody{
			Success: false,
			Error:   "Erro interno do servidor",
			Message: "Não foi possível consultar o imóvel recém-criado",
		})
		return
	}

	writeJSON(w, http.StatusCreated, resourceBody{
		Success: true,
		Message: "Imóvel criado com sucesso",
		Data:    Represent(criado, base, ContextCreated),
	})
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	base := BaseURL(r)
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		NotFound(w, r)
		return
	}

	existente, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		writeStorageError(w, err)
		return
	}
	if existente == nil {
		writeNotFound(w, base, id)
		return
	}

	var p Payload
	if err := decodeBody(r, &p); err != nil {
		writeMalformed(w)
		return
	}

	if verr := Validate(p, true); verr != nil {
		writeValidationError(w, verr)
		return
	}

	// Collect assignment pairs in the fixed field order; only keys present in
	// the body make it into the statement.
	var ch Changes
	if p.Logradouro != nil {
		ch.Set("logradouro", strings.TrimSpace(*p.Logradouro))
	}
	if p.TipoLogradouro != nil {
		ch.Set("tipo_logradouro", strings.TrimSpace(*p.TipoLogradouro))
	}
	if p.Bairro != nil {
		ch.Set("bairro", strings.TrimSpace(*p.Bairro))
	}
	if p.Cidade != nil {
		ch.Set("cidade", strings.TrimSpace(*p.Cidade))
	}
	if p.CEP != nil {
		ch.Set("cep", NormalizeCEP(*p.CEP))
	}
	if p.Tipo != nil {
		ch.Set("tipo", strings.ToLower(strings.TrimSpace(*p.Tipo)))
	}
	if p.Valor != nil {
		ch.Set("valor", *p.Valor)
	}
	if p.DataAquisicao != nil {
		data, derr := ParseDate(strings.TrimSpace(*p.DataAquisicao))
		if derr != nil {
			writeValidationError(w, &ValidationError{
				Kind:    KindInvalidData,
				Field:   "data_aquisicao",
				Label:   "Data inválida",
				Message: "A data de aquisição deve estar no formato YYYY-MM-DD",
			})
			return
		}
		ch.Set("data_aquisicao", data)
	}

	if ch.Empty() {
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{
			Success: false,
			Error:   "Nenhum campo para atualizar",
			Message: "Pelo menos um campo deve ser fornecido para atualização",
		})
		return
	}

	ok, err := h.repo.Update(r.Context(), id, &ch)
	if err != nil {
		writeStorageError(w, err)
		return
	}
	if !ok {
		// The record passed the existence check but the update touched no
		// rows: a concurrent delete won the race. Server fault, not the
		// client's mistake.
		writeJSON(w, http.StatusInternalServerError, errorBody{
			Success: false,
			Error:   "Falha na atualização",
			Message: "Não foi possível atualizar o imóvel",
		})
		return
	}

	atualizado, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		writeStorageError(w, err)
		return
	}
	if atualizado == nil {
		writeNotFound(w, base, id)
		return
	}

	writeJSON(w, http.StatusOK, resourceBody{
		Success: true,
		Message: "Imóvel atualizado com sucesso",
		Data:    Represent(atualizado, base, ContextUpdated),
	})
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	base := BaseURL(r)
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		NotFound(w, r)
		return
	}

	existente, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		writeStorageError(w, err)
		return
	}
	if existente == nil {
		writeNotFound(w, base, id)
		return
	}

	ok, err := h.repo.Delete(r.Context(), id)
	if err != nil {
		writeStorageError(w, err)
		return
	}
	if !ok {
		writeJSON(w, http.StatusInternalServerError, errorBody{
			Success: false,
			Error:   "Falha na remoção",
			Message: "Não foi possível remover o imóvel",
		})
		return
	}

	// The snapshot read before the delete is the last trace of the resource.
	writeJSON(w, http.StatusOK, resourceBody{
		Success: true,
		Message: fmt.Sprintf("Imóvel com ID %d removido com sucesso", id),
		Data:    Represent(existente, base, ContextDeleted),
	})
}

func (h *Handler) ListByTipo(w http.ResponseWriter, r *http.Request) {
	tipo := chi.URLParam(r, "tipo")
	imoveis, err := h.repo.ListByTipo(r.Context(), tipo)
	if err != nil {
		writeStorageError(w, err)
		return
	}

	base := BaseURL(r)
	writeJSON(w, http.StatusOK, collectionBody{
		Success: true,
		Message: fmt.Sprintf("%d imóveis do tipo %q encontrados", len(imoveis), tipo),
		Total:   len(imoveis),
		Filtro:  map[string]string{"tipo": tipo},
		Links:   CollectionLinks(base),
		Data:    RepresentCollection(imoveis, base),
	})
}

func (h *Handler) ListByCidade(w http.ResponseWriter, r *http.Request) {
	cidade := chi.URLParam(r, "cidade")
	imoveis, err := h.repo.ListByCidade(r.Context(), cidade)
	if err != nil {
		writeStorageError(w, err)
		return
	}

	base := BaseURL(r)
	writeJSON(w, http.StatusOK, collectionBody{
		Success: true,
		Message: fmt.Sprintf("%d imóveis na cidade %q encontrados", len(imoveis), cidade),
		Total:   len(imoveis),
		Filtro:  map[string]string{"cidade": cidade},
		Links:   CollectionLinks(base),
		Data:    RepresentCollection(imoveis, base),
	})
}
