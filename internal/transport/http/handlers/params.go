package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/vedran77/vidtube/internal/config"
	"github.com/vedran77/vidtube/internal/domain"
	"github.com/vedran77/vidtube/internal/transport/http/response"
	"github.com/vedran77/vidtube/pkg/validator"
)

const maxJSONBody = 1 << 20

// pathID reads an ObjectID path parameter. A malformed value is answered
// with 400 and ok is false.
func pathID(w http.ResponseWriter, r *http.Request, name string) (primitive.ObjectID, bool) {
	raw := chi.URLParam(r, name)
	if errs := validator.ObjectID(name, raw); errs.HasErrors() {
		response.Validation(w, errs)
		return primitive.NilObjectID, false
	}
	id, _ := primitive.ObjectIDFromHex(raw)
	return id, true
}

// decodeJSON decodes the request body into dst and validates it. It writes
// the 400 itself and reports whether the handler should continue.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxJSONBody))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			response.Error(w, http.StatusBadRequest, "Request body is required")
		} else {
			response.Error(w, http.StatusBadRequest, "Invalid request body")
		}
		return false
	}
	return validate(w, dst)
}

func validate(w http.ResponseWriter, v any) bool {
	if errs := validator.Struct(v); errs.HasErrors() {
		response.Validation(w, errs)
		return false
	}
	return true
}

// Pager turns page and limit query parameters into a domain.Page.
type Pager struct {
	DefaultLimit int64
	MaxLimit     int64
}

func NewPager(cfg config.APIConfig) Pager {
	return Pager{DefaultLimit: int64(cfg.DefaultPageSize), MaxLimit: int64(cfg.MaxPageSize)}
}

func (p Pager) Page(r *http.Request) domain.Page {
	q := r.URL.Query()
	return domain.ParsePage(q.Get("page"), q.Get("limit"), p.DefaultLimit, p.MaxLimit)
}
