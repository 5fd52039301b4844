package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gartstein/partners/internal/directory/auth"
	e "github.com/gartstein/partners/internal/directory/errors"
	"github.com/gartstein/partners/internal/directory/models"
	"github.com/qri-io/jsonschema"
	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20

// envelope is the shape of every API response.
type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

var statusByCode = map[string]int{
	e.CodeValidation:   http.StatusBadRequest,
	e.CodeInvalidAuth:  http.StatusUnauthorized,
	e.CodeNotFound:     http.StatusNotFound,
	e.CodeUploadFailed: http.StatusBadGateway,
	e.CodeUpstream:     http.StatusBadGateway,
	e.CodeInternal:     http.StatusInternalServerError,
}

// Messages for failures whose cause must not reach the client.
var genericMessages = map[string]string{
	e.CodeUploadFailed: "file upload failed",
	e.CodeUpstream:     "upstream service unavailable",
	e.CodeInternal:     "internal server error",
}

func writeJSON(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func (a *API) ok(w http.ResponseWriter, data any, message string) {
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: data, Message: message})
}

func (a *API) created(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusCreated, envelope{Success: true, Data: data})
}

// fail maps a service error to its status code and stable error code.
func (a *API) fail(w http.ResponseWriter, r *http.Request, err error) {
	code := e.Code(err)
	status := statusByCode[code]
	message, hidden := genericMessages[code]
	if hidden {
		a.logger.Error("Request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("code", code),
			zap.Error(err),
		)
	} else {
		message = err.Error()
	}
	writeJSON(w, status, envelope{Success: false, Error: code, Message: message})
}

// decode reads a JSON body, checks it against schemas and unmarshals it into dst.
// An empty body is treated as an empty object.
func (a *API) decode(w http.ResponseWriter, r *http.Request, dst any, schemas ...*jsonschema.Schema) error {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return e.Invalid("request body is too large or unreadable")
	}
	if len(bytes.TrimSpace(body)) == 0 {
		body = []byte("{}")
	}
	if !json.Valid(body) {
		return e.Invalid("request body is not valid JSON")
	}
	for _, schema := range schemas {
		if err := validateSchema(r.Context(), schema, body); err != nil {
			return err
		}
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return e.Invalid("request body has the wrong shape")
	}
	return nil
}

// callerSecret returns the first non-empty secret from the body, then the X-Password header.
func callerSecret(r *http.Request, fromBody ...string) string {
	for _, s := range fromBody {
		if s != "" {
			return s
		}
	}
	return auth.SecretFromContext(r.Context())
}

func parseID(pathParams map[string]string) (int64, error) {
	id, err := strconv.ParseInt(pathParams["id"], 10, 64)
	if err != nil || id <= 0 {
		return 0, e.Invalid("invalid id %q", pathParams["id"])
	}
	return id, nil
}

func parsePage(r *http.Request) (models.Page, error) {
	q := r.URL.Query()
	var p models.Page
	var err error
	if v := q.Get("page"); v != "" {
		if p.Number, err = strconv.Atoi(v); err != nil {
			return p, e.Invalid("page must be an integer")
		}
	}
	if v := q.Get("limit"); v != "" {
		if p.Limit, err = strconv.Atoi(v); err != nil {
			return p, e.Invalid("limit must be an integer")
		}
	}
	return p, nil
}

// parseList reads a comma separated query parameter. Repeated parameters are merged.
func parseList(r *http.Request, key string) []string {
	var out []string
	for _, raw := range r.URL.Query()[key] {
		for _, part := range strings.Split(raw, ",") {
			if v := strings.TrimSpace(part); v != "" {
				out = append(out, v)
			}
		}
	}
	return out
}

func parseBool(r *http.Request, key string) (*bool, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return nil, e.Invalid("%s must be true or false", key)
	}
	return &b, nil
}
