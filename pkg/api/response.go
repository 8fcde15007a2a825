package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/mwantia/photolio/pkg/asset"
	"github.com/mwantia/photolio/pkg/db/store"
)

const (
	StatusSuccess = "Success"
	StatusError   = "Error"
)

var errBadRequest = errors.New("bad request")

// Result is the body every mutating route answers with.
type Result struct {
	PhotoID uint     `json:"photoID,omitempty"`
	Status  string   `json:"Status"`
	Message string   `json:"Message"`
	Failed  []string `json:"Failed,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeSuccess(w http.ResponseWriter, format string, args ...any) {
	writeJSON(w, http.StatusOK, Result{Status: StatusSuccess, Message: fmt.Sprintf(format, args...)})
}

// writeFailure answers with the status derived from err and the given message.
func writeFailure(w http.ResponseWriter, err error, format string, args ...any) {
	writeJSON(w, statusFor(err), Result{Status: StatusError, Message: fmt.Sprintf(format, args...)})
}

// statusFor maps error kinds onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, asset.ErrNotFound), errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, asset.ErrDuplicateName), errors.Is(err, store.ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, asset.ErrUnsupportedType):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, asset.ErrDecode):
		return http.StatusUnprocessableEntity
	case errors.Is(err, asset.ErrInvalidName), errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, asset.ErrMetadata):
		return http.StatusInternalServerError
	case errors.Is(err, asset.ErrPartialFailure):
		return http.StatusMultiStatus
	}

	var maxBytes *http.MaxBytesError
	if errors.As(err, &maxBytes) {
		return http.StatusRequestEntityTooLarge
	}
	return http.StatusInternalServerError
}

func badRequest(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errBadRequest, fmt.Sprintf(format, args...))
}

func decodeJSON(r *http.Request, dest any) error {
	if r.Body == nil || r.Body == http.NoBody {
		return badRequest("request body is required")
	}
	defer r.Body.Close()

	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(dest); err != nil {
		return badRequest("invalid request body: %v", err)
	}
	return nil
}

func pathID(r *http.Request, name string) (uint, error) {
	raw := r.PathValue(name)
	id, err := strconv.ParseUint(raw, 10, 0)
	if err != nil || id == 0 {
		return 0, badRequest("invalid %s %q", name, raw)
	}
	return uint(id), nil
}

// single wraps a lookup result into the zero-or-one element array the list
// routes answer with.
func single[T any](item *T, err error) ([]T, error) {
	if errors.Is(err, store.ErrNotFound) || errors.Is(err, asset.ErrNotFound) {
		return []T{}, nil
	}
	if err != nil {
		return nil, err
	}
	return []T{*item}, nil
}
