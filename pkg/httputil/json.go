package httputil

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	apperrors "github.com/matzehuels/degreetree/pkg/errors"
)

// MaxBodyBytes bounds request bodies read by [DecodeJSON].
const MaxBodyBytes = 1 << 20

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Code    apperrors.Code `json:"code"`
	Message string         `json:"message"`
}

// WriteJSON writes v as JSON with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// WriteError writes err as an [ErrorBody] and returns the status used.
func WriteError(w http.ResponseWriter, err error) int {
	body := ErrorFor(err)
	status := apperrors.HTTPStatus(body.Code)
	_ = WriteJSON(w, status, body)
	return status
}

// ErrorFor converts err to the body [WriteError] sends.
func ErrorFor(err error) ErrorBody {
	code := apperrors.GetCode(err)
	if code == "" {
		return ErrorBody{Code: apperrors.ErrCodeInternal, Message: "internal error"}
	}
	return ErrorBody{Code: code, Message: apperrors.UserMessage(err)}
}

// DecodeJSON decodes the request body into v. Empty, oversized, malformed
// or trailing-garbage bodies and unknown fields are INVALID_INPUT errors.
func DecodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return apperrors.New(apperrors.ErrCodeInvalidInput, "request body is empty")
		}
		return apperrors.New(apperrors.ErrCodeInvalidInput, "decode request body: %v", err)
	}
	if dec.More() {
		return apperrors.New(apperrors.ErrCodeInvalidInput, "request body has trailing data")
	}
	return nil
}
