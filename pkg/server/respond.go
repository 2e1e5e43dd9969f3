package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/matzehuels/forcefield/pkg/errors"
)

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encode response", "error", err)
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, code errors.Code, format string, args ...any) {
	s.respondJSON(w, status, errorBody{Error: errorDetail{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}})
}

// respondCoded writes err with the HTTP status its code maps to.
// Uncoded errors become 500 INTERNAL_ERROR.
func (s *Server) respondCoded(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	// The code is already its own field; drop it from the message text.
	msg := strings.TrimPrefix(err.Error(), string(code)+": ")
	s.respondError(w, statusFor(code), code, "%s", msg)
}

func statusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidGraph,
		errors.ErrCodeInvalidConfig, errors.ErrCodeInvalidAlgorithm,
		errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidPreset,
		errors.ErrCodeInvalidPath:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodeJobNotFound,
		errors.ErrCodeGraphNotFound, errors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case errors.ErrCodeGraphTooLarge:
		return http.StatusRequestEntityTooLarge
	case errors.ErrCodeCanceled:
		return http.StatusConflict
	case errors.ErrCodeRateLimited:
		return http.StatusTooManyRequests
	case errors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case errors.ErrCodeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// decodeJSON decodes the request body into v, capping it at the
// configured size.
func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request body")
	}
	return nil
}
