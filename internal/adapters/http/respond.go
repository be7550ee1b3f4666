package httpadapter

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"referraldesk/internal/apperrors"
)

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorBody struct {
	Code    apperrors.Code `json:"code"`
	Message string         `json:"message"`
}

// respondError maps the error taxonomy onto HTTP. Gateway failures keep
// a generic message; everything else is shown as-is.
func (s *Server) respondError(w http.ResponseWriter, err error) {
	code := apperrors.CodeOf(err)
	status := http.StatusInternalServerError
	message := err.Error()
	switch code {
	case apperrors.CodeValidation:
		status = http.StatusBadRequest
	case apperrors.CodeDuplicate:
		status = http.StatusConflict
	case apperrors.CodeNotFound:
		status = http.StatusNotFound
	case apperrors.CodeGateway:
		status = http.StatusBadGateway
		message = "operation failed, please try again"
		s.log.Warn("gateway failure", zap.Error(err))
	case apperrors.CodePartialWorkflow:
		status = http.StatusInternalServerError
	}
	respondJSON(w, status, errorBody{Code: code, Message: message})
}

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apperrors.Wrap(apperrors.CodeValidation, "invalid request body", err)
	}
	return nil
}

// companyID extracts the scope header. Every scoped handler begins here;
// there is no ambient current-company state.
func companyID(r *http.Request) (string, error) {
	id := r.Header.Get("X-Company-ID")
	if id == "" {
		return "", apperrors.New(apperrors.CodeValidation, "X-Company-ID header is required")
	}
	return id, nil
}
