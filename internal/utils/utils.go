package utils

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/grvbrk/vidhook_server/internal/errs"
)

type Envelope map[string]interface{}

func WriteJSON(w http.ResponseWriter, status int, data Envelope) {
	js, err := json.MarshalIndent(data, "", " ")
	if err != nil {
		fmt.Printf("error marshaling JSON: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	js = append(js, '\n')
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if _, err := w.Write(js); err != nil {
		fmt.Printf("error writing JSON response: %v", err)
	}
}

var codeStatus = map[string]int{
	errs.EINVALID:      http.StatusBadRequest,
	errs.EUNAUTHORIZED: http.StatusUnauthorized,
	errs.EFORBIDDEN:    http.StatusForbidden,
	errs.ENOTFOUND:     http.StatusNotFound,
	errs.ECONFLICT:     http.StatusConflict,
	errs.EINTERNAL:     http.StatusInternalServerError,
}

// ErrorStatus returns the HTTP status for an application error code.
func ErrorStatus(code string) int {
	if status, ok := codeStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// WriteError writes err as {"message": ...}. Internal errors are logged and
// replaced with a generic message.
func WriteError(w http.ResponseWriter, logger *log.Logger, err error) {
	code := errs.ErrorCode(err)
	if code == errs.EINTERNAL && logger != nil {
		logger.Println("Internal error:", err)
	}
	WriteJSON(w, ErrorStatus(code), Envelope{"message": errs.ErrorMessage(err)})
}

// ReadUUIDQuery reads a required uuid query parameter.
func ReadUUIDQuery(r *http.Request, name string) (uuid.UUID, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return uuid.Nil, errs.Errorf(errs.EINVALID, "%s is required", name)
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, errs.Errorf(errs.EINVALID, "%s must be a valid id", name)
	}
	return id, nil
}
