package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/examforge/examforge/internal/exam"
)

var validate = validator.New()

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeErr maps the error taxonomy onto HTTP statuses. Only the stable
// classification and message go out; internal detail stays in the logs.
func writeErr(w http.ResponseWriter, err error) {
	kind := exam.KindOf(err)
	status := http.StatusInternalServerError
	switch kind {
	case exam.KindValidation:
		status = http.StatusBadRequest
	case exam.KindNotFound:
		status = http.StatusNotFound
	case exam.KindConflict:
		status = http.StatusConflict
	case exam.KindForbidden:
		status = http.StatusForbidden
	}
	msg := "internal error"
	var e *exam.Error
	if errors.As(err, &e) && kind != exam.KindInternal {
		msg = e.Message
	}
	writeJSON(w, status, map[string]string{"error": msg, "code": string(kind)})
}

// decodeValid decodes a JSON body and runs struct validation before any
// store work happens.
func decodeValid(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return exam.E(exam.KindValidation, "bad json")
	}
	if err := validate.Struct(dst); err != nil {
		return exam.E(exam.KindValidation, "missing required fields")
	}
	return nil
}
