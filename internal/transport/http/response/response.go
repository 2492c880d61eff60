// Package response writes the JSON envelope every API endpoint returns:
//
//	{"statusCode": 200, "data": {...}, "message": "...", "success": true}
package response

import (
	"net/http"

	"github.com/goccy/go-json"

	"github.com/vedran77/vidtube/internal/logging"
	"github.com/vedran77/vidtube/pkg/validator"
)

type Envelope struct {
	StatusCode int               `json:"statusCode"`
	Data       any               `json:"data"`
	Message    string            `json:"message"`
	Success    bool              `json:"success"`
	Errors     map[string]string `json:"errors,omitempty"`
}

// JSON writes a success envelope. Statuses of 400 and above are reported as
// failures.
func JSON(w http.ResponseWriter, status int, data any, message string) {
	write(w, &Envelope{
		StatusCode: status,
		Data:       data,
		Message:    message,
		Success:    status < http.StatusBadRequest,
	})
}

// Error writes a failure envelope with a null data field.
func Error(w http.ResponseWriter, status int, message string) {
	if message == "" {
		message = http.StatusText(status)
	}
	write(w, &Envelope{StatusCode: status, Message: message})
}

// Validation writes a 400 envelope listing every invalid field.
func Validation(w http.ResponseWriter, errs validator.ValidationErrors) {
	write(w, &Envelope{
		StatusCode: http.StatusBadRequest,
		Message:    errs.First(),
		Errors:     errs,
	})
}

func write(w http.ResponseWriter, env *Envelope) {
	body, err := json.Marshal(env)
	if err != nil {
		logging.Error().Err(err).Msg("encoding response")
		env = &Envelope{StatusCode: http.StatusInternalServerError, Message: "internal server error"}
		body, _ = json.Marshal(env)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(env.StatusCode)
	_, _ = w.Write(body)
}
