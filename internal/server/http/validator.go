package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// report json field names instead of Go ones
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// FormatValidationError formats validation errors into a field -> message map.
func FormatValidationError(err error) map[string]string {
	if err == nil {
		return nil
	}

	out := make(map[string]string)
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		out["error"] = "Invalid request format"
		return out
	}
	for _, e := range ve {
		field := e.Field()
		switch e.Tag() {
		case "required":
			out[field] = "This field is required"
		case "max":
			out[field] = fmt.Sprintf("Must be at most %s characters", e.Param())
		case "excludesall":
			out[field] = "Contains invalid characters"
		default:
			out[field] = "Invalid value"
		}
	}
	return out
}

// decodeAndValidate reads a JSON body into dst and validates it. It writes the
// error response itself and reports whether the handler may continue.
func (s *Server) decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(s.log, w, http.StatusRequestEntityTooLarge, msgBodyTooLarge)
			return false
		}
		respondError(s.log, w, http.StatusUnprocessableEntity, "Failed to deserialize the JSON body: "+err.Error())
		return false
	}
	if err := validate.Struct(dst); err != nil {
		respondFields(s.log, w, http.StatusUnprocessableEntity, msgInvalidRequest, FormatValidationError(err))
		return false
	}
	return true
}
