package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"menuhub/internal/model"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" {
			return f.Name
		}
		return tag
	})
	return v
}

// statusFor maps a domain error code to an HTTP status.
func statusFor(code string) int {
	switch code {
	case model.ErrCodeOrderNotFound, model.ErrCodeMenuItemNotFound,
		model.ErrCodeInventoryNotFound, model.ErrCodeItemNotInOrder:
		return http.StatusNotFound
	case model.ErrCodeInvalidArgument:
		return http.StatusBadRequest
	case model.ErrCodeNotModifiable, model.ErrCodeInvalidTransition, model.ErrCodeConflict:
		return http.StatusConflict
	case model.ErrCodeInsufficientStock, model.ErrCodeEmptyOrder:
		return http.StatusUnprocessableEntity
	case model.ErrCodeBusy:
		return http.StatusServiceUnavailable
	case model.ErrCodeUnauthorised:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// The status line is already out, an encode failure cannot be reported
	_ = json.NewEncoder(w).Encode(data)
}

// writeError translates err into a status and an ErrorResponse. Internal
// errors are logged in full and reported without detail.
func writeError(w http.ResponseWriter, r *http.Request, err error, logger zerolog.Logger) {
	code := model.CodeOf(err)
	status := statusFor(code)

	message := "internal server error"
	var de *model.DomainError
	if errors.As(err, &de) && status != http.StatusInternalServerError {
		message = de.Message
	}

	event := logger.Warn()
	if status >= http.StatusInternalServerError && code != model.ErrCodeBusy {
		event = logger.Error()
	}
	event.Err(err).
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Int("status", status).
		Str("code", code).
		Msg("request failed")

	if code == model.ErrCodeBusy {
		w.Header().Set("Retry-After", "1")
	}
	writeJSON(w, status, model.ErrorResponse{Error: code, Message: message})
}

func badRequest(format string, args ...any) error {
	return model.Errorf(model.ErrCodeInvalidArgument, format, args...)
}

// decodeJSONBody decodes a strict JSON body into dest and validates it.
func decodeJSONBody(r *http.Request, dest any) error {
	defer func() {
		_, _ = io.Copy(io.Discard, r.Body)
	}()

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dest); err != nil {
		return model.WrapDomainError(model.ErrCodeInvalidArgument, err, "invalid request body")
	}
	if err := validate.Struct(dest); err != nil {
		return validationError(err)
	}
	return nil
}

func validationError(err error) error {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return model.WrapDomainError(model.ErrCodeInvalidArgument, err, "validation failed")
	}

	parts := make([]string, 0, len(errs))
	for _, fe := range errs {
		parts = append(parts, fe.Field()+" "+validationMessage(fe))
	}
	return model.WrapDomainError(model.ErrCodeInvalidArgument, err, "validation failed: "+strings.Join(parts, "; "))
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "required_without":
		return "is required"
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", fe.Param())
	}
	return "is invalid"
}

func orderIDParam(r *http.Request) (uuid.UUID, error) {
	raw := strings.TrimSpace(chi.URLParam(r, "orderId"))
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, badRequest("invalid order id %q", raw)
	}
	return id, nil
}

func menuItemIDParam(r *http.Request) (int64, error) {
	raw := strings.TrimSpace(chi.URLParam(r, "menuItemId"))
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, badRequest("invalid menu item id %q", raw)
	}
	return id, nil
}

// queryInt reads an integer query parameter bounded to [lo, hi].
func queryInt(r *http.Request, key string, defaultVal, lo, hi int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return defaultVal, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, badRequest("query parameter %s must be numeric", key)
	}
	if value < lo || value > hi {
		return 0, badRequest("query parameter %s must be between %d and %d", key, lo, hi)
	}
	return value, nil
}
