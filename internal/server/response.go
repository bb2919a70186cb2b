package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	json "github.com/goccy/go-json"
	"go.uber.org/zap"

	"loan-collections-api/internal/models"
	"loan-collections-api/internal/utils"
)

const (
	msgInternalError = "Internal server error"
	msgInvalidBody   = "Invalid request body"
	msgValidation    = "Validation failed"

	maxBodyBytes = 1 << 20
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report fields by their JSON names.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		utils.GetLogger().Error("Failed to encode response", zap.Error(err))
	}
}

func respondOK(w http.ResponseWriter, status int, data interface{}, message string) {
	writeJSON(w, status, models.SuccessResponse(data, message))
}

func respondError(w http.ResponseWriter, status int, message string, errs ...string) {
	writeJSON(w, status, models.ErrorResponse(message, errs...))
}

// respondInternal logs err with the request context and hides it from the client.
func respondInternal(w http.ResponseWriter, r *http.Request, op string, err error, fields ...zap.Field) {
	fields = append(fields,
		zap.String("op", op),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err),
	)
	utils.GetLogger().Error("Request failed", fields...)
	respondError(w, http.StatusInternalServerError, msgInternalError)
}

// decodeAndValidate reads a JSON body into dst and runs struct validation.
// It writes the 400 response itself and reports false when the body is unusable.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil || len(body) == 0 {
		respondError(w, http.StatusBadRequest, msgInvalidBody)
		return false
	}
	if err := json.Unmarshal(body, dst); err != nil {
		respondError(w, http.StatusBadRequest, msgInvalidBody, err.Error())
		return false
	}
	if err := validate.Struct(dst); err != nil {
		respondError(w, http.StatusBadRequest, msgValidation, validationMessages(err)...)
		return false
	}
	return true
}

func validationMessages(err error) []string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", fe.Field()))
		case "max":
			msgs = append(msgs, fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param()))
		case "gt", "gte":
			msgs = append(msgs, fmt.Sprintf("%s must be %s %s", fe.Field(), comparisonWord(fe.Tag()), fe.Param()))
		case "lte":
			msgs = append(msgs, fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param()))
		case "nefield":
			msgs = append(msgs, fmt.Sprintf("%s must differ from %s", fe.Field(), fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s is invalid", fe.Field()))
		}
	}
	return msgs
}

func comparisonWord(tag string) string {
	if tag == "gt" {
		return "greater than"
	}
	return "at least"
}
