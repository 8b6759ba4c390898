package validate

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/suppertable/experience-service/internal/domain"
)

var v = validator.New()

func DecodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

func IsUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}

// Struct runs the `validate` tags on a request DTO and folds failures into a
// single validation error with per-field meta.
func Struct(dst any) error {
	err := v.Struct(dst)
	if err == nil {
		return nil
	}

	fields, ok := err.(validator.ValidationErrors)
	if !ok {
		return domain.ErrValidation("invalid request body")
	}

	meta := make(map[string]string, len(fields))
	for _, f := range fields {
		meta[f.Field()] = "failed on: " + f.Tag()
	}
	return domain.ErrValidationMeta("invalid request body", meta)
}
