package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/hongminglow/ets-hub/internal/http/respond"
)

const maxBodyBytes = 1 << 16

// newValidator reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return errors.New("invalid JSON payload")
	}
	return nil
}

// validationFields maps each failing field to a message, plus one deterministic summary line.
func validationFields(err error) (string, map[string]string) {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return err.Error(), nil
	}
	fields := make(map[string]string, len(errs))
	for _, fe := range errs {
		field := fe.Field()
		switch fe.Tag() {
		case "required":
			fields[field] = fmt.Sprintf("%s is required", field)
		case "oneof":
			fields[field] = fmt.Sprintf("%s must be one of: %s", field, fe.Param())
		case "min":
			fields[field] = fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		case "max":
			fields[field] = fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
		default:
			fields[field] = fmt.Sprintf("%s is invalid", field)
		}
	}
	msgs := make([]string, 0, len(fields))
	for _, msg := range fields {
		msgs = append(msgs, msg)
	}
	sort.Strings(msgs)
	return strings.Join(msgs, "; "), fields
}

func invalid(w http.ResponseWriter, err error) {
	msg, fields := validationFields(err)
	respond.Invalid(w, msg, fields)
}
