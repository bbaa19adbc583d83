package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/nikolayk812/storefront/internal/domain"
)

// bind decodes the JSON body into out and validates it against the struct
// tags, mapping the first failure to a domain validation error.
func bind(r *http.Request, v *validator.Validate, out any) error {
	if err := json.NewDecoder(r.Body).Decode(out); err != nil {
		return domain.ValidationError{Field: "body", Reason: "invalid JSON"}
	}

	if err := v.Struct(out); err != nil {
		var fieldErrors validator.ValidationErrors
		if errors.As(err, &fieldErrors) && len(fieldErrors) > 0 {
			fe := fieldErrors[0]
			return domain.ValidationError{
				Field:  strings.ToLower(fe.Field()[:1]) + fe.Field()[1:],
				Reason: "failed " + fe.Tag() + " validation",
			}
		}
		return domain.ValidationError{Field: "body", Reason: err.Error()}
	}

	return nil
}
