package environment

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/jonesrussell/coffee-shop/envconfig/internal/validation"
)

// ErrInvalidEnvironment wraps every failed Validate.
var ErrInvalidEnvironment = errors.New("invalid environment")

// tenantTag rejects a full tenant host where only the prefix belongs.
const tenantTag = "auth0_tenant"

// fieldValidator reports failures under the front-end key names
// ("auth0.clientId") rather than Go field names.
var fieldValidator = sync.OnceValues(func() (*validator.Validate, error) {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	if err := v.RegisterValidation(tenantTag, isTenantPrefix); err != nil {
		return nil, fmt.Errorf("register %s: %w", tenantTag, err)
	}
	return v, nil
})

// isTenantPrefix fails for "dev-x.us.auth0.com"; auth0.Tenant.Domain appends
// the suffix itself.
func isTenantPrefix(fl validator.FieldLevel) bool {
	return !strings.HasSuffix(strings.ToLower(fl.Field().String()), TenantDomainSuffix)
}

// Validate checks every field and returns all failures joined, wrapped in
// ErrInvalidEnvironment. Use validation.Fields to list them.
func (e Environment) Validate() error {
	var errs []error

	v, err := fieldValidator()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidEnvironment, err)
	}

	if err := v.Struct(e); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return fmt.Errorf("%w: %w", ErrInvalidEnvironment, err)
		}
		for _, fe := range fieldErrs {
			errs = append(errs, &validation.ValidationError{
				Field:   fieldPath(fe.Namespace()),
				Message: messageFor(fe.Tag()),
			})
		}
	}

	if e.Production && e.IsTemplate() {
		errs = append(errs, &validation.ValidationError{
			Field:   "production",
			Message: "template placeholder values are not allowed in production",
		})
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidEnvironment, errors.Join(errs...))
}

// fieldPath drops the leading struct name from "Environment.auth0.url".
func fieldPath(namespace string) string {
	_, path, found := strings.Cut(namespace, ".")
	if !found {
		return namespace
	}
	return path
}

func messageFor(tag string) string {
	switch tag {
	case "required":
		return "is required"
	case "http_url":
		return "must be an absolute http or https URL"
	case "hostname_rfc1123":
		return "must be a bare tenant prefix such as dev-xxxx.us"
	case tenantTag:
		return "must be the tenant prefix without " + TenantDomainSuffix
	default:
		return "failed " + tag + " check"
	}
}
