package formz

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Validator checks one source value.
//
// values is a copy of the aggregate value map at the time the validation
// was issued, so cross-field rules can consult other sources. Domain
// failures are returned as an error list; a nil list means valid. A
// non-nil error means the validation itself could not run and marks the
// source with FailureMarker.
type Validator interface {
	Validate(ctx context.Context, name string, value any, values map[string]any) ([]string, error)
}

// ValidatorFunc adapts a function to the Validator interface.
type ValidatorFunc func(ctx context.Context, name string, value any, values map[string]any) ([]string, error)

// Validate calls f.
func (f ValidatorFunc) Validate(ctx context.Context, name string, value any, values map[string]any) ([]string, error) {
	return f(ctx, name, value, values)
}

// NullValidator accepts every value.
type NullValidator struct{}

// Validate always reports no errors.
func (NullValidator) Validate(context.Context, string, any, map[string]any) ([]string, error) {
	return nil, nil
}

// Ensure the built-in validators implement Validator.
var (
	_ Validator = NullValidator{}
	_ Validator = ValidatorFunc(nil)
	_ Validator = (*RuleValidator)(nil)
)

// RuleValidator validates each source against a go-playground/validator
// tag expression, e.g. "required,email". Sources without a rule are
// always valid.
type RuleValidator struct {
	rules    map[string]string
	validate *validator.Validate
}

// NewRuleValidator creates a RuleValidator from a map of source name to
// validation tag.
func NewRuleValidator(rules map[string]string) *RuleValidator {
	copied := make(map[string]string, len(rules))
	for name, rule := range rules {
		copied[name] = rule
	}
	return &RuleValidator{
		rules:    copied,
		validate: validator.New(),
	}
}

// Validate implements Validator. A malformed rule is reported as an error.
func (r *RuleValidator) Validate(ctx context.Context, name string, value any, _ map[string]any) (errs []string, err error) {
	rule, ok := r.rules[name]
	if !ok || rule == "" {
		return nil, nil
	}

	defer func() {
		// validator panics on undefined tags.
		if p := recover(); p != nil {
			errs, err = nil, fmt.Errorf("rule %q: %v", rule, p)
		}
	}()

	err = r.validate.VarCtx(ctx, value, rule)
	if err == nil {
		return nil, nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return nil, fmt.Errorf("rule %q: %w", rule, err)
	}

	errs = make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		if fe.Param() != "" {
			errs = append(errs, fmt.Sprintf("%s failed on the '%s=%s' rule", name, fe.Tag(), fe.Param()))
			continue
		}
		errs = append(errs, fmt.Sprintf("%s failed on the '%s' rule", name, fe.Tag()))
	}
	return errs, nil
}
