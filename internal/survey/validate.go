package survey

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// FieldError names one field whose value falls outside its option set.
type FieldError struct {
	Field string
	Value string
	Rule  string
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %q fails %s", e.Field, e.Value, e.Rule)
}

// Validate checks coded fields against the encoding form's option sets.
// Records that fail still score; out-of-domain values are simply ignored by
// the analyzers. Callers reject only values they are about to write and
// warn about the rest.
func Validate(r Record) []FieldError {
	err := validatorInstance().Struct(r)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return []FieldError{{Field: "record", Value: "", Rule: err.Error()}}
	}
	out := make([]FieldError, 0, len(ve))
	for _, fe := range ve {
		rule := fe.Tag()
		if p := fe.Param(); p != "" {
			rule += "=" + p
		}
		out = append(out, FieldError{
			Field: fieldKey(fe.Namespace()),
			Value: fmt.Sprint(fe.Value()),
			Rule:  rule,
		})
	}
	return out
}

// fieldKey turns "Record.SQD[3]" into "sqd3" and "Record.CC1" into "cc1".
func fieldKey(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		ns = ns[i+1:]
	}
	if strings.HasPrefix(ns, "SQD[") {
		return "sqd" + strings.TrimSuffix(strings.TrimPrefix(ns, "SQD["), "]")
	}
	if strings.HasPrefix(ns, "ClientType[") {
		return "clientType"
	}
	switch ns {
	case "":
		return ns
	case "ID", "CC1", "CC2", "CC3":
		return strings.ToLower(ns)
	}
	return strings.ToLower(ns[:1]) + ns[1:]
}
