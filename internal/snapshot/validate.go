package snapshot

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	// Report json field names so errors match what is in the file.
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// Validate checks the struct tags of a record (required name and data) and reports
// the first failure as a FormatError. The snapshot shape itself is checked by Decode.
func Validate(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return FormatError{Reason: "validation failed", Err: err}
	}
	fe := verrs[0]
	at := fe.Namespace()
	if i := strings.IndexByte(at, '.'); i >= 0 {
		at = at[i+1:]
	}
	return FormatError{Path: at, Reason: "field is " + fe.Tag()}
}
