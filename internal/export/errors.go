package export

import (
	"errors"
	"fmt"

	"github.com/l5ktune/l5ktune/internal/model"
)

// ErrMissingField indicates an entity lacks a field required for valid
// output syntax. Fatal only for that entity; the rest of the filtered set
// still emits.
var ErrMissingField = errors.New("missing required field")

// MissingFieldError identifies the entity and the field it lacks.
type MissingFieldError struct {
	Key   model.Key
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s: missing required field %q", e.Key, e.Field)
}

func (e *MissingFieldError) Unwrap() error {
	return ErrMissingField
}

// IsMissingField checks whether err reports an unexportable entity.
func IsMissingField(err error) bool {
	return errors.Is(err, ErrMissingField)
}
