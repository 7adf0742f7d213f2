package composer

import (
	"fmt"

	"github.com/StimulCross/configs/errors"
	"github.com/StimulCross/configs/options"
)

const (
	// ErrConfigConflict is returned when contributors request mutually exclusive values
	ErrConfigConflict = errors.Error("config conflict")
	// ErrInvalidOption is returned for unusable composer options
	ErrInvalidOption = errors.Error("invalid composer option")
)

// ConflictError names the two contributors that disagree and the values they set.
type ConflictError struct {
	Key         string
	First       string
	FirstValue  options.Value
	Second      string
	SecondValue options.Value
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s%s%s: %q sets %s but %q sets %s; set overrideParser on %q to let it win",
		ErrConfigConflict, errors.ErrSeparator, e.Key, e.First, e.FirstValue, e.Second, e.SecondValue, e.Second)
}

// Is makes ConflictError match ErrConfigConflict
func (e *ConflictError) Is(target error) bool {
	return target == ErrConfigConflict
}
