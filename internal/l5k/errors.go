package l5k

import (
	"errors"
	"fmt"
	"strings"

	"github.com/l5ktune/l5ktune/internal/model"
)

// Common parse errors.
var (
	// ErrScan indicates a structural scan failure that aborts the parse.
	ErrScan = errors.New("scan error")

	// ErrCyclicType indicates UDT definitions that reference each other in a
	// cycle. Normalization of the implicated type fails; others still resolve.
	ErrCyclicType = errors.New("cyclic type reference")

	// ErrKeyCollision indicates two entities in one kind namespace resolved
	// to the same key. Fatal: selection tracking depends on key uniqueness.
	ErrKeyCollision = errors.New("duplicate entity key")
)

// ScanError reports a structural failure with its input position.
type ScanError struct {
	Line   int
	Offset int
	Reason string
}

func (e *ScanError) Error() string {
	return fmt.Sprintf("line %d (offset %d): %s", e.Line, e.Offset, e.Reason)
}

func (e *ScanError) Unwrap() error {
	return ErrScan
}

// CycleError reports the resolution path that closed a type cycle.
type CycleError struct {
	Path []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("cyclic type reference: %s", strings.Join(e.Path, " -> "))
}

func (e *CycleError) Unwrap() error {
	return ErrCyclicType
}

// KeyCollisionError reports the key that was declared twice.
type KeyCollisionError struct {
	Key model.Key
}

func (e *KeyCollisionError) Error() string {
	return fmt.Sprintf("duplicate entity key %s", e.Key)
}

func (e *KeyCollisionError) Unwrap() error {
	return ErrKeyCollision
}

// IsScan checks whether err is a scan-level structural failure.
func IsScan(err error) bool {
	return errors.Is(err, ErrScan)
}

// IsCyclicType checks whether err is a cyclic type reference.
func IsCyclicType(err error) bool {
	return errors.Is(err, ErrCyclicType)
}
