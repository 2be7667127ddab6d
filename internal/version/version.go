// Package version compares engine versions for model files and the CLI.
package version

import (
	"errors"
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// Engine is the version of the running engine. Release builds override it
// with -ldflags "-X github.com/san-kum/dynsym/internal/version.Engine=...".
var Engine = "0.3.0"

var (
	// ErrInvalidVersion indicates a string that is not a version.
	ErrInvalidVersion = errors.New("version: invalid version string")

	// ErrTooOld indicates the engine is older than required.
	ErrTooOld = errors.New("version: engine too old")
)

// RequirementError reports an unmet minimum version.
type RequirementError struct {
	Required  string
	Installed string
}

func (e *RequirementError) Error() string {
	return fmt.Sprintf("version: requires %s or newer, have %s", e.Required, e.Installed)
}

func (e *RequirementError) Unwrap() error { return ErrTooOld }

func parse(v string) (*semver.Version, error) {
	sv, err := semver.NewVersion(v)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrInvalidVersion, v, err)
	}
	return sv, nil
}

// Compare returns -1, 0 or 1 as a is older than, equal to or newer than b.
func Compare(a, b string) (int, error) {
	va, err := parse(a)
	if err != nil {
		return 0, err
	}
	vb, err := parse(b)
	if err != nil {
		return 0, err
	}
	return va.Compare(vb), nil
}

// AtLeast reports whether installed is equal to or newer than required. An
// empty installed version means Engine.
func AtLeast(required, installed string) (bool, error) {
	if installed == "" {
		installed = Engine
	}
	c, err := Compare(installed, required)
	if err != nil {
		return false, err
	}
	return c >= 0, nil
}

// Check returns a *RequirementError when Engine is older than required.
// An empty requirement always passes.
func Check(required string) error {
	if required == "" {
		return nil
	}
	ok, err := AtLeast(required, Engine)
	if err != nil {
		return err
	}
	if !ok {
		return &RequirementError{Required: required, Installed: Engine}
	}
	return nil
}

// Satisfies reports whether Engine matches a constraint such as ">= 0.2, < 1".
func Satisfies(constraint string) (bool, error) {
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return false, fmt.Errorf("%w %q: %v", ErrInvalidVersion, constraint, err)
	}
	v, err := parse(Engine)
	if err != nil {
		return false, err
	}
	return c.Check(v), nil
}
