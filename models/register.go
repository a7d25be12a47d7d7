// Package models holds the relation classifiers, registered by name so that the architecture can
// be chosen by configuration.
package models

import (
	"io"
	"sort"

	"github.com/pkg/errors"

	rc "github.com/sharnoff/relclass"
)

// Error is a wrapper for errors for which there is no additional information necessary.
type Error struct{ string }

func (err Error) Error() string {
	return err.string
}

// These are the global errors that may be returned by the package.
var (
	ErrRegisterDuplicate   = Error{"An architecture with that name is already registered"}
	ErrUnknownArchitecture = Error{"No architecture with that name is registered"}
	ErrIncompleteArch      = Error{"Architecture is missing Defaults or New"}
)

// Architecture is a registered kind of Model.
type Architecture struct {
	// Defaults gives the settings used when none are overridden
	Defaults func() Settings

	// New constructs an untrained Model
	New func(s Settings, sh Shape) (rc.Model, error)

	// Load reconstructs a Model saved through rc.Saver. It may be nil if the architecture can't
	// be saved.
	Load func(r io.Reader) (rc.Model, error)
}

var archs = make(map[string]Architecture)

func init() {
	list := map[string]Architecture{
		"majority":   {Defaults: majorityDefaults, New: NewMajority, Load: LoadMajority},
		"softmax":    {Defaults: softmaxDefaults, New: NewSoftmax, Load: LoadSoftmax},
		"softmax_mi": {Defaults: softmaxDefaults, New: NewSoftmaxMI, Load: LoadSoftmaxMI},
	}

	for name, a := range list {
		if err := Register(name, a); err != nil {
			panic(err.Error())
		}
	}
}

// Register adds an Architecture under the given name.
func Register(name string, a Architecture) error {
	if a.Defaults == nil || a.New == nil {
		return errors.Wrapf(ErrIncompleteArch, "Can't register %q", name)
	} else if _, ok := archs[name]; ok {
		return errors.Wrapf(ErrRegisterDuplicate, "Can't register %q", name)
	}

	archs[name] = a
	return nil
}

// Lookup returns the Architecture registered under the given name.
func Lookup(name string) (Architecture, error) {
	a, ok := archs[name]
	if !ok {
		return a, errors.Wrapf(ErrUnknownArchitecture, "%q (have: %v)", name, Names())
	}

	return a, nil
}

// Names returns the names of every registered Architecture, sorted.
func Names() []string {
	ns := make([]string, 0, len(archs))
	for n := range archs {
		ns = append(ns, n)
	}

	sort.Strings(ns)
	return ns
}

// New constructs an untrained Model of the named architecture.
func New(name string, s Settings, sh Shape) (rc.Model, error) {
	a, err := Lookup(name)
	if err != nil {
		return nil, err
	}

	if err = s.Validate(); err != nil {
		return nil, errors.Wrapf(err, "Bad settings for %q", name)
	} else if err = sh.validate(); err != nil {
		return nil, errors.Wrapf(err, "Bad shape for %q", name)
	}

	return a.New(s, sh)
}

// Load reconstructs a saved Model of the named architecture.
func Load(name string, r io.Reader) (rc.Model, error) {
	a, err := Lookup(name)
	if err != nil {
		return nil, err
	} else if a.Load == nil {
		return nil, errors.Errorf("Architecture %q can't be loaded", name)
	}

	return a.Load(r)
}
