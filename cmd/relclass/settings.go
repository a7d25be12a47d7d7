package main

import (
	"github.com/pkg/errors"
	"github.com/spf13/afero"
	yaml "gopkg.in/yaml.v2"

	"github.com/sharnoff/relclass/models"
)

// loadSettings gives the settings for an architecture: its registered defaults, overridden by the
// YAML file at path (if not empty), overridden by any flags that were set.
func loadSettings(fs afero.Fs, arch, path string, cmd *trainCmd) (models.Settings, error) {
	a, err := models.Lookup(arch)
	if err != nil {
		return models.Settings{}, err
	}

	s := a.Defaults()

	if path != "" {
		bs, err := afero.ReadFile(fs, path)
		if err != nil {
			return s, errors.Wrapf(err, "Failed to read settings file %q", path)
		}

		if err = yaml.UnmarshalStrict(bs, &s); err != nil {
			return s, errors.Wrapf(err, "Failed to decode settings file %q", path)
		}
	}

	if cmd != nil {
		if cmd.Epochs > 0 {
			s.Epochs = cmd.Epochs
		}
		if cmd.BatchSize > 0 {
			s.BatchSize = cmd.BatchSize
		}
		if cmd.Seed != 0 {
			s.Seed = cmd.Seed
		}
	}

	if err = s.Validate(); err != nil {
		return s, errors.Wrapf(err, "Bad settings for %q", arch)
	}

	return s, nil
}
