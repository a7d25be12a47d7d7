package relclass

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

const (
	// ModelFile is the file within a checkpoint directory that holds the serialized Model
	ModelFile string = "model.json"

	// ManifestFile is the file within a checkpoint directory that describes it
	ManifestFile string = "manifest.json"
)

// CheckpointDir returns the directory that the checkpoint for the given epoch is saved to.
func CheckpointDir(dir string, epoch int) string {
	return filepath.Join(dir, fmt.Sprintf("model_saved-%d", epoch))
}

// Manifest describes a saved checkpoint.
type Manifest struct {
	Arch     string    `json:"arch"`
	Epoch    int       `json:"epoch"`
	Loss     float64   `json:"loss"`
	MacroF1  float64   `json:"macro_f1"`
	MicroF1  float64   `json:"micro_f1"`
	ClassNum int       `json:"class_num"`
	Saved    time.Time `json:"saved"`
}

// DirCheckpointer saves a Model to a new directory for each best epoch, through the Model's Save
// method.
type DirCheckpointer struct {
	Fs    afero.Fs
	Dir   string
	Arch  string
	Model Saver

	// Now gives the time recorded in the manifest. It defaults to time.Now.
	Now func() time.Time
}

// Checkpoint writes the model and its manifest into CheckpointDir(c.Dir, epoch), replacing
// anything already there. Any failure is returned as a ResourceError.
func (c *DirCheckpointer) Checkpoint(epoch int, r *EpochResult) error {
	if c.Model == nil {
		return NilArgError{"Checkpointer model"}
	}

	dirPath := CheckpointDir(c.Dir, epoch)

	// check if the folder already exists
	if exists, err := afero.DirExists(c.Fs, dirPath); err != nil {
		return NewResourceError("stat checkpoint", dirPath, err)
	} else if exists {
		if err = c.Fs.RemoveAll(dirPath); err != nil {
			return NewResourceError("remove old checkpoint", dirPath, err)
		}
	}

	if err := c.Fs.MkdirAll(dirPath, 0700); err != nil {
		return NewResourceError("create checkpoint", dirPath, err)
	}

	modelPath := filepath.Join(dirPath, ModelFile)
	f, err := c.Fs.OpenFile(modelPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return NewResourceError("create model file", modelPath, err)
	}

	if err = c.Model.Save(f); err != nil {
		f.Close()
		return NewResourceError("save model", modelPath, err)
	}

	if err = f.Close(); err != nil {
		return NewResourceError("close model file", modelPath, err)
	}

	now := c.Now
	if now == nil {
		now = time.Now
	}

	m := Manifest{
		Arch:  c.Arch,
		Epoch: epoch,
		Saved: now(),
	}
	if r != nil {
		m.Loss = r.Loss
		if r.Summary != nil {
			m.MacroF1 = r.Summary.Macro.F1
			m.MicroF1 = r.Summary.Micro.F1
			m.ClassNum = r.Summary.ClassNum()
		}
	}

	bs, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return errors.Wrapf(err, "Failed to encode manifest for epoch %d", epoch)
	}

	manifestPath := filepath.Join(dirPath, ManifestFile)
	if err = afero.WriteFile(c.Fs, manifestPath, bs, 0600); err != nil {
		return NewResourceError("write manifest", manifestPath, err)
	}

	return nil
}

// ReadManifest loads the manifest of a checkpoint directory.
func ReadManifest(fs afero.Fs, dirPath string) (Manifest, error) {
	var m Manifest

	path := filepath.Join(dirPath, ManifestFile)
	bs, err := afero.ReadFile(fs, path)
	if err != nil {
		return m, NewResourceError("read manifest", path, err)
	}

	if err = json.Unmarshal(bs, &m); err != nil {
		return m, errors.Wrapf(err, "Can't load checkpoint, manifest %q is incompatible", path)
	}

	return m, nil
}

// OpenModel opens the serialized model of a checkpoint directory for reading.
func OpenModel(fs afero.Fs, dirPath string) (afero.File, error) {
	path := filepath.Join(dirPath, ModelFile)
	f, err := fs.Open(path)
	if err != nil {
		return nil, NewResourceError("open model file", path, err)
	}

	return f, nil
}
