package models

import (
	"github.com/pkg/errors"

	"github.com/sharnoff/relclass/hyperparams"
)

// Settings are the per-architecture training settings. Each architecture registers its own
// defaults; any of them may be overridden from a settings file.
type Settings struct {
	Epochs    int     `yaml:"epochs" json:"epochs"`
	BatchSize int     `yaml:"batch_size" json:"batch_size"`
	KeepRate  float64 `yaml:"dropout_keep" json:"dropout_keep"`

	StatusEvery int `yaml:"status_every" json:"status_every"`

	LearningRate float64             `yaml:"learning_rate" json:"learning_rate"`
	Schedule     string              `yaml:"lr_schedule" json:"lr_schedule"`
	Steps        []hyperparams.Point `yaml:"lr_steps" json:"lr_steps,omitempty"`

	Optimizer string  `yaml:"optimizer" json:"optimizer"`
	Cost      string  `yaml:"cost" json:"cost"`
	Penalty   string  `yaml:"penalty" json:"penalty"`
	Lambda    float64 `yaml:"lambda" json:"lambda"`
	Alpha     float64 `yaml:"alpha" json:"alpha"`

	// PositionBuckets is the number of distinct entity distances given their own feature. Larger
	// distances share the last bucket.
	PositionBuckets int `yaml:"position_buckets" json:"position_buckets"`

	Init string `yaml:"init" json:"init"`
	Seed int64  `yaml:"seed" json:"seed"`
}

// Validate checks the settings that every architecture relies on.
func (s Settings) Validate() error {
	if s.Epochs < 0 {
		return errors.Errorf("Number of epochs must be >= 0 (got %d)", s.Epochs)
	} else if s.BatchSize < 1 {
		return errors.Errorf("Batch size must be >= 1 (got %d)", s.BatchSize)
	} else if s.KeepRate <= 0 || s.KeepRate > 1 {
		return errors.Errorf("Dropout keep rate must be in (0, 1] (got %v)", s.KeepRate)
	} else if s.LearningRate < 0 {
		return errors.Errorf("Learning rate must be >= 0 (got %v)", s.LearningRate)
	} else if s.PositionBuckets < 0 {
		return errors.Errorf("Number of position buckets must be >= 0 (got %d)", s.PositionBuckets)
	}

	return nil
}

// Shape is the size of the data a Model is built for.
type Shape struct {
	VocabSize      int `json:"vocab_size"`
	ClassNum       int `json:"class_num"`
	MaxSentenceLen int `json:"max_sentence_len"`

	// PositionOffset is the position feature value at each entity
	PositionOffset int `json:"position_offset"`
}

func (sh Shape) validate() error {
	if sh.VocabSize < 1 {
		return errors.Errorf("Vocabulary size must be >= 1 (got %d)", sh.VocabSize)
	} else if sh.ClassNum < 1 {
		return errors.Errorf("Number of classes must be >= 1 (got %d)", sh.ClassNum)
	}

	return nil
}
