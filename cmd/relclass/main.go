// Command relclass trains relation classifiers and evaluates saved checkpoints.
//
//	relclass train --data DIR --arch NAME [--char] [--epochs N] [--batch-size N] [--config FILE] [--out DIR]
//	relclass eval --data DIR --checkpoint DIR
package main

import (
	"os"

	arg "github.com/alexflint/go-arg"
	"github.com/spf13/afero"
)

type trainCmd struct {
	Data      string `arg:"--data,required" help:"data directory"`
	Arch      string `arg:"--arch,required" help:"model architecture (majority, softmax, softmax_mi)"`
	Char      bool   `arg:"--char" help:"use character features instead of words"`
	Epochs    int    `arg:"--epochs" help:"number of epochs, overriding the settings"`
	BatchSize int    `arg:"--batch-size" help:"batch size, overriding the settings"`
	Seed      int64  `arg:"--seed" help:"random seed, overriding the settings"`
	Config    string `arg:"--config" help:"YAML file of model settings"`
	Out       string `arg:"--out" help:"directory to store results in (default: result)"`
	Progress  bool   `arg:"--progress" help:"show progress while loading data"`
	Micro     bool   `arg:"--micro" help:"choose the best epoch by micro F1 instead of macro F1"`
	UseNeg    bool   `arg:"--use-neg" help:"include the negative class in the metrics"`
}

type evalCmd struct {
	Data       string `arg:"--data,required" help:"data directory"`
	Checkpoint string `arg:"--checkpoint,required" help:"checkpoint directory (model_saved-N)"`
	Char       bool   `arg:"--char" help:"use character features instead of words"`
	BatchSize  int    `arg:"--batch-size" help:"batch size (default: 512)"`
	UseNeg     bool   `arg:"--use-neg" help:"include the negative class in the metrics"`
}

func main() {
	var args struct {
		Train *trainCmd `arg:"subcommand:train" help:"train a model, logging metrics and saving the best epochs"`
		Eval  *evalCmd  `arg:"subcommand:eval" help:"score a saved checkpoint on the test set"`
	}
	p := arg.MustParse(&args)

	log := newLogger()
	defer log.Sync()

	fs := afero.NewOsFs()

	var err error
	switch {
	case args.Train != nil:
		_, err = runTrain(fs, log, args.Train)
	case args.Eval != nil:
		_, err = runEval(fs, log, os.Stdout, args.Eval)
	default:
		p.Fail("missing subcommand: train or eval")
	}

	if err != nil {
		log.Errorf("%+v", err)
		log.Sync()
		os.Exit(1)
	}
}
