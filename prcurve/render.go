package prcurve

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
	chart "github.com/wcharczuk/go-chart"

	rc "github.com/sharnoff/relclass"
)

// Render draws the curve as a PNG.
func Render(w io.Writer, title string, c Curve) error {
	if c.Len() == 0 {
		return errors.Errorf("Can't render an empty curve")
	}

	// start the line at recall 0 so that a single point still draws
	xs := append([]float64{0}, c.Recall...)
	ys := append([]float64{c.Precision[0]}, c.Precision...)

	graph := chart.Chart{
		Title:      title,
		TitleStyle: chart.StyleShow(),
		XAxis: chart.XAxis{
			Name:      "recall",
			NameStyle: chart.StyleShow(),
			Style:     chart.StyleShow(),
			Range:     &chart.ContinuousRange{Min: 0, Max: 1},
		},
		YAxis: chart.YAxis{
			Name:      "precision",
			NameStyle: chart.StyleShow(),
			Style:     chart.StyleShow(),
			Range:     &chart.ContinuousRange{Min: 0, Max: 1},
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    fmt.Sprintf("AUC %.3f", c.AUC()),
				XValues: xs,
				YValues: ys,
				Style: chart.Style{
					Show:        true,
					StrokeColor: chart.GetAlternateColor(0),
				},
			},
		},
	}

	graph.Elements = []chart.Renderable{
		chart.LegendLeft(&graph),
	}

	if err := graph.Render(chart.PNG, w); err != nil {
		return errors.Wrapf(err, "Failed to render PR curve")
	}

	return nil
}

// FileName returns the name of the curve image for an epoch.
func FileName(epoch int) string {
	return fmt.Sprintf("prc_epoch%d.png", epoch)
}

// Writer stores a PR curve image in Dir for each epoch it is given. It implements
// rc.CurveWriter.
type Writer struct {
	Fs    afero.Fs
	Dir   string
	Title string
}

// WriteCurve computes the curve for the epoch's probabilities and renders it to
// Dir/prc_epoch<epoch>.png, replacing any existing file. If there are no positive examples, there
// is no curve and nothing is written.
func (w *Writer) WriteCurve(epoch int, probs [][]float64, truth []rc.Label, excludeNegative bool) error {
	c, err := Compute(probs, truth, excludeNegative)
	if err == ErrNoPositives {
		return nil
	} else if err != nil {
		return err
	}

	if err = w.Fs.MkdirAll(w.Dir, 0700); err != nil {
		return rc.NewResourceError("create curve directory", w.Dir, err)
	}

	path := filepath.Join(w.Dir, FileName(epoch))
	f, err := w.Fs.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return rc.NewResourceError("create curve file", path, err)
	}

	title := w.Title
	if title == "" {
		title = "precision/recall"
	}

	if err = Render(f, fmt.Sprintf("%s, epoch %d", title, epoch), c); err != nil {
		f.Close()
		return err
	}

	if err = f.Close(); err != nil {
		return rc.NewResourceError("close curve file", path, err)
	}

	return nil
}
