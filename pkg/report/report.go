// Package report renders the pacing samples of a run as a plot.
package report

import (
	"errors"
	"fmt"
	"image/color"
	"io"

	"github.com/thelolagemann/gbcore/internal/clock"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// ErrNoSamples is returned when there is nothing to plot.
var ErrNoSamples = errors.New("report: no samples")

// Size of the rendered plot.
const (
	Width  = 8 * vg.Inch
	Height = 4 * vg.Inch
)

// PacingPlot plots the achieved tick rate of every sample against the
// target rate, over the seconds since the first sample.
func PacingPlot(samples []clock.Sample, target float64) (*plot.Plot, error) {
	if len(samples) == 0 {
		return nil, ErrNoSamples
	}

	p := plot.New()
	p.Title.Text = "Clock pacing"
	p.X.Label.Text = "Time (s)"
	p.Y.Label.Text = "Ticks per second"

	xys := make(plotter.XYs, len(samples))
	start := samples[0].At
	for i, s := range samples {
		xys[i].X = s.At.Sub(start).Seconds()
		xys[i].Y = s.Rate
	}

	achieved, err := plotter.NewLine(xys)
	if err != nil {
		return nil, fmt.Errorf("creating rate line: %w", err)
	}
	achieved.Color = color.RGBA{R: 0x20, G: 0x60, B: 0xC0, A: 0xFF}

	expected := plotter.NewFunction(func(float64) float64 { return target })
	expected.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
	expected.Color = color.RGBA{R: 0xC0, G: 0x30, B: 0x30, A: 0xFF}

	p.Add(achieved, expected, plotter.NewGrid())
	p.Legend.Add("achieved", achieved)
	p.Legend.Add("target", expected)
	p.Legend.Top = true

	// keep the target visible when the rate never reached it
	p.Y.Min = min(p.Y.Min, target*0.9)
	p.Y.Max = max(p.Y.Max, target*1.1)
	if p.X.Max <= p.X.Min {
		p.X.Max = p.X.Min + 1
	}

	return p, nil
}

// Pacing writes the pacing plot of samples as a PNG to w.
func Pacing(w io.Writer, samples []clock.Sample, target float64) error {
	p, err := PacingPlot(samples, target)
	if err != nil {
		return err
	}

	c := vgimg.New(Width, Height)
	p.Draw(draw.New(c))

	if _, err := (vgimg.PngCanvas{Canvas: c}).WriteTo(w); err != nil {
		return fmt.Errorf("writing pacing plot: %w", err)
	}
	return nil
}
