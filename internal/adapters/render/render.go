// Package render draws chart structures as PNG images with gonum/plot.
package render

import (
	"fmt"
	"image/color"
	"io"
	"strconv"
	"time"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/okian/happiness/internal/domain/chart"
	"github.com/okian/happiness/internal/domain/types"
	"github.com/okian/happiness/pkg/metrics"
)

// ContentType is the media type of every rendering.
const ContentType = "image/png"

var (
	positive = color.RGBA{R: 46, G: 139, B: 87, A: 255}  //nolint:gochecknoglobals // palette
	negative = color.RGBA{R: 205, G: 92, B: 92, A: 255}  //nolint:gochecknoglobals // palette
	average  = color.RGBA{R: 40, G: 40, B: 40, A: 255}   //nolint:gochecknoglobals // palette
	boxFill  = color.RGBA{R: 70, G: 130, B: 180, A: 255} //nolint:gochecknoglobals // palette
)

// Renderer writes PNG images of fixed size.
type Renderer struct {
	width  vg.Length
	height vg.Length
}

// New constructs a Renderer drawing 1000x600 pixel images by default.
func New(opts ...Option) *Renderer {
	r := &Renderer{width: pxToLength(1000), height: pxToLength(600)}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func newPlot(title string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.Title.TextStyle.Font.Size = vg.Points(14)
	return p
}

func (r *Renderer) write(w io.Writer, p *plot.Plot, kind chart.Kind) error {
	start := time.Now()
	wt, err := p.WriterTo(r.width, r.height, "png")
	if err != nil {
		return fmt.Errorf("render %s: %w", kind, err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("render %s: %w", kind, err)
	}
	metrics.RecordRenderLatency(string(kind), float64(time.Since(start).Microseconds())/1000)
	return nil
}

// Placeholder draws an empty chart carrying only a title and a message.
func (r *Renderer) Placeholder(w io.Writer, m chart.Meta) error {
	p := newPlot(m.Title)
	p.HideAxes()
	p.X.Min, p.X.Max = 0, 1
	p.Y.Min, p.Y.Max = 0, 1
	msg := m.Message
	if msg == "" {
		msg = "No data available"
	}
	labels, err := plotter.NewLabels(plotter.XYLabels{
		XYs:    []plotter.XY{{X: 0.5, Y: 0.5}},
		Labels: []string{msg},
	})
	if err != nil {
		return fmt.Errorf("render placeholder: %w", err)
	}
	labels.TextStyle[0].XAlign = draw.XCenter
	p.Add(labels)
	return r.write(w, p, m.Kind)
}

// Evolution draws one line per country and the dashed global average overlay.
func (r *Renderer) Evolution(w io.Writer, c chart.EvolutionChart) error {
	if c.Placeholder {
		return r.Placeholder(w, c.Meta)
	}
	p := newPlot(c.Title)
	p.X.Label.Text = "Year"
	p.Y.Label.Text = "Happiness Score"
	p.Add(plotter.NewGrid())

	var ticks []plot.Tick
	seen := map[int]bool{}
	addLine := func(i int, s chart.Series) (*plotter.Line, error) {
		xys := make(plotter.XYs, 0, len(s.Points))
		for _, pt := range s.Points {
			if !pt.Y.Valid() {
				continue
			}
			xys = append(xys, plotter.XY{X: float64(pt.X), Y: float64(pt.Y)})
			if !seen[pt.X] {
				seen[pt.X] = true
				ticks = append(ticks, plot.Tick{Value: float64(pt.X), Label: strconv.Itoa(pt.X)})
			}
		}
		if len(xys) == 0 {
			return nil, nil
		}
		line, err := plotter.NewLine(xys)
		if err != nil {
			return nil, err
		}
		line.Color = plotutil.Color(i)
		line.Width = vg.Points(2)
		p.Add(line)
		p.Legend.Add(s.Name, line)
		return line, nil
	}

	for i, s := range c.Series {
		if _, err := addLine(i, s); err != nil {
			return fmt.Errorf("render evolution: %w", err)
		}
	}
	if c.Overlay != nil {
		line, err := addLine(0, *c.Overlay)
		if err != nil {
			return fmt.Errorf("render evolution: %w", err)
		}
		if line != nil {
			line.Color = average
			line.Dashes = []vg.Length{vg.Points(5), vg.Points(5)}
		}
	}
	p.X.Tick.Marker = plot.ConstantTicks(ticks)
	p.Legend.Top = true
	return r.write(w, p, c.Kind)
}

// Factors draws the correlations as horizontal bars, negative ones in red.
// Undefined coefficients are drawn as zero and labelled n/a.
func (r *Renderer) Factors(w io.Writer, c chart.FactorsChart) error {
	if c.Placeholder || len(c.Bars) == 0 {
		return r.Placeholder(w, chart.Placeholder(chart.KindFactors, c.Message))
	}
	p := newPlot(c.Title)
	p.X.Label.Text = "Correlation"
	p.X.Min, p.X.Max = -1, 1
	p.Add(plotter.NewGrid())

	labels := make([]string, len(c.Bars))
	for i, b := range c.Bars {
		labels[i] = b.Label
		v := 0.0
		if b.Value.Valid() {
			v = float64(b.Value)
		} else {
			labels[i] += " (n/a)"
		}
		bar, err := plotter.NewBarChart(plotter.Values{v}, vg.Points(18))
		if err != nil {
			return fmt.Errorf("render factors: %w", err)
		}
		bar.Horizontal = true
		bar.XMin = float64(i)
		bar.LineStyle.Width = vg.Length(0)
		bar.Color = positive
		if v < 0 {
			bar.Color = negative
		}
		p.Add(bar)
	}
	p.NominalY(labels...)
	return r.write(w, p, c.Kind)
}

// Income draws one box per income group. Quartiles follow the chart data.
func (r *Renderer) Income(w io.Writer, c chart.IncomeChart) error {
	if c.Placeholder {
		return r.Placeholder(w, c.Meta)
	}
	p := newPlot(c.Title)
	p.Y.Label.Text = "Happiness Score"
	p.Add(plotter.NewGrid())

	names := make([]string, len(c.Boxes))
	for i, b := range c.Boxes {
		names[i] = fmt.Sprintf("%s (%d)", b.Group, b.Count)
		values := finite(b.Scores)
		if len(values) == 0 {
			continue
		}
		box, err := plotter.NewBoxPlot(vg.Points(40), float64(i), values)
		if err != nil {
			return fmt.Errorf("render income groups: %w", err)
		}
		box.Median = float64(b.Median)
		box.Quartile1 = float64(b.Q1)
		box.Quartile3 = float64(b.Q3)
		box.FillColor = boxFill
		p.Add(box)
	}
	p.NominalX(names...)
	return r.write(w, p, c.Kind)
}

// Compare draws grouped bars of the two countries' factors.
func (r *Renderer) Compare(w io.Writer, c chart.CompareChart) error {
	if !c.HasData || c.Placeholder {
		m := c.Meta
		if m.Message == "" {
			m.Message = "No data for the selected countries in this year"
		}
		return r.Placeholder(w, m)
	}
	p := newPlot(c.Title)
	p.Y.Label.Text = "Contribution"
	p.Add(plotter.NewGrid())

	var features []string
	values := map[string]plotter.Values{}
	for _, f := range c.Factors {
		if f.Country == c.CountryA {
			features = append(features, f.Feature)
		}
		v := 0.0
		if f.Value.Valid() {
			v = float64(f.Value)
		}
		values[f.Country] = append(values[f.Country], v)
	}

	width := vg.Points(20)
	for i, name := range []string{c.CountryA, c.CountryB} {
		if i == 1 && c.CountryB == c.CountryA {
			break
		}
		bars, err := plotter.NewBarChart(values[name], width)
		if err != nil {
			return fmt.Errorf("render compare: %w", err)
		}
		bars.LineStyle.Width = vg.Length(0)
		bars.Color = plotutil.Color(i)
		bars.Offset = vg.Length(2*i-1) * width / 2
		p.Add(bars)
		p.Legend.Add(name, bars)
	}
	p.Legend.Top = true
	p.NominalX(features...)
	return r.write(w, p, c.Kind)
}

func finite(xs []types.Float) plotter.Values {
	out := make(plotter.Values, 0, len(xs))
	for _, x := range xs {
		if x.Valid() {
			out = append(out, float64(x))
		}
	}
	return out
}
