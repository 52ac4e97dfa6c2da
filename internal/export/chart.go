package export

import (
	"bytes"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/abrezinsky/boutmatch/internal/models"
)

const (
	chartHeight     = 480
	chartBarWidth   = 40
	chartBarSpacing = 24
	chartMinWidth   = 480
)

var (
	barColor        = drawing.ColorFromHex("2f6f4f")
	chartBackground = drawing.ColorFromHex("fafaf7")
	chartText       = drawing.ColorFromHex("222222")
)

// StandingsChart renders a PNG bar chart of points per team in row order.
// An empty table renders a placeholder image.
func StandingsChart(rows []models.StandingsRow) ([]byte, error) {
	if len(rows) == 0 {
		return renderPlaceholder("No decided bouts yet")
	}

	maxPoints := 1
	bars := make([]chart.Value, len(rows))
	for i, r := range rows {
		bars[i] = chart.Value{
			Label: r.TeamName,
			Value: float64(r.Points),
			Style: chart.Style{FillColor: barColor, StrokeColor: barColor},
		}
		if r.Points > maxPoints {
			maxPoints = r.Points
		}
	}

	width := len(rows)*(chartBarWidth+chartBarSpacing) + 160
	if width < chartMinWidth {
		width = chartMinWidth
	}

	graph := chart.BarChart{
		Title:      "Points by team",
		Width:      width,
		Height:     chartHeight,
		BarWidth:   chartBarWidth,
		BarSpacing: chartBarSpacing,
		Background: chart.Style{
			FillColor: chartBackground,
			Padding:   chart.Box{Top: 48, Left: 16, Right: 16, Bottom: 16},
		},
		Canvas: chart.Style{FillColor: chartBackground},
		XAxis:  chart.Style{FontColor: chartText},
		YAxis: chart.YAxis{
			Style: chart.Style{FontColor: chartText},
			Range: &chart.ContinuousRange{Min: 0, Max: float64(maxPoints)},
		},
		Bars: bars,
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}

// renderPlaceholder draws msg centered on a blank canvas. A chart.Chart
// refuses to render without a series, so this goes to the renderer directly.
func renderPlaceholder(msg string) ([]byte, error) {
	const width, height = 400, 200

	font, err := chart.GetDefaultFont()
	if err != nil {
		return nil, err
	}
	r, err := chart.PNG(width, height)
	if err != nil {
		return nil, err
	}

	r.SetFillColor(chartBackground)
	r.MoveTo(0, 0)
	r.LineTo(width, 0)
	r.LineTo(width, height)
	r.LineTo(0, height)
	r.Close()
	r.Fill()

	r.SetFont(font)
	r.SetFontColor(chartText)
	r.SetFontSize(12.0)
	tb := r.MeasureText(msg)
	r.Text(msg, (width-tb.Width())/2, (height+tb.Height())/2)

	buffer := bytes.NewBuffer([]byte{})
	if err := r.Save(buffer); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}
