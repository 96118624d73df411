// internal/export/chart.go
package export

import (
	"fmt"
	"io"
	"sort"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/law-makers/headlines/internal/collection"
	"github.com/law-makers/headlines/pkg/models"
)

// RenderChart writes an HTML page with a bar chart of headline counts per
// source to {prefix}_{timestamp}.html.
func (e *Exporter) RenderChart(prefix string, records []models.Record) (string, error) {
	records, err := e.resolve(records)
	if err != nil {
		return "", err
	}

	path := e.Path(prefix, "html")
	f, err := e.create(path)
	if err != nil {
		return "", err
	}
	return finish(f, path, len(records), WriteChart(f, records))
}

// WriteChart renders the per-source bar chart for records to w
func WriteChart(w io.Writer, records []models.Record) error {
	summary := collection.Summarize(records)

	sources := make([]string, 0, len(summary.Sources))
	for name := range summary.Sources {
		sources = append(sources, name)
	}
	sort.Strings(sources)

	bars := make([]opts.BarData, len(sources))
	for i, name := range sources {
		bars[i] = opts.BarData{Value: summary.Sources[name]}
	}

	subtitle := fmt.Sprintf("%d items", summary.Total)
	if summary.Latest != nil {
		subtitle += ", latest " + summary.Latest.Format(models.TimestampLayout)
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Headlines per source", Subtitle: subtitle}),
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "headlines"}),
	)
	bar.SetXAxis(sources).AddSeries("Headlines", bars)
	return bar.Render(w)
}
