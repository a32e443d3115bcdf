// Package report renders the taxonomy of a run to a static HTML page.
package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"yashubustudio/dichos/dichos"
)

// Input carries everything a report needs: the taxonomy, the reduced
// coordinates keyed by entry id, and the entry texts for tooltips.
type Input struct {
	Taxonomy    *dichos.Taxonomy
	Coordinates map[int64][]float32
	Texts       map[int64]string
}

// Write renders the full report page.
func Write(w io.Writer, in Input) error {
	if in.Taxonomy == nil {
		return fmt.Errorf("report input has no taxonomy")
	}
	page := components.NewPage()
	page.PageTitle = "Dicho Categories"
	page.AddCharts(
		categoryScatter(in),
		categorySizesBar(in.Taxonomy),
		tierPie(in.Taxonomy),
	)
	return page.Render(w)
}

// WriteFile renders the report to dir/categories.html.
func WriteFile(dir string, in Input) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating report directory: %w", err)
	}
	path := filepath.Join(dir, "categories.html")
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating report file: %w", err)
	}
	defer f.Close()
	if err := Write(f, in); err != nil {
		return "", err
	}
	return path, nil
}

// categoryScatter plots each entry at its 2D coordinate, one series per
// category, membership taken from the primary assignment.
func categoryScatter(in Input) *charts.Scatter {
	boolPtr := func(b bool) *bool { return &b }

	primaries := make(map[int64]int)
	for _, a := range in.Taxonomy.Assignments {
		if a.Rank == 1 {
			primaries[a.EntryID] = a.CategoryID
		}
	}
	series := make(map[int][]opts.ScatterData)
	for id, coord := range in.Coordinates {
		if len(coord) < 2 {
			continue
		}
		cat, ok := primaries[id]
		if !ok {
			continue
		}
		series[cat] = append(series[cat], opts.ScatterData{
			Name:  in.Texts[id],
			Value: []interface{}{coord[0], coord[1]},
		})
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "100%", Height: "600px"}),
		charts.WithTitleOpts(opts.Title{Title: "Semantic landscape"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: boolPtr(true)}),
		charts.WithLegendOpts(opts.Legend{Show: boolPtr(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "PC1"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "PC2"}),
	)
	for _, c := range in.Taxonomy.Categories {
		scatter.AddSeries(c.Name, series[c.ID])
	}
	return scatter
}

func categorySizesBar(tax *dichos.Taxonomy) *charts.Bar {
	boolPtr := func(b bool) *bool { return &b }

	cats := make([]dichos.Category, len(tax.Categories))
	copy(cats, tax.Categories)
	sort.SliceStable(cats, func(i, j int) bool {
		return cats[i].MemberCount > cats[j].MemberCount
	})

	var names []string
	var counts []opts.BarData
	for _, c := range cats {
		names = append(names, c.Name)
		counts = append(counts, opts.BarData{Value: c.MemberCount})
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "100%", Height: "400px"}),
		charts.WithTitleOpts(opts.Title{Title: "Category sizes"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: boolPtr(true)}),
		charts.WithXAxisOpts(opts.XAxis{
			Name:      "Category",
			AxisLabel: &opts.AxisLabel{Rotate: 45},
		}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Members"}),
		charts.WithGridOpts(opts.Grid{
			ContainLabel: boolPtr(true),
			Left:         "3%",
			Right:        "4%",
			Bottom:       "15%",
		}),
	)
	bar.SetXAxis(names).AddSeries("Members", counts)
	return bar
}

func tierPie(tax *dichos.Taxonomy) *charts.Pie {
	boolPtr := func(b bool) *bool { return &b }

	counts := make(map[dichos.Tier]int)
	for _, a := range tax.Assignments {
		counts[a.Tier]++
	}
	var data []opts.PieData
	for _, tier := range []dichos.Tier{dichos.TierPrimary, dichos.TierSecondary, dichos.TierTertiary} {
		if n := counts[tier]; n > 0 {
			data = append(data, opts.PieData{Name: string(tier), Value: n})
		}
	}

	pie := charts.NewPie()
	pie.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "100%", Height: "400px"}),
		charts.WithTitleOpts(opts.Title{Title: "Assignment tiers"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: boolPtr(true)}),
	)
	pie.AddSeries("Tiers", data)
	return pie
}
