package report

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Stat summarises one metric over the reported rows.
type Stat struct {
	Metric string
	Count  int
	Mean   float64
	Stdev  float64 // sample standard deviation; 0 when Count < 2
	Min    float64
	Max    float64
}

// StatColumns is the header of the statistics block.
var StatColumns = []string{"Metric", "Count", "Mean", "Stdev", "Min", "Max"}

// Summarize computes per-metric statistics over rows. Undefined values are
// left out of the sample; a metric with no values has Count 0 and NaN
// moments.
func Summarize(rows []Row, opts Options) []Stat {
	type metric struct {
		name  string
		value func(Row) (float64, bool)
	}
	var metrics []metric
	if opts.Nucleotide {
		metrics = append(metrics, metric{ColGC, func(r Row) (float64, bool) {
			if r.Bases == nil || !r.Bases.Defined() {
				return 0, false
			}
			return r.Bases.GC, true
		}})
	}
	arscMetric := func(name string, get func(Row) float64) metric {
		return metric{name, func(r Row) (float64, bool) {
			if !r.Composition.Defined() {
				return 0, false
			}
			return get(r), true
		}}
	}
	metrics = append(metrics,
		arscMetric(ColNARSC, func(r Row) float64 { return r.Composition.NARSC }),
		arscMetric(ColCARSC, func(r Row) float64 { return r.Composition.CARSC }),
		arscMetric(ColSARSC, func(r Row) float64 { return r.Composition.SARSC }),
		arscMetric(ColAvgResMW, func(r Row) float64 { return r.Composition.AvgResMW }),
		metric{lengthColumn(opts), func(r Row) (float64, bool) { return float64(r.Composition.Length), true }},
	)

	stats := make([]Stat, 0, len(metrics))
	for _, m := range metrics {
		xs := make([]float64, 0, len(rows))
		for _, r := range rows {
			if v, ok := m.value(r); ok {
				xs = append(xs, v)
			}
		}
		stats = append(stats, summarize(m.name, xs))
	}
	return stats
}

func summarize(name string, xs []float64) Stat {
	s := Stat{Metric: name, Count: len(xs)}
	if len(xs) == 0 {
		s.Mean, s.Stdev, s.Min, s.Max = math.NaN(), math.NaN(), math.NaN(), math.NaN()
		return s
	}
	s.Mean = stat.Mean(xs, nil)
	if len(xs) > 1 {
		s.Stdev = stat.StdDev(xs, nil)
	}
	s.Min = floats.Min(xs)
	s.Max = floats.Max(xs)
	return s
}

// WriteStats renders stats as a TSV block. Empty moments are written as NA.
func WriteStats(w io.Writer, stats []Stat, precision int) error {
	if precision < 0 {
		precision = DefaultPrecision
	}
	f := func(v float64) string {
		if math.IsNaN(v) {
			return "NA"
		}
		return strconv.FormatFloat(v, 'f', precision, 64)
	}
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, strings.Join(StatColumns, "\t"))
	for _, s := range stats {
		fmt.Fprintln(bw, strings.Join([]string{
			s.Metric, strconv.Itoa(s.Count), f(s.Mean), f(s.Stdev), f(s.Min), f(s.Max),
		}, "\t"))
	}
	return bw.Flush()
}
