// Command rank ranks destinations once from local forecast files and writes
// the selection table.
//
// Usage:
//
//	go run ./cmd/rank \
//	  --coordinates data/mock/nominatim_cities.json \
//	  --forecasts data/mock/openweather_data.json \
//	  --top-n 5 --out top_5_cities.csv
package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	flag "github.com/spf13/pflag"

	"github.com/couchcryptid/destination-weather-etl/internal/adapter/objectstore"
	"github.com/couchcryptid/destination-weather-etl/internal/domain"
	"github.com/couchcryptid/destination-weather-etl/internal/observability"
)

const tableRows = 10

func main() {
	coordinatesPath := flag.String("coordinates", "data/mock/nominatim_cities.json", "coordinates JSON (name -> geocoding candidates)")
	forecastsPath := flag.String("forecasts", "data/mock/openweather_data.json", "forecast JSON (name -> daily series)")
	topN := flag.Int("top-n", domain.DefaultTopN, "number of locations to select")
	override := flag.StringSlice("override", nil, "select exactly these locations instead of the top N (repeatable or comma separated)")
	out := flag.String("out", "-", "selection CSV path, - for stdout")
	logLevel := flag.String("log-level", "warn", "log level: debug, info, warn or error")
	flag.Parse()

	logger := observability.NewLoggerTo(os.Stderr, *logLevel, "text")

	if err := run(*coordinatesPath, *forecastsPath, *topN, *override, *out, os.Stdout, os.Stderr); err != nil {
		logger.Error("ranking failed", "error", err)
		os.Exit(1)
	}
}

func run(coordinatesPath, forecastsPath string, topN int, override []string, out string, stdout, stderr io.Writer) error {
	coords, err := decodeFile(coordinatesPath, objectstore.DecodeCoordinates)
	if err != nil {
		return err
	}
	forecasts, err := decodeFile(forecastsPath, objectstore.DecodeForecasts)
	if err != nil {
		return err
	}

	scoring := domain.DefaultScoringConfig()
	scoring.TopN = topN
	engine, err := domain.NewEngine(scoring)
	if err != nil {
		return err
	}

	res, err := engine.Evaluate(coords, forecasts, override)
	printIssues(stderr, res.Issues)
	if err != nil {
		return err
	}
	printTable(stderr, res.Ranking)

	if out == "-" {
		return objectstore.EncodeSelection(stdout, res.Selection.Rows)
	}
	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("create %s: %w", out, err)
	}
	if err := objectstore.EncodeSelection(f, res.Selection.Rows); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", out, err)
	}
	return f.Close()
}

func decodeFile[T any](path string, decode func(io.Reader) (T, error)) (T, error) {
	var zero T
	f, err := os.Open(path)
	if err != nil {
		return zero, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	v, err := decode(f)
	if err != nil {
		return zero, fmt.Errorf("decode %s: %w", path, err)
	}
	return v, nil
}

func printIssues(w io.Writer, issues []domain.Issue) {
	for _, issue := range issues {
		fmt.Fprintf(w, "warning: %s\n", issue.Error())
	}
}

func printTable(w io.Writer, ranking []domain.ScoredLocation) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "rank\tglobal\ttemp_day\tdiff_feels\tclouds\tpop\t")
	for _, r := range ranking[:min(tableRows, len(ranking))] {
		fmt.Fprintf(tw, "%s\t%.2f\t%.2f\t%.2f\t%.1f\t%.3f\t\n",
			r.Rank, r.GlobalScore, r.TempDayMean, r.DiffFeelsLikeMean, r.CloudsMean, r.PopMean)
	}
	tw.Flush()
}
