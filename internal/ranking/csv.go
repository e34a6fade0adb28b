package ranking

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
)

// CSVHeader is the header row of an exported ranking.
var CSVHeader = []string{"Resume", "Score", "Rank"}

// WriteCSV writes results with a header row and no index column.
func WriteCSV(w io.Writer, results []ScoredResult) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(CSVHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, r := range results {
		record := []string{r.Name, strconv.Itoa(r.Score), strconv.Itoa(r.Rank)}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV row for %s: %w", r.Name, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}

	return nil
}

// ReadCSV parses a ranking previously written by WriteCSV.
func ReadCSV(r io.Reader) ([]ScoredResult, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(CSVHeader)

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("missing CSV header")
		}
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	for i, column := range CSVHeader {
		if header[i] != column {
			return nil, fmt.Errorf("unexpected CSV column %q at position %d, want %q", header[i], i+1, column)
		}
	}

	results := []ScoredResult{}
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV row: %w", err)
		}

		score, err := strconv.Atoi(record[1])
		if err != nil {
			return nil, fmt.Errorf("invalid score %q for %s: %w", record[1], record[0], err)
		}
		rank, err := strconv.Atoi(record[2])
		if err != nil {
			return nil, fmt.Errorf("invalid rank %q for %s: %w", record[2], record[0], err)
		}

		results = append(results, ScoredResult{Name: record[0], Score: score, Rank: rank})
	}

	return results, nil
}
