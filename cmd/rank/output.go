package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"jobfit/resume-ranker/internal/ranking"
	"jobfit/resume-ranker/internal/services"
)

func printTable(w io.Writer, batch *services.BatchResult) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RANK\tSCORE\tRESUME\tSTATUS")
	for _, d := range batch.Documents {
		fmt.Fprintf(tw, "%d\t%d\t%s\t%s\n", d.Rank, d.Score, d.Name, d.ExtractionStatus)
	}
	return tw.Flush()
}

func writeCSVFile(path string, batch *services.BatchResult) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	if err := ranking.WriteCSV(f, batch.ScoredResults()); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
