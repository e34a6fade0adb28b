// Package main implements the rank CLI, which scores resumes against a job
// description without the HTTP server.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"jobfit/resume-ranker/internal/config"
	"jobfit/resume-ranker/internal/models"
	"jobfit/resume-ranker/internal/services"
)

var (
	jobDescription string
	jobFile        string
	outPath        string
	stemming       bool
	stopWords      bool
	verbose        bool
	version        = "dev"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "rank [files...]",
	Short: "Rank resumes against a job description",
	Long: `rank scores resumes (PDF, DOCX or TXT) against a job description using
TF-IDF cosine similarity and prints them best first.

Examples:
  # Rank local files
  rank --job "senior go engineer" alice.pdf bob.docx

  # Read the job description from a file and export CSV
  rank --job-file job.txt --out results.csv resumes/*.pdf`,
	Version: version,
	Args:    cobra.MinimumNArgs(1),
	RunE:    runRankFiles,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&jobDescription, "job", "", "Job description text")
	rootCmd.PersistentFlags().StringVar(&jobFile, "job-file", "", "File containing the job description")
	rootCmd.PersistentFlags().StringVar(&outPath, "out", "", "Write results as CSV to this file")
	rootCmd.PersistentFlags().BoolVar(&stemming, "stem", false, "Reduce words to their English stem")
	rootCmd.PersistentFlags().BoolVar(&stopWords, "stop-words", false, "Ignore common English stop words")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(s3Cmd)
}

func runRankFiles(cmd *cobra.Command, args []string) error {
	job, err := loadJobDescription()
	if err != nil {
		return err
	}

	files := make([]models.ResumeFile, len(args))
	for i, path := range args {
		files[i] = services.ReadResumeFile(path)
	}

	return rankAndReport(cmd, job, files)
}

func loadJobDescription() (string, error) {
	if jobDescription != "" && jobFile != "" {
		return "", fmt.Errorf("use either --job or --job-file, not both")
	}

	job := jobDescription
	if jobFile != "" {
		data, err := os.ReadFile(jobFile)
		if err != nil {
			return "", fmt.Errorf("failed to read job description: %w", err)
		}
		job = string(data)
	}

	if strings.TrimSpace(job) == "" {
		return "", fmt.Errorf("a job description is required: use --job or --job-file")
	}
	return job, nil
}

func newLogger() (*zap.Logger, error) {
	if !verbose {
		return zap.NewNop(), nil
	}
	return config.NewLogger("development")
}

func rankAndReport(cmd *cobra.Command, job string, files []models.ResumeFile) error {
	logger, err := newLogger()
	if err != nil {
		return err
	}
	defer logger.Sync()

	service := services.NewRankingService(
		services.NewTextExtractor(logger),
		logger,
		services.RankingOptions(stemming, stopWords)...,
	)

	batch, err := service.RankDocuments(cmd.Context(), job, files)
	if err != nil {
		return err
	}

	if err := printTable(cmd.OutOrStdout(), batch); err != nil {
		return err
	}
	for _, warning := range batch.Warnings() {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", warning)
	}

	if outPath != "" {
		if err := writeCSVFile(outPath, batch); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Results written to %s\n", outPath)
	}

	return nil
}
