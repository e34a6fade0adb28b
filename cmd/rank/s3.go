package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"jobfit/resume-ranker/internal/config"
	"jobfit/resume-ranker/internal/services"
)

var (
	s3Bucket   string
	s3Prefix   string
	s3Region   string
	s3Endpoint string
)

var s3Cmd = &cobra.Command{
	Use:   "s3",
	Short: "Rank resumes stored in an S3 compatible bucket",
	Long: `Download every PDF, DOCX and TXT object under a prefix and rank them.

Credentials come from S3_ACCESS_KEY and S3_SECRET_KEY, or the default AWS
chain when those are unset.

Examples:
  rank s3 --bucket hiring --prefix 2024/backend/ --job-file job.txt

  # Cloudflare R2 or MinIO
  rank s3 --endpoint https://<account>.r2.cloudflarestorage.com --bucket hiring --job "data engineer"`,
	Args: cobra.NoArgs,
	RunE: runRankS3,
}

func init() {
	s3Cmd.Flags().StringVar(&s3Bucket, "bucket", "", "Bucket holding the resumes (defaults to S3_BUCKET)")
	s3Cmd.Flags().StringVar(&s3Prefix, "prefix", "", "Only rank objects under this prefix")
	s3Cmd.Flags().StringVar(&s3Region, "region", "", "Bucket region (defaults to S3_REGION)")
	s3Cmd.Flags().StringVar(&s3Endpoint, "endpoint", "", "Custom endpoint for S3 compatible stores (defaults to S3_ENDPOINT)")
}

func runRankS3(cmd *cobra.Command, args []string) error {
	job, err := loadJobDescription()
	if err != nil {
		return err
	}

	s3Config := config.Load().S3
	if s3Bucket != "" {
		s3Config.Bucket = s3Bucket
	}
	if s3Region != "" {
		s3Config.Region = s3Region
	}
	if s3Endpoint != "" {
		s3Config.Endpoint = s3Endpoint
	}

	store, err := services.NewS3ObjectStore(cmd.Context(), s3Config)
	if err != nil {
		return err
	}

	files, err := services.LoadResumes(cmd.Context(), store, s3Prefix)
	if err != nil {
		return fmt.Errorf("failed to load resumes from s3://%s/%s: %w", s3Config.Bucket, s3Prefix, err)
	}
	if len(files) == 0 {
		return fmt.Errorf("no resumes found under s3://%s/%s", s3Config.Bucket, s3Prefix)
	}

	return rankAndReport(cmd, job, files)
}
