package services

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"time"

	appconfig "gate-backend/internal/config"
	"gate-backend/internal/models"
	"gate-backend/internal/timeutil"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ArchiveService uploads a CSV snapshot of both registers to an
// S3-compatible bucket once a day, at the configured IST hour.
type ArchiveService struct {
	cfg     *appconfig.Config
	inward  *InwardService
	outward *OutwardService
	exports *ExportService
	clock   timeutil.Clock
}

func NewArchiveService(cfg *appconfig.Config, inward *InwardService, outward *OutwardService, exports *ExportService, clock timeutil.Clock) *ArchiveService {
	return &ArchiveService{
		cfg:     cfg,
		inward:  inward,
		outward: outward,
		exports: exports,
		clock:   clock,
	}
}

// Run blocks until ctx is cancelled, firing one archive upload per day.
// Intended to run in its own goroutine from main.
func (s *ArchiveService) Run(ctx context.Context) {
	if !s.cfg.Archive.Enabled {
		return
	}
	log.Printf("[Archive] scheduler started, uploading daily at %02d:00 IST", s.cfg.Archive.Hour)

	for {
		select {
		case <-ctx.Done():
			log.Printf("[Archive] scheduler stopped")
			return
		case <-time.After(s.untilNextRun()):
			if err := s.ArchiveNow(ctx); err != nil {
				log.Printf("[Archive] upload failed: %v", err)
			}
		}
	}
}

func (s *ArchiveService) untilNextRun() time.Duration {
	now := timeutil.ToIST(s.clock.Now())
	next := time.Date(now.Year(), now.Month(), now.Day(), s.cfg.Archive.Hour, 0, 0, 0, timeutil.IST)
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next.Sub(now)
}

// ArchiveNow exports both registers as CSV and uploads them under a
// date-stamped prefix.
func (s *ArchiveService) ArchiveNow(ctx context.Context) error {
	client, err := s.newClient(ctx)
	if err != nil {
		return err
	}

	// The archiver reads on behalf of the system, not a user.
	admin := models.Principal{Role: models.RoleAdmin}
	date := timeutil.ToIST(s.clock.Now()).Format(timeutil.DateLayout)

	registers := []struct {
		name string
		rows func(context.Context, models.Principal, string) (*ExportData, error)
	}{
		{"inward", s.inward.ExportRows},
		{"outward", s.outward.ExportRows},
	}

	for _, reg := range registers {
		data, err := reg.rows(ctx, admin, "")
		if err != nil {
			return fmt.Errorf("export %s register: %w", reg.name, err)
		}
		file, err := s.exports.Render(data, "csv")
		if err != nil {
			return fmt.Errorf("render %s register: %w", reg.name, err)
		}

		key := fmt.Sprintf("registers/%s/%s.csv", date, reg.name)
		_, err = client.PutObject(ctx, &s3.PutObjectInput{
			Bucket:      aws.String(s.cfg.Archive.Bucket),
			Key:         aws.String(key),
			Body:        bytes.NewReader(file.Content),
			ContentType: aws.String(file.ContentType),
		})
		if err != nil {
			return fmt.Errorf("upload %s: %w", key, err)
		}
		log.Printf("[Archive] uploaded %s (%d bytes)", key, len(file.Content))
	}
	return nil
}

func (s *ArchiveService) newClient(ctx context.Context) (*s3.Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.cfg.Archive.AccessKey,
			s.cfg.Archive.SecretKey,
			"",
		)),
		awsconfig.WithRegion(s.cfg.Archive.Region),
	)
	if err != nil {
		return nil, err
	}

	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		if s.cfg.Archive.Endpoint != "" {
			o.BaseEndpoint = aws.String(s.cfg.Archive.Endpoint)
		}
	}), nil
}
