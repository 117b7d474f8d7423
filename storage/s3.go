package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"nutriplan"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3API is the subset of *s3.Client used here.
type S3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3ProfileState implements ProfileState backed by S3
type S3ProfileState struct {
	bucket string
	key    string
	s3     S3API
}

func NewS3ProfileState(s3Client S3API, bucket, key string) *S3ProfileState {
	return &S3ProfileState{
		bucket: bucket,
		key:    key,
		s3:     s3Client,
	}
}

func (s *S3ProfileState) Load(ctx context.Context) ([]byte, error) {
	resp, err := s.s3.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get profile object from S3: %w", err)
	}
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}

// S3PlanStore writes each plan to s3://<bucket>/<prefix><id>.json.
type S3PlanStore struct {
	bucket string
	prefix string
	s3     S3API
}

func NewS3PlanStore(s3Client S3API, bucket, prefix string) *S3PlanStore {
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return &S3PlanStore{
		bucket: bucket,
		prefix: prefix,
		s3:     s3Client,
	}
}

func (s *S3PlanStore) key(id string) (string, error) {
	name, err := planKey(id)
	if err != nil {
		return "", err
	}
	return s.prefix + name, nil
}

func (s *S3PlanStore) Save(ctx context.Context, plan *nutriplan.MealPlan) (string, error) {
	key, err := s.key(plan.ID)
	if err != nil {
		return "", err
	}
	data, err := json.Marshal(plan)
	if err != nil {
		return "", fmt.Errorf("failed to marshal plan: %w", err)
	}

	_, err = s.s3.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to put plan object to S3: %w", err)
	}
	return fmt.Sprintf("s3://%s/%s", s.bucket, key), nil
}

func (s *S3PlanStore) Load(ctx context.Context, id string) (*nutriplan.MealPlan, error) {
	key, err := s.key(id)
	if err != nil {
		return nil, err
	}
	resp, err := s.s3.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, fmt.Errorf("%w: %s", ErrPlanNotFound, id)
		}
		return nil, fmt.Errorf("failed to get plan object from S3: %w", err)
	}
	defer resp.Body.Close()

	var plan nutriplan.MealPlan
	if err := json.NewDecoder(resp.Body).Decode(&plan); err != nil {
		return nil, fmt.Errorf("failed to decode plan %s: %w", id, err)
	}
	return &plan, nil
}
