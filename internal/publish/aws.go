// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package publish

import (
	"context"
	"fmt"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	s3v2 "github.com/aws/aws-sdk-go-v2/service/s3"
)

// clientSettings are the overrides applied on top of the shell's AWS setup.
type clientSettings struct {
	profile  string
	region   string
	endpoint string
}

// Option customizes how the S3 client is built. With no options the shell's
// AWS setup is inherited (AWS_PROFILE, ~/.aws/config, env, IMDS).
type Option func(*clientSettings)

// WithProfile sets the shared config profile.
func WithProfile(profile string) Option {
	return func(s *clientSettings) { s.profile = profile }
}

// WithRegion overrides the region of the env/profile chain.
func WithRegion(region string) Option {
	return func(s *clientSettings) { s.region = region }
}

// WithEndpoint points the client at an S3 compatible store such as MinIO,
// addressed path style.
func WithEndpoint(url string) Option {
	return func(s *clientSettings) { s.endpoint = url }
}

func (s clientSettings) loadOptions() []func(*config.LoadOptions) error {
	var lo []func(*config.LoadOptions) error
	if s.profile != "" {
		lo = append(lo, config.WithSharedConfigProfile(s.profile))
	}
	if s.region != "" {
		lo = append(lo, config.WithRegion(s.region))
	}
	return lo
}

// NewS3 loads the AWS SDK v2 config and returns an S3 client for it.
func NewS3(ctx context.Context, opts ...Option) (*s3v2.Client, error) {
	var s clientSettings
	for _, opt := range opts {
		opt(&s)
	}

	cfg, err := config.LoadDefaultConfig(ctx, s.loadOptions()...)
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}

	var s3opts []func(*s3v2.Options)
	if s.endpoint != "" {
		s3opts = append(s3opts, func(o *s3v2.Options) {
			o.BaseEndpoint = awsv2.String(s.endpoint)
			o.UsePathStyle = true
		})
	}
	return s3v2.NewFromConfig(cfg, s3opts...), nil
}
