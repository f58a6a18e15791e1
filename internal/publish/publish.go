// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package publish uploads cached check artifacts to an S3 bucket so plots and
// tables can be shared without rerunning the checks.
package publish

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/apex/log"
	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	s3v2 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dustin/go-humanize"

	"github.com/staranto/lciochecks/internal/cacheutil"
)

var ErrNoBucket = errors.New("no bucket given")

// PutObjectAPI is the part of the S3 client used for uploads.
type PutObjectAPI interface {
	PutObject(ctx context.Context, in *s3v2.PutObjectInput, optFns ...func(*s3v2.Options)) (*s3v2.PutObjectOutput, error)
}

// Result describes one uploaded artifact.
type Result struct {
	Name string `json:"name" yaml:"name"`
	Key  string `json:"key" yaml:"key"`
	Size int64  `json:"size" yaml:"size"`
}

var contentTypes = map[string]string{
	".png":  "image/png",
	".pdf":  "application/pdf",
	".svg":  "image/svg+xml",
	".eps":  "application/postscript",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".tif":  "image/tiff",
	".tiff": "image/tiff",
	".csv":  "text/csv",
}

// ContentType maps an artifact file name to the MIME type it is served with.
func ContentType(name string) string {
	if ct, ok := contentTypes[strings.ToLower(filepath.Ext(name))]; ok {
		return ct
	}
	return "application/octet-stream"
}

// Key is the object key of an artifact under prefix.
func Key(prefix, name string) string {
	return path.Join(strings.Trim(prefix, "/"), name)
}

// Publish uploads every entry to bucket under prefix, in order. It stops at
// the first failure and returns what was uploaded so far.
func Publish(ctx context.Context, client PutObjectAPI, bucket, prefix string, entries []cacheutil.Entry) ([]Result, error) {
	if bucket == "" {
		return nil, ErrNoBucket
	}

	var results []Result
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		r, err := upload(ctx, client, bucket, prefix, e)
		if err != nil {
			return results, err
		}
		log.Infof("Published %s to s3://%s/%s (%s).", e.Name, bucket, r.Key, humanize.Bytes(uint64(e.Size))) //nolint:gosec
		results = append(results, r)
	}
	return results, nil
}

func upload(ctx context.Context, client PutObjectAPI, bucket, prefix string, e cacheutil.Entry) (Result, error) {
	f, err := os.Open(e.Path)
	if err != nil {
		return Result{}, fmt.Errorf("failed to open %s: %w", e.Name, err)
	}
	defer f.Close()

	key := Key(prefix, e.Name)
	_, err = client.PutObject(ctx, &s3v2.PutObjectInput{
		Bucket:        awsv2.String(bucket),
		Key:           awsv2.String(key),
		Body:          f,
		ContentLength: awsv2.Int64(e.Size),
		ContentType:   awsv2.String(ContentType(e.Name)),
	})
	if err != nil {
		return Result{}, fmt.Errorf("failed to upload %s: %w", e.Name, err)
	}
	return Result{Name: e.Name, Key: key, Size: e.Size}, nil
}
