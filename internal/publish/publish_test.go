// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package publish

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	s3v2 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staranto/lciochecks/internal/cacheutil"
)

type fakeS3 struct {
	puts   []*s3v2.PutObjectInput
	bodies []string
	failOn string
}

func (f *fakeS3) PutObject(_ context.Context, in *s3v2.PutObjectInput, _ ...func(*s3v2.Options)) (*s3v2.PutObjectOutput, error) {
	if awsv2.ToString(in.Key) == f.failOn {
		return nil, errors.New("access denied")
	}
	body, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.puts = append(f.puts, in)
	f.bodies = append(f.bodies, string(body))
	return &s3v2.PutObjectOutput{}, nil
}

func entries(t *testing.T) []cacheutil.Entry {
	t.Helper()
	dir := t.TempDir()
	var out []cacheutil.Entry
	for name, body := range map[string]string{"a.png": "png", "b.csv": "x,y\n1,2\n"} {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
		out = append(out, cacheutil.Entry{Name: name, Path: p, Size: int64(len(body)), Kind: cacheutil.Kind(name)})
	}
	if out[0].Name != "a.png" {
		out[0], out[1] = out[1], out[0]
	}
	return out
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "image/png", ContentType("count.png"))
	assert.Equal(t, "application/pdf", ContentType("count.PDF"))
	assert.Equal(t, "text/csv", ContentType("counts.csv"))
	assert.Equal(t, "application/octet-stream", ContentType("notes"))
}

func TestKey(t *testing.T) {
	assert.Equal(t, "runs/42/a.png", Key("/runs/42/", "a.png"))
	assert.Equal(t, "a.png", Key("", "a.png"))
}

func TestPublish(t *testing.T) {
	client := &fakeS3{}
	results, err := Publish(context.Background(), client, "checks", "nightly", entries(t))
	require.NoError(t, err)

	require.Len(t, results, 2)
	assert.Equal(t, "nightly/a.png", results[0].Key)
	require.Len(t, client.puts, 2)
	assert.Equal(t, "checks", awsv2.ToString(client.puts[0].Bucket))
	assert.Equal(t, "image/png", awsv2.ToString(client.puts[0].ContentType))
	assert.Equal(t, "text/csv", awsv2.ToString(client.puts[1].ContentType))
	assert.Equal(t, int64(3), awsv2.ToInt64(client.puts[0].ContentLength))
	assert.Equal(t, "x,y\n1,2\n", client.bodies[1])
}

func TestPublish_Errors(t *testing.T) {
	_, err := Publish(context.Background(), &fakeS3{}, "", "", nil)
	assert.ErrorIs(t, err, ErrNoBucket)

	client := &fakeS3{failOn: "b.csv"}
	results, err := Publish(context.Background(), client, "checks", "", entries(t))
	assert.Error(t, err)
	assert.Len(t, results, 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Publish(ctx, &fakeS3{}, "checks", "", entries(t))
	assert.ErrorIs(t, err, context.Canceled)

	_, err = Publish(context.Background(), &fakeS3{}, "checks", "", []cacheutil.Entry{{Name: "gone.png", Path: "/nonexistent/gone.png"}})
	assert.Error(t, err)
}

func TestNewS3_Endpoint(t *testing.T) {
	t.Setenv("AWS_ACCESS_KEY_ID", "test")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "test")
	t.Setenv("AWS_CONFIG_FILE", filepath.Join(t.TempDir(), "config"))
	t.Setenv("AWS_SHARED_CREDENTIALS_FILE", filepath.Join(t.TempDir(), "credentials"))

	client, err := NewS3(context.Background(), WithRegion("eu-west-1"), WithEndpoint("http://localhost:9000"))
	require.NoError(t, err)
	opts := client.Options()
	assert.Equal(t, "eu-west-1", opts.Region)
	assert.True(t, opts.UsePathStyle)
	assert.Equal(t, "http://localhost:9000", awsv2.ToString(opts.BaseEndpoint))
}
