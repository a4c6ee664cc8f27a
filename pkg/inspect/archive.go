package inspect

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strconv"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ErrNoArchiver is returned when archiving is requested but no archiver is
// configured.
var ErrNoArchiver = errors.New("inspect: no archiver configured")

// Archiver stores commit snapshots outside the process.
type Archiver interface {
	Archive(ctx context.Context, e Entry) error
}

// PutObjectAPI is the subset of *s3.Client used by S3Archiver.
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Archiver uploads the HTML snapshot of each commit to an S3 bucket.
//
// Example:
//
//	client := s3.New(s3.Options{Region: "eu-west-1"})
//	archiver := inspect.NewS3Archiver(client, "my-bucket", "guise/commits")
type S3Archiver struct {
	client PutObjectAPI
	bucket string
	prefix string
}

// NewS3Archiver creates an archiver writing under prefix in bucket.
func NewS3Archiver(client PutObjectAPI, bucket, prefix string) *S3Archiver {
	return &S3Archiver{
		client: client,
		bucket: bucket,
		prefix: strings.Trim(prefix, "/"),
	}
}

// Key returns the object key for e: <prefix>/<component>/<seq>.html.
func (a *S3Archiver) Key(e Entry) string {
	return path.Join(a.prefix, e.Component, fmt.Sprintf("%08d.html", e.Seq))
}

// Archive implements Archiver.
func (a *S3Archiver) Archive(ctx context.Context, e Entry) error {
	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(a.Key(e)),
		Body:        strings.NewReader(e.HTML),
		ContentType: aws.String("text/html; charset=utf-8"),
		Metadata: map[string]string{
			"component": e.Component,
			"commit":    strconv.FormatUint(e.Commit, 10),
		},
	})
	if err != nil {
		return fmt.Errorf("inspect: archive %s: %w", a.Key(e), err)
	}
	return nil
}
