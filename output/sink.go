package output

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/achilleasa/raytrace/log"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/disintegration/imaging"
)

// Max time allowed for a single upload.
const uploadTimeout = 30 * time.Second

// A Sink stores rendered images.
type Sink interface {
	Write(ctx context.Context, img image.Image, name string) error
}

// FileSink saves images under a local directory. The image format is
// selected from the name extension.
type FileSink struct {
	Dir string
}

func (s *FileSink) Write(ctx context.Context, img image.Image, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	dst := filepath.Join(s.Dir, name)
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return fmt.Errorf("output: could not create %s: %w", filepath.Dir(dst), err)
	}
	if err := imaging.Save(img, dst); err != nil {
		return fmt.Errorf("output: could not save %s: %w", dst, err)
	}
	return nil
}

type S3Config struct {
	Bucket string
	Prefix string
	Region string

	// Custom endpoint for S3 compatible stores. Enables path style
	// addressing when set.
	Endpoint string

	// Static credentials. When empty the default aws credential chain
	// is used.
	AccessKey string
	SecretKey string

	// Canned ACL applied to uploaded objects.
	ACL string
}

// S3Sink uploads PNG encoded images to an S3 bucket.
type S3Sink struct {
	logger log.Logger
	client *s3.S3
	config S3Config
}

func NewS3Sink(cfg S3Config) (*S3Sink, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("output: s3 bucket not specified")
	}

	awsConfig := &aws.Config{
		Region: aws.String(cfg.Region),
	}
	if cfg.AccessKey != "" {
		awsConfig.Credentials = credentials.NewStaticCredentials(cfg.AccessKey, cfg.SecretKey, "")
	}
	if cfg.Endpoint != "" {
		awsConfig.Endpoint = aws.String(cfg.Endpoint)
		awsConfig.S3ForcePathStyle = aws.Bool(true)
	}

	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, fmt.Errorf("output: could not create s3 session: %w", err)
	}

	return &S3Sink{
		logger: log.New("s3 sink"),
		client: s3.New(sess),
		config: cfg,
	}, nil
}

func (s *S3Sink) Write(ctx context.Context, img image.Image, name string) error {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return fmt.Errorf("output: could not encode %s: %w", name, err)
	}

	ctx, cancel := context.WithTimeout(ctx, uploadTimeout)
	defer cancel()

	key := path.Join(s.config.Prefix, path.Base(name))
	input := &s3.PutObjectInput{
		Bucket:        aws.String(s.config.Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(buf.Bytes()),
		ContentLength: aws.Int64(int64(buf.Len())),
		ContentType:   aws.String("image/png"),
	}
	if s.config.ACL != "" {
		input.ACL = aws.String(s.config.ACL)
	}

	if _, err := s.client.PutObjectWithContext(ctx, input); err != nil {
		return fmt.Errorf("output: could not upload %s: %w", key, err)
	}

	s.logger.Infof("uploaded s3://%s/%s (%d bytes)", s.config.Bucket, key, buf.Len())
	return nil
}
