// Package media uploads product images to an S3-compatible bucket and returns
// the public URL the API stores as a product's imageUrl.
package media

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	cc "github.com/dmitrijs2005/streamstock/internal/client/config"
	"github.com/dmitrijs2005/streamstock/internal/common"
	"github.com/dmitrijs2005/streamstock/internal/logging"
)

// MaxImageSize is the largest file Upload accepts.
const MaxImageSize = 5 << 20

var ErrDisabled = errors.New("media upload is not configured")

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		return c.PutObject(ctx, in, optFns...)
	}
)

type Uploader struct {
	cfg cc.MediaConfig
	log logging.Logger
	now func() time.Time
}

func NewUploader(cfg cc.MediaConfig, log logging.Logger) *Uploader {
	if log == nil {
		log = logging.Nop()
	}
	return &Uploader{cfg: cfg, log: log, now: time.Now}
}

// Enabled reports whether uploads can be attempted.
func (u *Uploader) Enabled() bool {
	return u.cfg.Enabled()
}

// ObjectKey returns a fresh key for an image with the given extension.
func (u *Uploader) ObjectKey(ext string) string {
	d := u.now()
	return fmt.Sprintf("products/%d/%02d/%v%s", d.Year(), d.Month(), uuid.New(), ext)
}

// PublicURL returns the address an uploaded key is served from.
func (u *Uploader) PublicURL(key string) string {
	base := u.cfg.PublicBaseURL
	if base == "" {
		base = strings.TrimRight(u.cfg.Endpoint, "/") + "/" + u.cfg.Bucket
	}
	return strings.TrimRight(base, "/") + "/" + key
}

func (u *Uploader) getClient(ctx context.Context) (*s3.Client, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(u.cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			u.cfg.AccessKeyID,
			u.cfg.SecretAccessKey,
			"",
		)))
	if err != nil {
		return nil, err
	}

	return newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(u.cfg.Endpoint)
		o.UsePathStyle = true
	}), nil
}

// Upload stores the image at path and returns its public URL. Only image
// files up to MaxImageSize are accepted.
func (u *Uploader) Upload(ctx context.Context, path string) (string, error) {
	if !u.Enabled() {
		return "", ErrDisabled
	}

	mt, err := mimetype.DetectFile(path)
	if err != nil {
		return "", fmt.Errorf("read image: %w", err)
	}
	if !strings.HasPrefix(mt.String(), "image/") {
		return "", fmt.Errorf("%w: %s is %s, not an image", common.ErrorValidation, path, mt.String())
	}

	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("read image: %w", err)
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return "", fmt.Errorf("read image: %w", err)
	}
	if st.Size() > MaxImageSize {
		return "", fmt.Errorf("%w: image is %d bytes, limit is %d", common.ErrorValidation, st.Size(), MaxImageSize)
	}

	client, err := u.getClient(ctx)
	if err != nil {
		return "", fmt.Errorf("s3 client: %w", err)
	}

	bucket := u.cfg.Bucket
	key := u.ObjectKey(mt.Extension())

	_, err = putObject(client, ctx, &s3.PutObjectInput{
		Bucket:        &bucket,
		Key:           &key,
		Body:          f,
		ContentType:   aws.String(mt.String()),
		ContentLength: aws.Int64(st.Size()),
	})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}

	u.log.Info(ctx, "image uploaded", "key", key, "bytes", st.Size())
	return u.PublicURL(key), nil
}
