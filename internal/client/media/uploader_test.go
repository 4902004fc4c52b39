package media

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cc "github.com/dmitrijs2005/streamstock/internal/client/config"
	"github.com/dmitrijs2005/streamstock/internal/common"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

func testConfig() cc.MediaConfig {
	return cc.MediaConfig{
		Endpoint:        "http://127.0.0.1:9000/",
		Region:          "us-east-1",
		Bucket:          "images",
		AccessKeyID:     "minioadmin",
		SecretAccessKey: "minioadmin",
	}
}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, data, 0o600))
	return p
}

// stubS3 replaces the package seams for the duration of the test and
// records what PutObject received.
func stubS3(t *testing.T, putErr error) *s3.PutObjectInput {
	t.Helper()

	origLoad := loadDefaultAWSConfig
	origNew := newS3ClientFromConfig
	origPut := putObject
	t.Cleanup(func() {
		loadDefaultAWSConfig = origLoad
		newS3ClientFromConfig = origNew
		putObject = origPut
	})

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		var lo awsconfig.LoadOptions
		for _, fn := range optFns {
			require.NoError(t, fn(&lo))
		}
		assert.Equal(t, "us-east-1", lo.Region)
		creds, err := lo.Credentials.Retrieve(ctx)
		require.NoError(t, err)
		assert.Equal(t, "minioadmin", creds.AccessKeyID)
		return aws.Config{}, nil
	}

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		var opts s3.Options
		for _, fn := range optFns {
			fn(&opts)
		}
		require.NotNil(t, opts.BaseEndpoint)
		assert.Equal(t, "http://127.0.0.1:9000/", *opts.BaseEndpoint)
		assert.True(t, opts.UsePathStyle)
		return &s3.Client{}
	}

	got := &s3.PutObjectInput{}
	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		*got = *in
		body, err := io.ReadAll(in.Body)
		require.NoError(t, err)
		assert.Equal(t, pngHeader, body)
		if putErr != nil {
			return nil, putErr
		}
		return &s3.PutObjectOutput{}, nil
	}
	return got
}

func TestUploader_Upload(t *testing.T) {
	got := stubS3(t, nil)
	u := NewUploader(testConfig(), nil)
	u.now = func() time.Time { return time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC) }

	url, err := u.Upload(context.Background(), writeFile(t, "logo.bin", pngHeader))
	require.NoError(t, err)

	require.NotNil(t, got.Key)
	assert.True(t, strings.HasPrefix(*got.Key, "products/2026/03/"), *got.Key)
	assert.True(t, strings.HasSuffix(*got.Key, ".png"), *got.Key)
	assert.Equal(t, "images", aws.ToString(got.Bucket))
	assert.Equal(t, "image/png", aws.ToString(got.ContentType))
	assert.Equal(t, int64(len(pngHeader)), aws.ToInt64(got.ContentLength))
	assert.Equal(t, "http://127.0.0.1:9000/images/"+*got.Key, url)
}

func TestUploader_PublicBaseURL(t *testing.T) {
	cfg := testConfig()
	cfg.PublicBaseURL = "https://cdn.example.com/"
	u := NewUploader(cfg, nil)

	assert.Equal(t, "https://cdn.example.com/products/a.png", u.PublicURL("products/a.png"))
}

func TestUploader_Disabled(t *testing.T) {
	u := NewUploader(cc.MediaConfig{Region: "us-east-1"}, nil)

	assert.False(t, u.Enabled())
	_, err := u.Upload(context.Background(), "whatever.png")
	assert.ErrorIs(t, err, ErrDisabled)
}

func TestUploader_Rejects(t *testing.T) {
	stubS3(t, nil)
	u := NewUploader(testConfig(), nil)

	_, err := u.Upload(context.Background(), writeFile(t, "notes.png", []byte("just some text")))
	assert.ErrorIs(t, err, common.ErrorValidation)

	big := append(append([]byte{}, pngHeader...), make([]byte, MaxImageSize)...)
	_, err = u.Upload(context.Background(), writeFile(t, "big.png", big))
	assert.ErrorIs(t, err, common.ErrorValidation)

	_, err = u.Upload(context.Background(), filepath.Join(t.TempDir(), "missing.png"))
	assert.Error(t, err)
}

func TestUploader_PutError(t *testing.T) {
	stubS3(t, errors.New("bucket gone"))
	u := NewUploader(testConfig(), nil)

	_, err := u.Upload(context.Background(), writeFile(t, "logo.png", pngHeader))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bucket gone")
}

func TestUploader_ConfigError(t *testing.T) {
	orig := loadDefaultAWSConfig
	t.Cleanup(func() { loadDefaultAWSConfig = orig })
	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, errors.New("no config")
	}

	_, err := NewUploader(testConfig(), nil).Upload(context.Background(), writeFile(t, "logo.png", pngHeader))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no config")
}
