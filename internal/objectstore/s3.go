package objectstore

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"catalog-kit/internal/domain"
)

// Compile-time check: S3 implements domain.ObjectStore.
var _ domain.ObjectStore = (*S3)(nil)

// S3API is the subset of the S3 client used here.
type S3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Options configures NewS3. Empty fields fall back to the AWS default
// chain: AWS_* environment variables, shared config files, instance roles.
type S3Options struct {
	Region          string
	Endpoint        string // S3-compatible endpoint URL
	UsePathStyle    bool
	AccessKeyID     string
	SecretAccessKey string
	SessionToken    string
}

// S3 reads objects from Amazon S3 or an S3-compatible service.
type S3 struct {
	client S3API
}

// NewS3 creates an S3 store. Credentials set with credential.SetAWSEnv are
// picked up through the default chain.
func NewS3(ctx context.Context, opts S3Options) (*S3, error) {
	var loadOpts []func(*config.LoadOptions) error
	if opts.Region != "" {
		loadOpts = append(loadOpts, config.WithRegion(opts.Region))
	}
	if opts.AccessKeyID != "" && opts.SecretAccessKey != "" {
		creds := credentials.NewStaticCredentialsProvider(opts.AccessKeyID, opts.SecretAccessKey, opts.SessionToken)
		loadOpts = append(loadOpts, config.WithCredentialsProvider(creds))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	clientOpts := []func(*s3.Options){func(o *s3.Options) {
		o.UsePathStyle = opts.UsePathStyle
	}}
	if opts.Endpoint != "" {
		clientOpts = append(clientOpts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(opts.Endpoint)
		})
	}
	return &S3{client: s3.NewFromConfig(awsCfg, clientOpts...)}, nil
}

// NewS3FromClient wraps an existing client.
func NewS3FromClient(client S3API) *S3 {
	return &S3{client: client}
}

// Get implements domain.ObjectStore.
func (s *S3) Get(ctx context.Context, bucket, key string) ([]byte, error) {
	body, err := s.Open(ctx, bucket, key)
	if err != nil {
		return nil, err
	}
	return readAll(body, Location{Scheme: SchemeS3, Bucket: bucket, Key: key})
}

// Open implements domain.ObjectStore.
func (s *S3) Open(ctx context.Context, bucket, key string) (io.ReadCloser, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", Location{Scheme: SchemeS3, Bucket: bucket, Key: key}, err)
	}
	return out.Body, nil
}

func readAll(body io.ReadCloser, loc Location) ([]byte, error) {
	defer body.Close() //nolint:errcheck
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", loc, err)
	}
	return data, nil
}
