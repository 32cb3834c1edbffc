// Package s3store is a thin facade over the AWS S3 SDK for the handful of
// operations most services need: uploads (single-shot and multipart with
// progress reporting), presigned upload URLs, object and bucket deletion,
// and folder markers.
//
// Every operation validates its required fields, issues exactly one
// delegated SDK call, and wraps failures in a typed error. Retry, backoff
// and connection pooling stay the SDK's responsibility, configured once at
// Connect time.
package s3store

import (
	"context"
	"errors"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"go.uber.org/zap"

	"github.com/wavekit/s3store/config"
	"github.com/wavekit/s3store/store"
)

// ErrNoBuckets is reported by Connect when the liveness probe finds an
// account with no buckets and WithAllowEmptyAccount was not set.
var ErrNoBuckets = errors.New("account has no buckets")

// Client is an S3 facade bound to one endpoint. Construct it once with
// Connect (or New when injecting a Store) and share it freely; all methods
// are safe for concurrent use.
type Client struct {
	store      store.Store
	presign    PresignAPI
	log        *zap.Logger
	cfg        config.Config
	allowEmpty bool
}

// Option configures the client.
type Option func(*Client)

// WithLogger sets the structured logger. Defaults to a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.log = l }
}

// WithAllowEmptyAccount makes Connect accept an account whose bucket
// listing is empty instead of failing with ErrNoBuckets.
func WithAllowEmptyAccount() Option {
	return func(c *Client) { c.allowEmpty = true }
}

// WithPresigner overrides the presigned-URL generator. Mainly useful in
// tests; Connect wires a real s3.PresignClient automatically.
func WithPresigner(p PresignAPI) Option {
	return func(c *Client) { c.presign = p }
}

// New builds the facade around a pre-configured Store. Presigning is
// unavailable unless WithPresigner is supplied; use Connect for a fully
// wired client.
func New(st store.Store, cfg config.Config, opts ...Option) *Client {
	c := &Client{
		store: st,
		log:   zap.NewNop(),
		cfg:   cfg,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Connect constructs an S3 client from cfg, verifies it can reach the
// endpoint by listing buckets, and returns the facade. Construction or
// probe failures surface as *ConnectionError; Connect never returns a nil
// client with a nil error.
func Connect(ctx context.Context, cfg config.Config, opts ...Option) (*Client, error) {
	if cfg.Endpoint == "" {
		cfg.Endpoint = os.Getenv(config.EnvEndpoint)
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithRetryMode(aws.RetryMode(cfg.RetryMode)),
		awsconfig.WithRetryMaxAttempts(cfg.MaxAttempts),
	}
	if cfg.Credentials.AccessKeyID != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(
				cfg.Credentials.AccessKeyID, cfg.Credentials.SecretAccessKey, "")))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, &ConnectionError{Err: err}
	}

	sdk := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.PathStyle()
	})

	c := New(store.NewAWSStore(sdk), cfg, opts...)
	if c.presign == nil {
		c.presign = s3.NewPresignClient(sdk)
	}

	out, err := c.store.ListBuckets(ctx, &s3.ListBucketsInput{})
	if err != nil {
		return nil, &ConnectionError{Err: err}
	}
	if len(out.Buckets) == 0 && !c.allowEmpty {
		return nil, &ConnectionError{Err: ErrNoBuckets}
	}

	c.log.Debug("connected",
		zap.String("region", cfg.Region),
		zap.String("endpoint", cfg.Endpoint),
		zap.Int("buckets", len(out.Buckets)))
	return c, nil
}

// Store returns the underlying Store handle.
func (c *Client) Store() store.Store { return c.store }

// ListBuckets lists the buckets visible to the connected credentials.
func (c *Client) ListBuckets(ctx context.Context) (*s3.ListBucketsOutput, error) {
	const op = "ListBuckets"
	out, err := c.store.ListBuckets(ctx, &s3.ListBucketsInput{})
	if err != nil {
		return nil, &DelegatedError{Op: op, Err: err}
	}
	return out, nil
}

// BucketExists reports whether the named bucket exists and is reachable.
func (c *Client) BucketExists(ctx context.Context, bucket string) (bool, error) {
	const op = "BucketExists"
	if bucket == "" {
		return false, &MissingParameterError{Op: op, Param: "bucket"}
	}
	_, err := c.store.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(bucket)})
	if err == nil {
		return true, nil
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NotFound", "NoSuchBucket":
			return false, nil
		}
	}
	return false, &DelegatedError{Op: op, Err: err}
}
