package s3store

import (
	"bytes"
	"context"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"go.uber.org/zap"
)

// UploadInput describes a single object upload.
type UploadInput struct {
	Bucket      string
	Key         string
	Body        io.Reader
	ContentType string
	Metadata    map[string]string
}

func (in *UploadInput) validate(op string) error {
	if in.Bucket == "" {
		return &MissingParameterError{Op: op, Param: "bucket"}
	}
	if in.Key == "" {
		return &MissingParameterError{Op: op, Param: "key"}
	}
	if in.Body == nil {
		return &MissingParameterError{Op: op, Param: "body"}
	}
	return nil
}

// BatchDelete names a bucket and the keys to remove from it in one call.
type BatchDelete struct {
	Bucket string
	Keys   []string
}

// Upload stores one object with a single PutObject call.
func (c *Client) Upload(ctx context.Context, in UploadInput) (*s3.PutObjectOutput, error) {
	const op = "Upload"
	if err := in.validate(op); err != nil {
		return nil, err
	}
	req := &s3.PutObjectInput{
		Bucket: aws.String(in.Bucket),
		Key:    aws.String(in.Key),
		Body:   in.Body,
	}
	if in.ContentType != "" {
		req.ContentType = aws.String(in.ContentType)
	}
	if len(in.Metadata) > 0 {
		req.Metadata = in.Metadata
	}
	out, err := c.store.PutObject(ctx, req)
	if err != nil {
		return nil, &DelegatedError{Op: op, Err: err}
	}
	c.log.Debug("object uploaded",
		zap.String("bucket", in.Bucket), zap.String("key", in.Key))
	return out, nil
}

// Delete removes one object.
func (c *Client) Delete(ctx context.Context, bucket, key string) (*s3.DeleteObjectOutput, error) {
	const op = "Delete"
	if bucket == "" {
		return nil, &MissingParameterError{Op: op, Param: "bucket"}
	}
	if key == "" {
		return nil, &MissingParameterError{Op: op, Param: "key"}
	}
	out, err := c.store.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, &DelegatedError{Op: op, Err: err}
	}
	c.log.Debug("object deleted",
		zap.String("bucket", bucket), zap.String("key", key))
	return out, nil
}

// DeleteBatch removes all listed keys with one DeleteObjects call.
// Per-key failures are reported in the output's Errors slice exactly as
// the SDK returns them.
func (c *Client) DeleteBatch(ctx context.Context, in BatchDelete) (*s3.DeleteObjectsOutput, error) {
	const op = "DeleteBatch"
	if in.Bucket == "" {
		return nil, &MissingParameterError{Op: op, Param: "bucket"}
	}
	if len(in.Keys) == 0 {
		return nil, &MissingParameterError{Op: op, Param: "keys"}
	}
	ids := make([]types.ObjectIdentifier, len(in.Keys))
	for i, k := range in.Keys {
		ids[i] = types.ObjectIdentifier{Key: aws.String(k)}
	}
	out, err := c.store.DeleteObjects(ctx, &s3.DeleteObjectsInput{
		Bucket: aws.String(in.Bucket),
		Delete: &types.Delete{Objects: ids},
	})
	if err != nil {
		return nil, &DelegatedError{Op: op, Err: err}
	}
	c.log.Debug("objects deleted",
		zap.String("bucket", in.Bucket),
		zap.Int("requested", len(in.Keys)),
		zap.Int("failed", len(out.Errors)))
	return out, nil
}

// DeleteBucket removes the named bucket. The bucket must already be empty;
// S3 rejects the call otherwise.
func (c *Client) DeleteBucket(ctx context.Context, bucket string) (*s3.DeleteBucketOutput, error) {
	const op = "DeleteBucket"
	if bucket == "" {
		return nil, &MissingParameterError{Op: op, Param: "bucket"}
	}
	out, err := c.store.DeleteBucket(ctx, &s3.DeleteBucketInput{
		Bucket: aws.String(bucket),
	})
	if err != nil {
		return nil, &DelegatedError{Op: op, Err: err}
	}
	c.log.Debug("bucket deleted", zap.String("bucket", bucket))
	return out, nil
}

// CreateFolder writes the zero-byte marker object that S3-compatible
// stores treat as a folder. A trailing "/" is appended to folder when
// missing, and the marker's key is exactly that folder name.
func (c *Client) CreateFolder(ctx context.Context, bucket, folder string) (*s3.PutObjectOutput, error) {
	const op = "CreateFolder"
	if bucket == "" {
		return nil, &MissingParameterError{Op: op, Param: "bucket"}
	}
	if folder == "" {
		return nil, &MissingParameterError{Op: op, Param: "folder"}
	}
	if !strings.HasSuffix(folder, "/") {
		folder += "/"
	}
	out, err := c.store.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(bucket),
		Key:           aws.String(folder),
		Body:          bytes.NewReader(nil),
		ContentLength: aws.Int64(0),
	})
	if err != nil {
		return nil, &DelegatedError{Op: op, Err: err}
	}
	c.log.Debug("folder marker created",
		zap.String("bucket", bucket), zap.String("key", folder))
	return out, nil
}
