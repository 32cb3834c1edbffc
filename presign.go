package s3store

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"
)

// Presigned upload URLs expire after this long.
const presignExpiry = 3600 * time.Second

var errNoPresigner = errors.New("client has no presigner configured")

// PresignAPI generates presigned PUT requests. *s3.PresignClient
// satisfies it.
type PresignAPI interface {
	PresignPutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// PresignedUpload is a time-limited URL that grants one PUT of the
// described object, plus the headers the uploader must send with it.
type PresignedUpload struct {
	URL          string
	Method       string
	SignedHeader http.Header
}

// PresignUpload returns a presigned PUT URL for the object described by
// in. The body is ignored for signing; ContentType, when set, becomes
// part of the signature and must be sent by the uploader.
func (c *Client) PresignUpload(ctx context.Context, in UploadInput) (*PresignedUpload, error) {
	const op = "PresignUpload"
	if in.Bucket == "" {
		return nil, &MissingParameterError{Op: op, Param: "bucket"}
	}
	if in.Key == "" {
		return nil, &MissingParameterError{Op: op, Param: "key"}
	}
	if c.presign == nil {
		return nil, &DelegatedError{Op: op, Err: errNoPresigner}
	}

	req := &s3.PutObjectInput{
		Bucket: aws.String(in.Bucket),
		Key:    aws.String(in.Key),
	}
	if in.ContentType != "" {
		req.ContentType = aws.String(in.ContentType)
	}
	if len(in.Metadata) > 0 {
		req.Metadata = in.Metadata
	}

	signed, err := c.presign.PresignPutObject(ctx, req, func(o *s3.PresignOptions) {
		o.Expires = presignExpiry
	})
	if err != nil {
		return nil, &DelegatedError{Op: op, Err: err}
	}
	c.log.Debug("presigned upload URL generated",
		zap.String("bucket", in.Bucket), zap.String("key", in.Key))
	return &PresignedUpload{
		URL:          signed.URL,
		Method:       signed.Method,
		SignedHeader: signed.SignedHeader,
	}, nil
}
