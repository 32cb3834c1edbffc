// Package contrib holds Store decorators for S3-compatible backends that
// deviate from AWS behavior.
package contrib

import (
	"bytes"
	"context"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/wavekit/s3store/store"
)

// ContentLengthStore decorates a Store so PutObject always carries an
// explicit ContentLength. Some backends (MinIO, Cloudflare R2) reject
// chunked uploads without one.
type ContentLengthStore struct{ store.Store }

var _ store.Store = (*ContentLengthStore)(nil)

// WithContentLength wraps st in a ContentLengthStore.
func WithContentLength(st store.Store) *ContentLengthStore {
	return &ContentLengthStore{st}
}

// PutObject fills in ContentLength when it is missing. Seekable bodies
// are measured in place; anything else is buffered.
func (s *ContentLengthStore) PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if in.ContentLength == nil && in.Body != nil {
		if seeker, ok := in.Body.(io.Seeker); ok {
			cur, _ := seeker.Seek(0, io.SeekCurrent)
			end, _ := seeker.Seek(0, io.SeekEnd)
			_, _ = seeker.Seek(cur, io.SeekStart)
			in.ContentLength = aws.Int64(end - cur)
		} else {
			data, err := io.ReadAll(in.Body)
			if err != nil {
				return nil, err
			}
			in.ContentLength = aws.Int64(int64(len(data)))
			in.Body = bytes.NewReader(data)
		}
	}
	return s.Store.PutObject(ctx, in, optFns...)
}
