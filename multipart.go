package s3store

import (
	"context"
	"io"
	"sync/atomic"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"

	"github.com/wavekit/s3store/store"
)

// The upload manager talks to the same narrow API surface the Store
// exposes, so any Store (including test fakes) can back multipart uploads.
var _ manager.UploadAPIClient = (store.Store)(nil)

// MultipartOptions tunes the multipart upload manager. Zero or negative
// fields fall back to the Config defaults supplied at construction.
type MultipartOptions struct {
	// Concurrency bounds how many parts upload at once.
	Concurrency int
	// PartSize is the byte size of each part. S3 rejects parts smaller
	// than 5 MiB, so smaller values fall back to the default.
	PartSize int64
}

// ProgressFunc receives cumulative transfer progress. done is the number
// of bytes handed to the transport so far; total is the expected size, or
// -1 when the body's length cannot be determined.
type ProgressFunc func(done, total int64)

// progressReader drives a ProgressFunc as the upload manager consumes the
// body. The manager may read from multiple goroutines, hence the atomic.
type progressReader struct {
	r     io.Reader
	total int64
	done  atomic.Int64
	fn    ProgressFunc
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.fn(p.done.Add(int64(n)), p.total)
	}
	return n, err
}

// bodySize determines the remaining length of r without consuming it.
// Returns -1 for non-seekable readers.
func bodySize(r io.Reader) int64 {
	seeker, ok := r.(io.Seeker)
	if !ok {
		return -1
	}
	cur, err := seeker.Seek(0, io.SeekCurrent)
	if err != nil {
		return -1
	}
	end, err := seeker.Seek(0, io.SeekEnd)
	if err != nil {
		return -1
	}
	if _, err := seeker.Seek(cur, io.SeekStart); err != nil {
		return -1
	}
	return end - cur
}

// UploadMultipart stores one object through the SDK's multipart upload
// manager, splitting the body into parts and uploading up to
// opts.Concurrency of them at a time. progress may be nil.
func (c *Client) UploadMultipart(ctx context.Context, in UploadInput, opts MultipartOptions, progress ProgressFunc) (*manager.UploadOutput, error) {
	const op = "UploadMultipart"
	if err := in.validate(op); err != nil {
		return nil, err
	}

	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = c.cfg.Multipart.Concurrency
	}
	partSize := opts.PartSize
	if partSize < manager.MinUploadPartSize {
		partSize = c.cfg.Multipart.PartSize
	}

	body := in.Body
	if progress != nil {
		// Wrapping strips io.ReaderAt from the body, which forces the
		// manager into sequential reads and keeps the running count
		// aligned with bytes actually consumed.
		body = &progressReader{r: in.Body, total: bodySize(in.Body), fn: progress}
	}

	uploader := manager.NewUploader(c.store, func(u *manager.Uploader) {
		u.Concurrency = concurrency
		u.PartSize = partSize
	})

	req := &s3.PutObjectInput{
		Bucket: aws.String(in.Bucket),
		Key:    aws.String(in.Key),
		Body:   body,
	}
	if in.ContentType != "" {
		req.ContentType = aws.String(in.ContentType)
	}
	if len(in.Metadata) > 0 {
		req.Metadata = in.Metadata
	}

	out, err := uploader.Upload(ctx, req)
	if err != nil {
		return nil, &DelegatedError{Op: op, Err: err}
	}
	c.log.Debug("multipart upload complete",
		zap.String("bucket", in.Bucket),
		zap.String("key", in.Key),
		zap.Int("concurrency", concurrency),
		zap.Int64("part_size", partSize))
	return out, nil
}
