package s3store

import (
	"context"
	"io"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/wavekit/s3store/store"
)

// fakeStore is an in-memory Store that records every delegated call, so
// tests can assert both stored state and that validation failures never
// reach the backend.
type fakeStore struct {
	mu      sync.Mutex
	objects map[string][]byte // "bucket/key" → body
	buckets []types.Bucket
	calls   []string
	err     error // when set, every delegated call fails with it
	headErr error // HeadBucket-specific failure
}

var _ store.Store = (*fakeStore)(nil)

func newFakeStore() *fakeStore {
	return &fakeStore{objects: map[string][]byte{}}
}

func (f *fakeStore) record(op string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, op)
	return f.err
}

func (f *fakeStore) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeStore) object(bucket, key string) ([]byte, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.objects[bucket+"/"+key]
	return b, ok
}

func (f *fakeStore) ListBuckets(ctx context.Context, in *s3.ListBucketsInput, optFns ...func(*s3.Options)) (*s3.ListBucketsOutput, error) {
	if err := f.record("ListBuckets"); err != nil {
		return nil, err
	}
	return &s3.ListBucketsOutput{Buckets: f.buckets}, nil
}

func (f *fakeStore) HeadBucket(ctx context.Context, in *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error) {
	if err := f.record("HeadBucket"); err != nil {
		return nil, err
	}
	if f.headErr != nil {
		return nil, f.headErr
	}
	return &s3.HeadBucketOutput{}, nil
}

func (f *fakeStore) PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if err := f.record("PutObject"); err != nil {
		return nil, err
	}
	var body []byte
	if in.Body != nil {
		b, err := io.ReadAll(in.Body)
		if err != nil {
			return nil, err
		}
		body = b
	}
	f.mu.Lock()
	f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)] = body
	f.mu.Unlock()
	return &s3.PutObjectOutput{ETag: aws.String(`"fake-etag"`)}, nil
}

func (f *fakeStore) DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	if err := f.record("DeleteObject"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	delete(f.objects, aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key))
	f.mu.Unlock()
	return &s3.DeleteObjectOutput{}, nil
}

func (f *fakeStore) DeleteObjects(ctx context.Context, in *s3.DeleteObjectsInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectsOutput, error) {
	if err := f.record("DeleteObjects"); err != nil {
		return nil, err
	}
	out := &s3.DeleteObjectsOutput{}
	f.mu.Lock()
	for _, id := range in.Delete.Objects {
		delete(f.objects, aws.ToString(in.Bucket)+"/"+aws.ToString(id.Key))
		out.Deleted = append(out.Deleted, types.DeletedObject{Key: id.Key})
	}
	f.mu.Unlock()
	return out, nil
}

func (f *fakeStore) DeleteBucket(ctx context.Context, in *s3.DeleteBucketInput, optFns ...func(*s3.Options)) (*s3.DeleteBucketOutput, error) {
	if err := f.record("DeleteBucket"); err != nil {
		return nil, err
	}
	return &s3.DeleteBucketOutput{}, nil
}

func (f *fakeStore) CreateMultipartUpload(ctx context.Context, in *s3.CreateMultipartUploadInput, optFns ...func(*s3.Options)) (*s3.CreateMultipartUploadOutput, error) {
	if err := f.record("CreateMultipartUpload"); err != nil {
		return nil, err
	}
	return &s3.CreateMultipartUploadOutput{UploadId: aws.String("fake-upload")}, nil
}

func (f *fakeStore) UploadPart(ctx context.Context, in *s3.UploadPartInput, optFns ...func(*s3.Options)) (*s3.UploadPartOutput, error) {
	if err := f.record("UploadPart"); err != nil {
		return nil, err
	}
	if in.Body != nil {
		if _, err := io.Copy(io.Discard, in.Body); err != nil {
			return nil, err
		}
	}
	return &s3.UploadPartOutput{ETag: aws.String(`"fake-part-etag"`)}, nil
}

func (f *fakeStore) CompleteMultipartUpload(ctx context.Context, in *s3.CompleteMultipartUploadInput, optFns ...func(*s3.Options)) (*s3.CompleteMultipartUploadOutput, error) {
	if err := f.record("CompleteMultipartUpload"); err != nil {
		return nil, err
	}
	return &s3.CompleteMultipartUploadOutput{
		Bucket: in.Bucket,
		Key:    in.Key,
	}, nil
}

func (f *fakeStore) AbortMultipartUpload(ctx context.Context, in *s3.AbortMultipartUploadInput, optFns ...func(*s3.Options)) (*s3.AbortMultipartUploadOutput, error) {
	if err := f.record("AbortMultipartUpload"); err != nil {
		return nil, err
	}
	return &s3.AbortMultipartUploadOutput{}, nil
}
