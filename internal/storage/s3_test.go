package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type storedObject struct {
	data        []byte
	contentType string
}

type fakeBucket struct {
	objects   map[string]storedObject
	uploadErr error
}

func newFakeBucket() *fakeBucket {
	return &fakeBucket{objects: map[string]storedObject{}}
}

func (f *fakeBucket) Upload(_ context.Context, in *s3.PutObjectInput, _ ...func(*manager.Uploader)) (*manager.UploadOutput, error) {
	if f.uploadErr != nil {
		return nil, f.uploadErr
	}
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[aws.ToString(in.Key)] = storedObject{data: data, contentType: aws.ToString(in.ContentType)}
	return &manager.UploadOutput{Key: in.Key}, nil
}

func (f *fakeBucket) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	obj, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	out := &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(obj.data))}
	if obj.contentType != "" {
		out.ContentType = aws.String(obj.contentType)
	}
	return out, nil
}

func (f *fakeBucket) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	delete(f.objects, aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func TestS3ImageStore_RequiresBucket(t *testing.T) {
	_, err := newS3ImageStore(newFakeBucket(), newFakeBucket(), "", "x")
	assert.Error(t, err)
}

func TestS3ImageStore_PutGetDelete(t *testing.T) {
	ctx := context.Background()
	bucket := newFakeBucket()
	store, err := newS3ImageStore(bucket, bucket, "media", "/kay/")
	require.NoError(t, err)

	key, err := store.Put(ctx, Image{Data: pngBytes, ContentType: "image/png"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(key, "kay/profile-images/"), key)

	img, err := store.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, pngBytes, img.Data)
	assert.Equal(t, "image/png", img.ContentType)

	require.NoError(t, store.Delete(ctx, key))
	_, err = store.Get(ctx, key)
	assert.ErrorIs(t, err, ErrImageNotFound)

	assert.Error(t, store.Delete(ctx, " "))
}

func TestS3ImageStore_GetSniffsMissingContentType(t *testing.T) {
	bucket := newFakeBucket()
	bucket.objects["k"] = storedObject{data: gifBytes}
	store, err := newS3ImageStore(bucket, bucket, "media", "")
	require.NoError(t, err)

	img, err := store.Get(context.Background(), "k")
	require.NoError(t, err)
	assert.Equal(t, "image/gif", img.ContentType)
}

func TestS3ImageStore_UploadError(t *testing.T) {
	bucket := newFakeBucket()
	bucket.uploadErr = errors.New("network down")
	store, err := newS3ImageStore(bucket, bucket, "media", "")
	require.NoError(t, err)

	_, err = store.Put(context.Background(), Image{Data: pngBytes, ContentType: "image/png"})
	assert.ErrorContains(t, err, "network down")
}
