package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"
)

type objectAPI interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

type objectUploader interface {
	Upload(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*manager.Uploader)) (*manager.UploadOutput, error)
}

// S3ImageStore keeps profile images in an S3 (or compatible) bucket.
type S3ImageStore struct {
	client   objectAPI
	uploader objectUploader
	bucket   string
	prefix   string
}

func NewS3ImageStore(client *s3.Client, bucket, keyPrefix string) (*S3ImageStore, error) {
	return newS3ImageStore(client, manager.NewUploader(client), bucket, keyPrefix)
}

func newS3ImageStore(client objectAPI, uploader objectUploader, bucket, keyPrefix string) (*S3ImageStore, error) {
	if bucket == "" {
		return nil, fmt.Errorf("storage bucket is required")
	}
	return &S3ImageStore{
		client:   client,
		uploader: uploader,
		bucket:   bucket,
		prefix:   strings.Trim(keyPrefix, "/"),
	}, nil
}

func (s *S3ImageStore) Put(ctx context.Context, img Image) (string, error) {
	key := path.Join(s.prefix, "profile-images", uuid.NewString())
	_, err := s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(s.bucket),
		Key:          aws.String(key),
		Body:         bytes.NewReader(img.Data),
		ContentType:  aws.String(img.ContentType),
		CacheControl: aws.String("public, max-age=3600"),
		ACL:          types.ObjectCannedACLPrivate,
	})
	if err != nil {
		return "", fmt.Errorf("upload image %s: %w", key, err)
	}
	return key, nil
}

func (s *S3ImageStore) Get(ctx context.Context, key string) (Image, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return Image{}, ErrImageNotFound
		}
		return Image{}, fmt.Errorf("get image %s: %w", key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(io.LimitReader(out.Body, MaxImageBytes+1))
	if err != nil {
		return Image{}, fmt.Errorf("read image %s: %w", key, err)
	}
	img := Image{Data: data, ContentType: aws.ToString(out.ContentType)}
	if img.ContentType == "" {
		sniffed, err := SniffImage(data)
		if err != nil {
			return Image{}, err
		}
		img.ContentType = sniffed.ContentType
	}
	return img, nil
}

func (s *S3ImageStore) Delete(ctx context.Context, key string) error {
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("image key is required")
	}
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete image %s: %w", key, err)
	}
	return nil
}

var _ ImageStore = (*S3ImageStore)(nil)
