package thumbnail

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
)

const (
	// MarkerMetadataKey is stored as x-amz-meta-generated-by on every
	// thumbnail so a re-triggered upload can be recognised without relying
	// on its name.
	MarkerMetadataKey   = "generated-by"
	MarkerMetadataValue = "thumbnail-generator"
)

type Object struct {
	Bucket string
	Key    string
	Body   []byte

	// Generated is true when the object carries the thumbnail marker.
	Generated bool
}

// ObjectStore reads source images and writes public thumbnails.
type ObjectStore struct {
	client   s3iface.S3API
	endpoint string
}

// NewObjectStore wraps an S3 client. endpoint is the base of the public URLs
// handed out for written objects, e.g. https://s3.us-east-1.amazonaws.com.
func NewObjectStore(client s3iface.S3API, endpoint string) *ObjectStore {
	return &ObjectStore{client: client, endpoint: strings.TrimRight(endpoint, "/")}
}

func (s *ObjectStore) Read(ctx context.Context, bucket, key string) (*Object, error) {
	resp, err := s.client.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, newError(KindObjectStore, fmt.Sprintf("get s3://%s/%s", bucket, key), err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, newError(KindObjectStore, fmt.Sprintf("read s3://%s/%s", bucket, key), err)
	}

	return &Object{
		Bucket:    bucket,
		Key:       key,
		Body:      body,
		Generated: hasMarker(resp.Metadata),
	}, nil
}

// Write uploads a PNG thumbnail with public-read ACL and returns its URL.
func (s *ObjectStore) Write(ctx context.Context, bucket, key string, body []byte) (string, error) {
	_, err := s.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		ACL:         aws.String(s3.ObjectCannedACLPublicRead),
		Body:        bytes.NewReader(body),
		Bucket:      aws.String(bucket),
		ContentType: aws.String(ContentType),
		Key:         aws.String(key),
		Metadata: map[string]*string{
			MarkerMetadataKey: aws.String(MarkerMetadataValue),
		},
	})
	if err != nil {
		return "", newError(KindObjectStore, fmt.Sprintf("put s3://%s/%s", bucket, key), err)
	}
	return s.URL(bucket, key), nil
}

// URL returns the public URL of bucket/key. Each path segment is escaped so
// keys containing spaces, '#' or '?' still address the object.
func (s *ObjectStore) URL(bucket, key string) string {
	segments := strings.Split(key, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return fmt.Sprintf("%s/%s/%s", s.endpoint, url.PathEscape(bucket), strings.Join(segments, "/"))
}

// S3 hands metadata keys back canonicalised ("Generated-By").
func hasMarker(metadata map[string]*string) bool {
	for k, v := range metadata {
		if strings.EqualFold(k, MarkerMetadataKey) && aws.StringValue(v) == MarkerMetadataValue {
			return true
		}
	}
	return false
}
