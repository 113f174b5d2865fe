// Package thumbnailtest provides in-memory S3 and DynamoDB fakes for tests.
package thumbnailtest

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"net/textproto"
	"sort"
	"sync"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
)

// Calls records the order of fake AWS calls across both services.
type Calls struct {
	mu    sync.Mutex
	names []string
}

func (c *Calls) add(name string) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.names = append(c.names, name)
}

func (c *Calls) Names() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.names...)
}

type StoredObject struct {
	Body        []byte
	ACL         string
	ContentType string
	Metadata    map[string]string
}

// S3 keeps objects per "bucket/key". Only the calls the service makes are
// implemented; anything else panics through the nil embedded interface.
type S3 struct {
	s3iface.S3API

	Calls   *Calls
	Objects map[string]*StoredObject
	GetErr  error
	PutErr  error
}

func NewS3(calls *Calls) *S3 {
	return &S3{Calls: calls, Objects: map[string]*StoredObject{}}
}

func (f *S3) GetObjectWithContext(_ aws.Context, in *s3.GetObjectInput, _ ...request.Option) (*s3.GetObjectOutput, error) {
	f.Calls.add("s3:GetObject")
	if f.GetErr != nil {
		return nil, f.GetErr
	}
	obj, ok := f.Objects[aws.StringValue(in.Bucket)+"/"+aws.StringValue(in.Key)]
	if !ok {
		return nil, fmt.Errorf("NoSuchKey: %s", aws.StringValue(in.Key))
	}

	// S3 returns user metadata with canonical header casing.
	metadata := map[string]*string{}
	for k, v := range obj.Metadata {
		metadata[textproto.CanonicalMIMEHeaderKey(k)] = aws.String(v)
	}
	return &s3.GetObjectOutput{
		Body:          io.NopCloser(bytes.NewReader(obj.Body)),
		ContentLength: aws.Int64(int64(len(obj.Body))),
		Metadata:      metadata,
	}, nil
}

func (f *S3) PutObjectWithContext(_ aws.Context, in *s3.PutObjectInput, _ ...request.Option) (*s3.PutObjectOutput, error) {
	f.Calls.add("s3:PutObject")
	if f.PutErr != nil {
		return nil, f.PutErr
	}
	body, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	metadata := map[string]string{}
	for k, v := range in.Metadata {
		metadata[k] = aws.StringValue(v)
	}
	f.Objects[aws.StringValue(in.Bucket)+"/"+aws.StringValue(in.Key)] = &StoredObject{
		Body:        body,
		ACL:         aws.StringValue(in.ACL),
		ContentType: aws.StringValue(in.ContentType),
		Metadata:    metadata,
	}
	return &s3.PutObjectOutput{}, nil
}

// DynamoDB is a single-table fake keyed by the "id" string attribute. Scan
// returns PageSize items per page, ordered by id.
type DynamoDB struct {
	dynamodbiface.DynamoDBAPI

	Calls     *Calls
	Items     map[string]map[string]*dynamodb.AttributeValue
	PageSize  int
	Scans     int
	PutErr    error
	ScanErr   error
	GetErr    error
	DeleteErr error
}

func NewDynamoDB(calls *Calls) *DynamoDB {
	return &DynamoDB{Calls: calls, Items: map[string]map[string]*dynamodb.AttributeValue{}}
}

func (f *DynamoDB) PutItemWithContext(_ aws.Context, in *dynamodb.PutItemInput, _ ...request.Option) (*dynamodb.PutItemOutput, error) {
	f.Calls.add("dynamodb:PutItem")
	if f.PutErr != nil {
		return nil, f.PutErr
	}
	f.Items[aws.StringValue(in.Item["id"].S)] = in.Item
	return &dynamodb.PutItemOutput{}, nil
}

func (f *DynamoDB) ScanWithContext(_ aws.Context, in *dynamodb.ScanInput, _ ...request.Option) (*dynamodb.ScanOutput, error) {
	f.Calls.add("dynamodb:Scan")
	f.Scans++
	if f.ScanErr != nil {
		return nil, f.ScanErr
	}

	ids := make([]string, 0, len(f.Items))
	for id := range f.Items {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	start := 0
	if in.ExclusiveStartKey != nil {
		last := aws.StringValue(in.ExclusiveStartKey["id"].S)
		start = sort.SearchStrings(ids, last) + 1
	}
	end := len(ids)
	if f.PageSize > 0 && start+f.PageSize < end {
		end = start + f.PageSize
	}

	out := &dynamodb.ScanOutput{Items: []map[string]*dynamodb.AttributeValue{}}
	for _, id := range ids[start:end] {
		out.Items = append(out.Items, f.Items[id])
	}
	if end < len(ids) {
		out.LastEvaluatedKey = map[string]*dynamodb.AttributeValue{"id": {S: aws.String(ids[end-1])}}
	}
	return out, nil
}

func (f *DynamoDB) GetItemWithContext(_ aws.Context, in *dynamodb.GetItemInput, _ ...request.Option) (*dynamodb.GetItemOutput, error) {
	f.Calls.add("dynamodb:GetItem")
	if f.GetErr != nil {
		return nil, f.GetErr
	}
	return &dynamodb.GetItemOutput{Item: f.Items[aws.StringValue(in.Key["id"].S)]}, nil
}

func (f *DynamoDB) DeleteItemWithContext(_ aws.Context, in *dynamodb.DeleteItemInput, _ ...request.Option) (*dynamodb.DeleteItemOutput, error) {
	f.Calls.add("dynamodb:DeleteItem")
	if f.DeleteErr != nil {
		return nil, f.DeleteErr
	}
	delete(f.Items, aws.StringValue(in.Key["id"].S))
	return &dynamodb.DeleteItemOutput{}, nil
}

// PNG returns a w x h PNG filled with a single colour.
func PNG(w, h int) []byte {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 100, B: 50, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		panic(err)
	}
	return buf.Bytes()
}
