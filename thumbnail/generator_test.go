package thumbnail

import (
	"bytes"
	"context"
	"errors"
	"image"
	"reflect"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/sakarghimire/thumbnail-service/thumbnail/thumbnailtest"
)

const testEndpoint = "https://s3.us-east-1.amazonaws.com"

type generatorFixture struct {
	calls *thumbnailtest.Calls
	s3    *thumbnailtest.S3
	db    *thumbnailtest.DynamoDB
	gen   *Generator
}

func newGeneratorFixture(size int) *generatorFixture {
	calls := &thumbnailtest.Calls{}
	s3 := thumbnailtest.NewS3(calls)
	db := thumbnailtest.NewDynamoDB(calls)

	recorder := NewRecorder(NewRecordStore(db, "thumbnails"))
	recorder.now = func() time.Time { return time.Date(2024, 5, 1, 8, 30, 0, 0, time.UTC) }
	recorder.newID = func() string { return "fixed-id" }

	gen := NewGenerator(NewObjectStore(s3, testEndpoint+"/"), NewTransformer(size), recorder, zerolog.Nop())
	return &generatorFixture{calls: calls, s3: s3, db: db, gen: gen}
}

func TestGenerateRunsPipelineInOrder(t *testing.T) {
	f := newGeneratorFixture(48)
	f.s3.Objects["uploads/photo.jpg"] = &thumbnailtest.StoredObject{Body: thumbnailtest.PNG(120, 80)}

	res, err := f.gen.Generate(context.Background(), "uploads", "photo.jpg", 10000)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	want := []string{"s3:GetObject", "s3:PutObject", "dynamodb:PutItem"}
	if got := f.calls.Names(); !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected call order: %v", got)
	}

	wantURL := testEndpoint + "/uploads/photo_thumbnail.png"
	if res.Skipped || res.URL != wantURL || res.Key != "photo_thumbnail.png" {
		t.Fatalf("unexpected result: %+v", res)
	}

	thumb, ok := f.s3.Objects["uploads/photo_thumbnail.png"]
	if !ok {
		t.Fatal("thumbnail was not uploaded")
	}
	if thumb.ACL != "public-read" || thumb.ContentType != "image/png" {
		t.Fatalf("unexpected upload attributes: acl=%q content-type=%q", thumb.ACL, thumb.ContentType)
	}
	if thumb.Metadata[MarkerMetadataKey] != MarkerMetadataValue {
		t.Fatalf("expected thumbnail marker metadata, got %v", thumb.Metadata)
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(thumb.Body))
	if err != nil || format != "png" || cfg.Width != 48 || cfg.Height != 48 {
		t.Fatalf("unexpected thumbnail: %dx%d %s err=%v", cfg.Width, cfg.Height, format, err)
	}

	if res.Record == nil {
		t.Fatal("expected record in result")
	}
	wantRec := Record{
		ID:                "fixed-id",
		URL:               wantURL,
		ApproxReducedSize: "5.3 KB",
		CreatedAt:         "2024-05-01 08:30:00.000000",
		UpdatedAt:         "2024-05-01 08:30:00.000000",
	}
	if *res.Record != wantRec {
		t.Fatalf("unexpected record: %+v", *res.Record)
	}
	if _, ok := f.db.Items["fixed-id"]; !ok {
		t.Fatal("record was not stored")
	}
}

func TestGenerateSkipsThumbnailKey(t *testing.T) {
	f := newGeneratorFixture(48)

	res, err := f.gen.Generate(context.Background(), "uploads", "photo_thumbnail.png", 999)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if !res.Skipped {
		t.Fatalf("expected skip, got %+v", res)
	}
	if calls := f.calls.Names(); len(calls) != 0 {
		t.Fatalf("expected no downstream calls, got %v", calls)
	}
}

func TestGenerateSkipsMarkedObject(t *testing.T) {
	f := newGeneratorFixture(48)
	f.s3.Objects["uploads/renamed.png"] = &thumbnailtest.StoredObject{
		Body:     thumbnailtest.PNG(48, 48),
		Metadata: map[string]string{MarkerMetadataKey: MarkerMetadataValue},
	}

	res, err := f.gen.Generate(context.Background(), "uploads", "renamed.png", 500)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if !res.Skipped {
		t.Fatalf("expected skip for marked object, got %+v", res)
	}
	if got := f.calls.Names(); !reflect.DeepEqual(got, []string{"s3:GetObject"}) {
		t.Fatalf("expected only the read, got %v", got)
	}
}

func TestGenerateDuplicateInvocationsCreateTwoRecords(t *testing.T) {
	f := newGeneratorFixture(16)
	f.gen.recorder.newID = NewRecorder(nil).newID
	f.s3.Objects["b/a.png"] = &thumbnailtest.StoredObject{Body: thumbnailtest.PNG(20, 20)}

	for i := 0; i < 2; i++ {
		if _, err := f.gen.Generate(context.Background(), "b", "a.png", 100); err != nil {
			t.Fatalf("Generate #%d failed: %v", i, err)
		}
	}
	if len(f.db.Items) != 2 {
		t.Fatalf("expected two records for two invocations, got %d", len(f.db.Items))
	}
}

func TestGenerateFailures(t *testing.T) {
	t.Run("read", func(t *testing.T) {
		f := newGeneratorFixture(16)
		f.s3.GetErr = errors.New("access denied")

		_, err := f.gen.Generate(context.Background(), "b", "a.jpg", 1)
		if !IsKind(err, KindObjectStore) {
			t.Fatalf("expected object store error, got %v", err)
		}
		if got := f.calls.Names(); !reflect.DeepEqual(got, []string{"s3:GetObject"}) {
			t.Fatalf("unexpected calls: %v", got)
		}
	})

	t.Run("decode", func(t *testing.T) {
		f := newGeneratorFixture(16)
		f.s3.Objects["b/a.jpg"] = &thumbnailtest.StoredObject{Body: []byte("garbage")}

		_, err := f.gen.Generate(context.Background(), "b", "a.jpg", 1)
		if !IsKind(err, KindDecode) {
			t.Fatalf("expected decode error, got %v", err)
		}
		if got := f.calls.Names(); !reflect.DeepEqual(got, []string{"s3:GetObject"}) {
			t.Fatalf("unexpected calls: %v", got)
		}
	})

	t.Run("write", func(t *testing.T) {
		f := newGeneratorFixture(16)
		f.s3.Objects["b/a.jpg"] = &thumbnailtest.StoredObject{Body: thumbnailtest.PNG(20, 20)}
		f.s3.PutErr = errors.New("slow down")

		_, err := f.gen.Generate(context.Background(), "b", "a.jpg", 1)
		if !IsKind(err, KindObjectStore) {
			t.Fatalf("expected object store error, got %v", err)
		}
		if len(f.db.Items) != 0 {
			t.Fatal("no record may be written when the upload fails")
		}
	})

	t.Run("record", func(t *testing.T) {
		f := newGeneratorFixture(16)
		f.s3.Objects["b/a.jpg"] = &thumbnailtest.StoredObject{Body: thumbnailtest.PNG(20, 20)}
		f.db.PutErr = errors.New("provisioned throughput exceeded")

		_, err := f.gen.Generate(context.Background(), "b", "a.jpg", 1)
		if !IsKind(err, KindRecordStore) {
			t.Fatalf("expected record store error, got %v", err)
		}
	})
}
