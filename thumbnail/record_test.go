package thumbnail

import (
	"testing"
	"time"
)

func TestApproxReducedSize(t *testing.T) {
	t.Parallel()

	cases := map[int64]string{
		10000:   "5.3 KB",
		1000:    "0.53 KB",
		1000000: "530.0 KB",
		2048:    "1.08544 KB",
		0:       "0.0 KB",
	}
	for size, want := range cases {
		if got := ApproxReducedSize(size); got != want {
			t.Errorf("ApproxReducedSize(%d) = %q, want %q", size, got, want)
		}
	}
}

func TestNewRecordStampsBothTimestamps(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 3, 9, 14, 5, 7, 123456000, time.UTC)
	rec := newRecord("id-1", "https://s3.amazonaws.com/b/k_thumbnail.png", 10000, now)

	if rec.CreatedAt != "2024-03-09 14:05:07.123456" {
		t.Fatalf("unexpected createdAt: %q", rec.CreatedAt)
	}
	if rec.UpdatedAt != rec.CreatedAt {
		t.Fatalf("expected updatedAt %q to equal createdAt %q", rec.UpdatedAt, rec.CreatedAt)
	}
	if rec.ApproxReducedSize != "5.3 KB" {
		t.Fatalf("unexpected size estimate: %q", rec.ApproxReducedSize)
	}
}
