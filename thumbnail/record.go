package thumbnail

import (
	"strconv"
	"strings"
	"time"
)

// reductionRatio is a rough PNG-versus-source ratio; the estimate is never
// measured from the real output.
const reductionRatio = 0.53

const TimestampLayout = "2006-01-02 15:04:05.000000"

// Record is one row of the thumbnails table. Rows are written once and never
// updated, so UpdatedAt always equals CreatedAt.
type Record struct {
	ID                string `json:"id" dynamodbav:"id"`
	URL               string `json:"url" dynamodbav:"url"`
	ApproxReducedSize string `json:"approx_reduced_size" dynamodbav:"approx_reduced_size"`
	CreatedAt         string `json:"createdAt" dynamodbav:"createdAt"`
	UpdatedAt         string `json:"updatedAt" dynamodbav:"updatedAt"`
}

// ApproxReducedSize formats the estimated thumbnail size in kilobytes, e.g.
// 10000 bytes -> "5.3 KB" and 1000000 bytes -> "530.0 KB".
func ApproxReducedSize(originalSize int64) string {
	kb := float64(originalSize) * reductionRatio / 1000
	s := strconv.FormatFloat(kb, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s + " KB"
}

func newRecord(id, url string, originalSize int64, now time.Time) Record {
	stamp := now.Format(TimestampLayout)
	return Record{
		ID:                id,
		URL:               url,
		ApproxReducedSize: ApproxReducedSize(originalSize),
		CreatedAt:         stamp,
		UpdatedAt:         stamp,
	}
}
