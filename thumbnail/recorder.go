package thumbnail

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Recorder writes one Record per uploaded thumbnail. Every call mints a new
// id, so invoking it twice for the same source yields two rows.
type Recorder struct {
	store *RecordStore
	now   func() time.Time
	newID func() string
}

func NewRecorder(store *RecordStore) *Recorder {
	return &Recorder{
		store: store,
		now:   time.Now,
		newID: func() string { return uuid.New().String() },
	}
}

func (r *Recorder) Record(ctx context.Context, url string, originalSize int64) (*Record, error) {
	rec := newRecord(r.newID(), url, originalSize, r.now())
	if err := r.store.Put(ctx, rec); err != nil {
		return nil, err
	}
	return &rec, nil
}
