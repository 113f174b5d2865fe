package thumbnail

import (
	"context"

	"github.com/rs/zerolog"
)

// Result describes what one Generate call did.
type Result struct {
	// Skipped is set when the source was itself a generated thumbnail.
	Skipped bool
	Key     string
	URL     string
	Record  *Record
}

// Generator runs read -> transform -> write -> record for one source object.
// Any failing step aborts the run; nothing is retried and no partial state is
// cleaned up.
type Generator struct {
	objects     *ObjectStore
	transformer *Transformer
	recorder    *Recorder
	log         zerolog.Logger
}

func NewGenerator(objects *ObjectStore, transformer *Transformer, recorder *Recorder, log zerolog.Logger) *Generator {
	return &Generator{
		objects:     objects,
		transformer: transformer,
		recorder:    recorder,
		log:         log,
	}
}

// Generate builds the thumbnail for bucket/key. size is the source object's
// size as reported by the notification and only feeds the size estimate.
func (g *Generator) Generate(ctx context.Context, bucket, key string, size int64) (*Result, error) {
	log := g.log.With().Str("bucket", bucket).Str("key", key).Logger()

	if IsThumbnailKey(key) {
		log.Debug().Msg("key carries thumbnail suffix, skipping")
		return &Result{Skipped: true, Key: key}, nil
	}

	src, err := g.objects.Read(ctx, bucket, key)
	if err != nil {
		return nil, err
	}
	if src.Generated {
		log.Info().Msg("object carries thumbnail marker, skipping")
		return &Result{Skipped: true, Key: key}, nil
	}

	thumb, err := g.transformer.Thumbnail(src.Body)
	if err != nil {
		return nil, err
	}

	thumbKey := DeriveKey(key)
	url, err := g.objects.Write(ctx, bucket, thumbKey, thumb)
	if err != nil {
		return nil, err
	}
	log.Info().Str("thumbnail_key", thumbKey).Str("url", url).Int("bytes", len(thumb)).Msg("thumbnail uploaded")

	rec, err := g.recorder.Record(ctx, url, size)
	if err != nil {
		return nil, err
	}
	log.Info().Str("id", rec.ID).Str("table", g.recorder.store.Table()).Msg("thumbnail recorded")

	return &Result{Key: thumbKey, URL: url, Record: rec}, nil
}
