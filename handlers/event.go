package handlers

import (
	"context"
	"encoding/json"
	"net/url"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/rs/zerolog"

	"github.com/sakarghimire/thumbnail-service/thumbnail"
)

// EventResponse is what the S3-triggered function returns to the runtime.
type EventResponse struct {
	StatusCode int    `json:"statusCode"`
	Body       string `json:"body"`
	URL        string `json:"url,omitempty"`
}

// EventHandler turns object-created notifications into thumbnails.
type EventHandler struct {
	generator *thumbnail.Generator
	log       zerolog.Logger
}

func NewEventHandler(generator *thumbnail.Generator, log zerolog.Logger) *EventHandler {
	return &EventHandler{generator: generator, log: log}
}

// Handle processes the first record of the notification only; further
// records in the same batch are ignored.
func (h *EventHandler) Handle(ctx context.Context, event events.S3Event) (EventResponse, error) {
	log := withRequestID(ctx, h.log)

	if len(event.Records) == 0 {
		return EventResponse{}, thumbnail.InvalidEvent("s3 notification has no records")
	}
	if len(event.Records) > 1 {
		log.Warn().Int("records", len(event.Records)).Msg("only the first record is processed")
	}

	record := event.Records[0]
	bucket := record.S3.Bucket.Name
	key, err := objectKey(record.S3.Object)
	if err != nil {
		return EventResponse{}, err
	}
	log.Info().Str("bucket", bucket).Str("key", key).Int64("size", record.S3.Object.Size).Msg("object created")

	res, err := h.generator.Generate(ctx, bucket, key, record.S3.Object.Size)
	if err != nil {
		log.Error().Err(err).Str("kind", thumbnail.KindOf(err).String()).Str("key", key).Msg("thumbnail generation failed")
		return EventResponse{}, err
	}

	if res.Skipped {
		return echoResponse(event)
	}
	return EventResponse{StatusCode: 200, Body: res.URL, URL: res.URL}, nil
}

func echoResponse(event events.S3Event) (EventResponse, error) {
	body, err := json.Marshal(map[string]interface{}{
		"message": "Hello!",
		"input":   event,
	})
	if err != nil {
		return EventResponse{}, err
	}
	return EventResponse{StatusCode: 200, Body: string(body)}, nil
}

// Keys arrive form-encoded in notifications ("my+photo.jpg").
func objectKey(obj events.S3Object) (string, error) {
	if obj.URLDecodedKey != "" {
		return obj.URLDecodedKey, nil
	}
	key, err := url.QueryUnescape(obj.Key)
	if err != nil {
		return "", thumbnail.InvalidEvent("malformed object key " + obj.Key)
	}
	return key, nil
}

func withRequestID(ctx context.Context, log zerolog.Logger) zerolog.Logger {
	if lc, ok := lambdacontext.FromContext(ctx); ok {
		return log.With().Str("request_id", lc.AwsRequestID).Logger()
	}
	return log
}
