package handlers

import (
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/s3"

	"github.com/sakarghimire/thumbnail-service/config"
	"github.com/sakarghimire/thumbnail-service/logger"
	"github.com/sakarghimire/thumbnail-service/thumbnail"
)

func newSession(cfg *config.Config) (*session.Session, error) {
	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(cfg.Region),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}
	return sess, nil
}

// newS3Client honours S3_ENDPOINT with path-style addressing, which
// LocalStack and most S3-compatible stores need.
func newS3Client(cfg *config.Config, sess *session.Session) *s3.S3 {
	s3Config := &aws.Config{}
	if cfg.S3Endpoint != "" {
		s3Config.Endpoint = aws.String(cfg.S3Endpoint)
		s3Config.S3ForcePathStyle = aws.Bool(true)
	}
	return s3.New(sess, s3Config)
}

func newObjectStore(cfg *config.Config, sess *session.Session) *thumbnail.ObjectStore {
	client := newS3Client(cfg, sess)
	return thumbnail.NewObjectStore(client, client.Endpoint)
}

func newRecordStore(cfg *config.Config, sess *session.Session) *thumbnail.RecordStore {
	return thumbnail.NewRecordStore(dynamodb.New(sess), cfg.TableName)
}

// NewEventHandlerFromConfig builds the S3-triggered handler and its AWS
// clients. Call it once per process.
func NewEventHandlerFromConfig(cfg *config.Config) (*EventHandler, error) {
	sess, err := newSession(cfg)
	if err != nil {
		return nil, err
	}

	log := logger.Log.With().Str("function", "thumbnail-generation").Logger()
	generator := thumbnail.NewGenerator(
		newObjectStore(cfg, sess),
		thumbnail.NewTransformer(cfg.ThumbnailSize),
		thumbnail.NewRecorder(newRecordStore(cfg, sess)),
		log,
	)
	return NewEventHandler(generator, log), nil
}

// NewAPIHandlerFromConfig builds the record API handler. Call it once per
// process.
func NewAPIHandlerFromConfig(cfg *config.Config) (*APIHandler, error) {
	sess, err := newSession(cfg)
	if err != nil {
		return nil, err
	}

	log := logger.Log.With().Str("function", "thumbnail-api").Logger()
	return NewAPIHandler(newRecordStore(cfg, sess), log), nil
}
