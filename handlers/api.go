package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/rs/zerolog"

	"github.com/sakarghimire/thumbnail-service/thumbnail"
)

var (
	jsonHeaders = map[string]string{
		"Content-Type": "application/json",
	}
	corsHeaders = map[string]string{
		"Content-Type":                "application/json",
		"Access-Control-Allow-Origin": "*",
	}
)

type deleteResponse struct {
	Deleted       bool   `json:"deleted"`
	ItemDeletedID string `json:"itemDeletedId"`
}

// APIHandler serves the thumbnail record endpoints behind API Gateway.
type APIHandler struct {
	records *thumbnail.RecordStore
	log     zerolog.Logger
}

func NewAPIHandler(records *thumbnail.RecordStore, log zerolog.Logger) *APIHandler {
	return &APIHandler{records: records, log: log}
}

// Route dispatches on method and the presence of the {id} path parameter.
func (h *APIHandler) Route(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	_, hasID := request.PathParameters["id"]

	switch {
	case request.HTTPMethod == http.MethodGet && !hasID:
		return h.List(ctx, request)
	case request.HTTPMethod == http.MethodGet:
		return h.Get(ctx, request)
	case request.HTTPMethod == http.MethodDelete && hasID:
		return h.Delete(ctx, request)
	default:
		return events.APIGatewayProxyResponse{
			StatusCode: http.StatusMethodNotAllowed,
			Headers:    jsonHeaders,
			Body:       `{"error": "Method not allowed"}`,
		}, nil
	}
}

// List returns every record in the table.
func (h *APIHandler) List(ctx context.Context, _ events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	records, err := h.records.List(ctx)
	if err != nil {
		log := withRequestID(ctx, h.log)
		log.Error().Err(err).Msg("list thumbnails failed")
		return events.APIGatewayProxyResponse{StatusCode: http.StatusInternalServerError}, err
	}

	body, err := json.Marshal(records)
	if err != nil {
		return events.APIGatewayProxyResponse{StatusCode: http.StatusInternalServerError}, err
	}

	return events.APIGatewayProxyResponse{
		StatusCode: http.StatusOK,
		Headers:    jsonHeaders,
		Body:       string(body),
	}, nil
}

func (h *APIHandler) Get(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	id := request.PathParameters["id"]
	if id == "" {
		return errorResponse(http.StatusBadRequest, "Invalid thumbnail ID"), nil
	}

	rec, err := h.records.Get(ctx, id)
	switch {
	case thumbnail.IsKind(err, thumbnail.KindNotFound):
		return errorResponse(http.StatusNotFound, fmt.Sprintf("Thumbnail %s not found", id)), nil
	case err != nil:
		log := withRequestID(ctx, h.log)
		log.Error().Err(err).Str("id", id).Msg("get thumbnail failed")
		return events.APIGatewayProxyResponse{StatusCode: http.StatusInternalServerError}, err
	}

	body, err := json.Marshal(rec)
	if err != nil {
		return events.APIGatewayProxyResponse{StatusCode: http.StatusInternalServerError}, err
	}

	return events.APIGatewayProxyResponse{
		StatusCode:      http.StatusOK,
		Headers:         corsHeaders,
		Body:            string(body),
		IsBase64Encoded: false,
	}, nil
}

// Delete reports success for ids that never existed; the table does not tell
// the two cases apart.
func (h *APIHandler) Delete(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	id := request.PathParameters["id"]
	if id == "" {
		return errorResponse(http.StatusBadRequest, "Invalid thumbnail ID"), nil
	}
	failed := events.APIGatewayProxyResponse{
		StatusCode: http.StatusInternalServerError,
		Body:       fmt.Sprintf("An error occured while deleting post %s", id),
	}

	if err := h.records.Delete(ctx, id); err != nil {
		log := withRequestID(ctx, h.log)
		log.Error().Err(err).Str("id", id).Msg("delete thumbnail failed")
		return failed, nil
	}

	body, err := json.Marshal(deleteResponse{Deleted: true, ItemDeletedID: id})
	if err != nil {
		return failed, nil
	}

	return events.APIGatewayProxyResponse{
		StatusCode: http.StatusOK,
		Headers:    corsHeaders,
		Body:       string(body),
	}, nil
}

func errorResponse(status int, msg string) events.APIGatewayProxyResponse {
	body, _ := json.Marshal(map[string]string{"error": msg})
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers:    corsHeaders,
		Body:       string(body),
	}
}
