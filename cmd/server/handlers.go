package main

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/baditaflorin/go_text_preprocessing/pkg/preprocess"
	"github.com/baditaflorin/l"
	"github.com/valyala/fasthttp"
)

// DefaultTop is the number of lemmas /frequencies returns when top is unset.
const DefaultTop = 30

// requestTimeout bounds one batch.
const requestTimeout = 60 * time.Second

// NormalizeRequest is the body of /normalize. Entries may be strings or null.
type NormalizeRequest struct {
	Texts []interface{} `json:"texts"`
}

// NormalizeResponse carries one normalized string per input text.
type NormalizeResponse struct {
	Results        []string `json:"results"`
	Count          int      `json:"count"`
	ProcessingTime string   `json:"processing_time"`
}

// FrequencyRequest is the body of /frequencies.
type FrequencyRequest struct {
	Texts []interface{} `json:"texts"`
	// Top is how many lemmas to return. Omitted means DefaultTop, 0 returns
	// none and a negative value returns all of them.
	Top   *int          `json:"top,omitempty"`
}

// FrequencyResponse lists the most common lemmas.
type FrequencyResponse struct {
	Tokens         []preprocess.Entry `json:"tokens"`
	ProcessingTime string             `json:"processing_time"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
	Index *int   `json:"index,omitempty"`
}

type server struct {
	pp     *preprocess.Preprocessor
	logger l.Logger
}

func newServer(pp *preprocess.Preprocessor, logger l.Logger) *server {
	return &server{pp: pp, logger: logger}
}

// requestHandler is the main fasthttp request handler
func (s *server) requestHandler(ctx *fasthttp.RequestCtx) {
	startTime := time.Now()

	ctx.Response.Header.Set("Content-Type", "application/json")
	ctx.Response.Header.Set("Server", "TextPreprocessingServer")

	switch string(ctx.Path()) {
	case "/health":
		s.handleHealthCheck(ctx)
	case "/normalize":
		s.handleNormalize(ctx)
	case "/frequencies":
		s.handleFrequencies(ctx)
	default:
		ctx.SetStatusCode(fasthttp.StatusNotFound)
		s.writeJSONError(ctx, errors.New("Not found"))
	}

	s.logger.Info("Request processed",
		"method", string(ctx.Method()),
		"path", string(ctx.Path()),
		"status", ctx.Response.StatusCode(),
		"ip", ctx.RemoteIP().String(),
		"duration", time.Since(startTime),
	)
}

// handleHealthCheck responds to health check requests
func (s *server) handleHealthCheck(ctx *fasthttp.RequestCtx) {
	ctx.SetStatusCode(fasthttp.StatusOK)
	s.writeJSONResponse(ctx, map[string]interface{}{
		"status": "ok",
		"time":   time.Now().Format(time.RFC3339),
	})
}

// handleNormalize normalizes a batch of texts
func (s *server) handleNormalize(ctx *fasthttp.RequestCtx) {
	if !ctx.IsPost() {
		ctx.SetStatusCode(fasthttp.StatusMethodNotAllowed)
		s.writeJSONError(ctx, errors.New("Method not allowed"))
		return
	}

	var req NormalizeRequest
	if !s.decode(ctx, &req) {
		return
	}

	start := time.Now()
	c, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	results, err := s.pp.NormalizeValues(c, req.Texts)
	if err != nil {
		s.writeProcessingError(ctx, err)
		return
	}

	ctx.SetStatusCode(fasthttp.StatusOK)
	s.writeJSONResponse(ctx, NormalizeResponse{
		Results:        results,
		Count:          len(results),
		ProcessingTime: time.Since(start).String(),
	})
}

// handleFrequencies returns the most common lemmas of a batch
func (s *server) handleFrequencies(ctx *fasthttp.RequestCtx) {
	if !ctx.IsPost() {
		ctx.SetStatusCode(fasthttp.StatusMethodNotAllowed)
		s.writeJSONError(ctx, errors.New("Method not allowed"))
		return
	}

	var req FrequencyRequest
	if !s.decode(ctx, &req) {
		return
	}
	top := DefaultTop
	if req.Top != nil {
		top = *req.Top
	}

	start := time.Now()
	c, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	results, err := s.pp.NormalizeValues(c, req.Texts)
	if err != nil {
		s.writeProcessingError(ctx, err)
		return
	}
	tokens := preprocess.MostCommon(results, top)

	ctx.SetStatusCode(fasthttp.StatusOK)
	s.writeJSONResponse(ctx, FrequencyResponse{
		Tokens:         tokens,
		ProcessingTime: time.Since(start).String(),
	})
}

// decode parses the JSON body and requires a texts field.
func (s *server) decode(ctx *fasthttp.RequestCtx, v interface{}) bool {
	if err := json.Unmarshal(ctx.PostBody(), v); err != nil {
		ctx.SetStatusCode(fasthttp.StatusBadRequest)
		s.writeJSONError(ctx, errors.New("Invalid request: "+err.Error()))
		return false
	}

	var texts []interface{}
	switch req := v.(type) {
	case *NormalizeRequest:
		texts = req.Texts
	case *FrequencyRequest:
		texts = req.Texts
	}
	if texts == nil {
		ctx.SetStatusCode(fasthttp.StatusBadRequest)
		s.writeJSONError(ctx, errors.New("texts is required"))
		return false
	}
	return true
}

// writeProcessingError maps pipeline errors to status codes
func (s *server) writeProcessingError(ctx *fasthttp.RequestCtx, err error) {
	switch {
	case errors.Is(err, preprocess.ErrInvalidInput):
		ctx.SetStatusCode(fasthttp.StatusBadRequest)
	case errors.Is(err, preprocess.ErrResourceUnavailable):
		ctx.SetStatusCode(fasthttp.StatusServiceUnavailable)
	case errors.Is(err, context.DeadlineExceeded):
		ctx.SetStatusCode(fasthttp.StatusGatewayTimeout)
	default:
		ctx.SetStatusCode(fasthttp.StatusInternalServerError)
	}
	s.logger.Warn("Batch rejected", "error", err, "status", ctx.Response.StatusCode())
	s.writeJSONError(ctx, err)
}

// writeJSONResponse writes a JSON response to the context
func (s *server) writeJSONResponse(ctx *fasthttp.RequestCtx, data interface{}) {
	response, err := json.Marshal(data)
	if err != nil {
		ctx.SetStatusCode(fasthttp.StatusInternalServerError)
		s.logger.Error("Error marshaling JSON response", "error", err)
		ctx.SetBodyString(`{"error":"Internal server error"}`)
		return
	}
	ctx.SetBody(response)
}

// writeJSONError writes a JSON error response, including the failing
// record index when there is one.
func (s *server) writeJSONError(ctx *fasthttp.RequestCtx, err error) {
	errResponse := ErrorResponse{Error: err.Error()}
	var recErr *preprocess.RecordError
	if errors.As(err, &recErr) {
		idx := recErr.Index
		errResponse.Index = &idx
	}
	s.writeJSONResponse(ctx, errResponse)
}
