package source

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/Nike1016/selfoss/internal/domain/entity"
	"github.com/Nike1016/selfoss/internal/domain/spout"
)

// DTO is the JSON form of a source.
type DTO struct {
	ID     int64         `json:"id"`
	Title  string        `json:"title"`
	Spout  string        `json:"spout"`
	Params entity.Params `json:"params" swaggertype:"object"`
	// Error is the last fetch error; empty when the source is healthy.
	Error string `json:"error"`
	// SpoutInfo is null when the spout is no longer registered.
	SpoutInfo *spout.Descriptor `json:"spout_info"`
}

func toDTO(v *entity.SourceView) DTO {
	return DTO{
		ID:        v.ID,
		Title:     v.Title,
		Spout:     v.Spout,
		Params:    v.Params,
		Error:     v.Error,
		SpoutInfo: v.Descriptor,
	}
}

// WriteRequest is the body of POST /sources and PUT /sources/{id}.
// Param values may be any JSON value; they are stored as sent, in key order.
type WriteRequest struct {
	Title  string        `json:"title"`
	Spout  string        `json:"spout"`
	Params entity.Params `json:"params" swaggertype:"object"`
}

type CreatedResponse struct {
	ID int64 `json:"id"`
}

type ErrorRequest struct {
	Error string `json:"error"`
}

func decodeWriteRequest(body io.Reader) (title, spoutName string, params entity.Params, err error) {
	var req WriteRequest
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		return "", "", nil, fmt.Errorf("invalid request body: %w", err)
	}
	return req.Title, req.Spout, req.Params, nil
}
