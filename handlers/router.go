package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/maldun/UltraMekCore/messages"
	"github.com/maldun/UltraMekCore/metrics"
	"github.com/maldun/UltraMekCore/models"
	"github.com/maldun/UltraMekCore/parsers"
	"github.com/maldun/UltraMekCore/services"
)

var (
	errBadRequest         = errors.New("bad request")
	errUnknownMessageType = errors.New("unknown message type")
)

// Router maps request types onto the parsing services. It has no
// dependency on the transport and serves both websocket and HTTP callers.
type Router struct {
	Units   *services.UnitService
	Forces  *services.ForceService
	Boards  *services.BoardService
	Metrics *metrics.Metrics
}

// Route runs the request of type msgType with the given payload
func (r *Router) Route(msgType messages.MessageType, payload gjson.Result) (interface{}, error) {
	switch msgType {
	case messages.MessageTypeParse:
		var req messages.ParseRequest
		if err := decodePayload(payload, &req); err != nil {
			return nil, err
		}
		return r.Parse(models.Format(strings.ToLower(req.Format)), req.Text)

	case messages.MessageTypeBoard:
		var req messages.BoardRequest
		if err := decodePayload(payload, &req); err != nil {
			return nil, err
		}
		if req.Filename == "" {
			return nil, fmt.Errorf("%w: filename is required", errBadRequest)
		}
		return r.Boards.Layers(req.Filename)

	case messages.MessageTypeUnit:
		var req messages.UnitRequest
		if err := decodePayload(payload, &req); err != nil {
			return nil, err
		}
		if req.Chassis == "" {
			return nil, fmt.Errorf("%w: chassis is required", errBadRequest)
		}
		return r.Units.GetUnit(unitEntity(req))

	case messages.MessageTypeForces:
		var req messages.ForcesRequest
		if err := decodePayload(payload, &req); err != nil {
			return nil, err
		}
		return r.Forces.ProcessForces(req.Text)
	}

	return nil, fmt.Errorf("%w: %q", errUnknownMessageType, msgType)
}

// Parse runs one pipeline and records its duration
func (r *Router) Parse(format models.Format, text string) (*models.Record, error) {
	start := time.Now()
	rec, err := parsers.Parse(format, text)
	r.Metrics.ObserveParse(format, time.Since(start), err)
	return rec, err
}

func decodePayload(payload gjson.Result, v interface{}) error {
	if !payload.IsObject() {
		return fmt.Errorf("%w: payload must be an object", errBadRequest)
	}
	if err := json.Unmarshal([]byte(payload.Raw), v); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}

func unitEntity(req messages.UnitRequest) *models.Entity {
	attrs := models.NewRecord(models.FormatMUL)
	attrs.Set("chassis", req.Chassis)
	attrs.Set("model", req.Model)
	attrs.Set("type", req.Type)
	return &models.Entity{Attributes: attrs}
}

// ErrorCode classifies an error for ErrorMessage.Code
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, errBadRequest):
		return messages.CodeBadRequest
	case errors.Is(err, errUnknownMessageType):
		return messages.CodeUnknownMessageType
	case errors.Is(err, parsers.ErrUnknownFormat):
		return messages.CodeUnknownFormat
	case errors.Is(err, parsers.ErrMissingFile):
		return messages.CodeMissingFile
	case errors.Is(err, parsers.ErrMalformedSyntax):
		return messages.CodeMalformedSyntax
	case errors.Is(err, parsers.ErrMissingRequiredField):
		return messages.CodeMissingField
	case errors.Is(err, parsers.ErrTypeCoercion):
		return messages.CodeTypeCoercion
	case errors.Is(err, parsers.ErrDimensionMismatch):
		return messages.CodeDimensionMismatch
	case errors.Is(err, services.ErrUnitNotFound):
		return messages.CodeUnitNotFound
	case errors.Is(err, services.ErrUnknownCategory):
		return messages.CodeUnknownCategory
	}
	return messages.CodeInternal
}
