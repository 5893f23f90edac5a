package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/geowild/ConserveIQ/internal/domain/genetics"
	"github.com/geowild/ConserveIQ/internal/domain/occurrence"
	"github.com/geowild/ConserveIQ/internal/infrastructure/datawatch"
	"github.com/geowild/ConserveIQ/internal/infrastructure/monitoring/logging"
	"github.com/geowild/ConserveIQ/pkg/errors"
)

// InputsRequest is the PUT /api/v1/inputs body.
type InputsRequest struct {
	Occurrences []*occurrence.Point `json:"occurrences"`
	Samples     []*genetics.Sample  `json:"samples"`
}

// InputsResponse acknowledges an input replacement.
type InputsResponse struct {
	Occurrences int `json:"occurrences"`
	Samples     int `json:"samples"`
}

// InputsHandler replaces the engine's inputs.
type InputsHandler struct {
	sink   datawatch.Sink
	logger logging.Logger
}

// NewInputsHandler constructs the handler.
func NewInputsHandler(sink datawatch.Sink, logger logging.Logger) *InputsHandler {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &InputsHandler{sink: sink, logger: logger.Named("handler.inputs")}
}

// Put handles PUT /api/v1/inputs.  The body fully replaces both input sets;
// every cached analysis is invalidated.
func (h *InputsHandler) Put(c *gin.Context) {
	var req InputsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errors.Wrap(err, errors.CodeInvalidParam, "malformed inputs body"))
		return
	}
	for i, p := range req.Occurrences {
		if err := p.Validate(); err != nil {
			respondError(c, errors.Wrapf(err, errors.ErrCodeOccurrenceInvalid,
				"occurrence record %d invalid", i))
			return
		}
	}

	if err := h.sink.SetInputs(c.Request.Context(), req.Occurrences, req.Samples); err != nil {
		h.logger.Error("input replacement failed", logging.Err(err))
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, InputsResponse{
		Occurrences: len(req.Occurrences),
		Samples:     len(req.Samples),
	})
}
