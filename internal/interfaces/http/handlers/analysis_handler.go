package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/geowild/ConserveIQ/internal/application/analysis"
	"github.com/geowild/ConserveIQ/internal/infrastructure/monitoring/logging"
)

// AnalysisHandler serves the three read-only aggregate analysis queries.
type AnalysisHandler struct {
	svc    *analysis.Service
	logger logging.Logger
}

// NewAnalysisHandler constructs the handler.
func NewAnalysisHandler(svc *analysis.Service, logger logging.Logger) *AnalysisHandler {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &AnalysisHandler{svc: svc, logger: logger.Named("handler.analysis")}
}

// Diversity handles GET /api/v1/analysis/diversity.
func (h *AnalysisHandler) Diversity(c *gin.Context) {
	out, err := h.svc.DiversityAnalysis(c.Request.Context())
	if err != nil {
		h.logger.Error("diversity analysis failed", logging.Err(err))
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// Phylogenetic handles GET /api/v1/analysis/phylogenetic.
func (h *AnalysisHandler) Phylogenetic(c *gin.Context) {
	out, err := h.svc.PhylogeneticAnalysis(c.Request.Context())
	if err != nil {
		h.logger.Error("phylogenetic analysis failed", logging.Err(err))
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// Conservation handles GET /api/v1/analysis/conservation.
func (h *AnalysisHandler) Conservation(c *gin.Context) {
	out, err := h.svc.ConservationAnalysis(c.Request.Context())
	if err != nil {
		h.logger.Error("conservation analysis failed", logging.Err(err))
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}
