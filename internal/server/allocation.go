package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	allocationdomain "github.com/halion16/refit-management-sub000/internal/allocation/domain"
)

func (s *Server) PreviewAllocation(c *gin.Context) {
	if s.allocationSvc == nil {
		AbortWithError(c, ErrServiceUnavailable)
		return
	}

	var req allocationdomain.PreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	if len(req.PhaseIDs) == 0 && len(req.Percentages) == 0 {
		AbortWithError(c, newValidationError("phase_ids", "empty_selection", "phase_ids or percentages is required"))
		return
	}

	resp, err := s.allocationSvc.Preview(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) SaveAllocation(c *gin.Context) {
	if s.allocationSvc == nil {
		AbortWithError(c, ErrServiceUnavailable)
		return
	}

	var req allocationdomain.SaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	req.QuoteID = c.Param("quote_id")

	quote, err := s.allocationSvc.Save(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"quote": quote})
}
