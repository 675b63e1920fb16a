package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	scheduledomain "github.com/halion16/refit-management-sub000/internal/schedule/domain"
)

func (s *Server) GenerateSchedule(c *gin.Context) {
	if s.scheduleSvc == nil {
		AbortWithError(c, ErrServiceUnavailable)
		return
	}

	var req scheduledomain.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	req.QuoteID = c.Param("quote_id")

	payments, err := s.scheduleSvc.GenerateForQuote(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"payments": payments})
}

func (s *Server) ListTerms(c *gin.Context) {
	if s.scheduleSvc == nil {
		AbortWithError(c, ErrServiceUnavailable)
		return
	}

	terms, err := s.scheduleSvc.ListTerms(c.Request.Context(), c.Param("quote_id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"terms": terms})
}

func (s *Server) ListQuotePayments(c *gin.Context) {
	if s.scheduleSvc == nil {
		AbortWithError(c, ErrServiceUnavailable)
		return
	}

	payments, err := s.scheduleSvc.ListPayments(c.Request.Context(), c.Param("quote_id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"payments": payments})
}
