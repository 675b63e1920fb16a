package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	quotedomain "github.com/halion16/refit-management-sub000/internal/quote/domain"
)

func (s *Server) CreateQuote(c *gin.Context) {
	if s.quoteSvc == nil {
		AbortWithError(c, ErrServiceUnavailable)
		return
	}

	var req quotedomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	quote, err := s.quoteSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"quote": quote})
}

func (s *Server) GetQuote(c *gin.Context) {
	if s.quoteSvc == nil {
		AbortWithError(c, ErrServiceUnavailable)
		return
	}

	quote, err := s.quoteSvc.GetByID(c.Request.Context(), c.Param("quote_id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"quote": quote})
}

func (s *Server) ListQuotes(c *gin.Context) {
	if s.quoteSvc == nil {
		AbortWithError(c, ErrServiceUnavailable)
		return
	}

	quotes, err := s.quoteSvc.List(c.Request.Context(), c.Query("project_id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"quotes": quotes})
}
