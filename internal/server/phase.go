package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	phasedomain "github.com/halion16/refit-management-sub000/internal/phase/domain"
)

func (s *Server) CreatePhase(c *gin.Context) {
	if s.phaseSvc == nil {
		AbortWithError(c, ErrServiceUnavailable)
		return
	}

	var req phasedomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	phase, err := s.phaseSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"phase": phase})
}

func (s *Server) ListPhases(c *gin.Context) {
	if s.phaseSvc == nil {
		AbortWithError(c, ErrServiceUnavailable)
		return
	}

	var filter phasedomain.ListRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	phases, err := s.phaseSvc.List(c.Request.Context(), filter)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"phases": phases})
}
