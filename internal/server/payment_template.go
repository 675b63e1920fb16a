package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	paymenttemplatedomain "github.com/halion16/refit-management-sub000/internal/paymenttemplate/domain"
)

func (s *Server) CreateTemplate(c *gin.Context) {
	if s.templateSvc == nil {
		AbortWithError(c, ErrServiceUnavailable)
		return
	}

	var req paymenttemplatedomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	tmpl, err := s.templateSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"template": tmpl})
}

func (s *Server) ListTemplates(c *gin.Context) {
	if s.templateSvc == nil {
		AbortWithError(c, ErrServiceUnavailable)
		return
	}

	templates, err := s.templateSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"templates": templates})
}

func (s *Server) GetTemplate(c *gin.Context) {
	if s.templateSvc == nil {
		AbortWithError(c, ErrServiceUnavailable)
		return
	}

	tmpl, err := s.templateSvc.GetByID(c.Request.Context(), c.Param("template_id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"template": tmpl})
}

func (s *Server) DeleteTemplate(c *gin.Context) {
	if s.templateSvc == nil {
		AbortWithError(c, ErrServiceUnavailable)
		return
	}

	if err := s.templateSvc.Delete(c.Request.Context(), c.Param("template_id")); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) ApplyTemplate(c *gin.Context) {
	if s.templateSvc == nil {
		AbortWithError(c, ErrServiceUnavailable)
		return
	}

	var req paymenttemplatedomain.ApplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	req.QuoteID = c.Param("quote_id")

	terms, err := s.templateSvc.ApplyToQuote(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"terms": terms})
}
