package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	ledgerdomain "github.com/halion16/refit-management-sub000/internal/ledger/domain"
)

func (s *Server) RecordPayment(c *gin.Context) {
	if s.ledgerSvc == nil {
		AbortWithError(c, ErrServiceUnavailable)
		return
	}

	var req ledgerdomain.RecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	req.PaymentID = c.Param("payment_id")

	payment, err := s.ledgerSvc.RecordPayment(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"payment": payment})
}

func (s *Server) PaymentStats(c *gin.Context) {
	if s.ledgerSvc == nil {
		AbortWithError(c, ErrServiceUnavailable)
		return
	}

	stats, err := s.ledgerSvc.Stats(c.Request.Context(), c.Query("quote_id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"stats": stats})
}
