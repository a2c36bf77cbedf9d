package http_api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Glayre/Proyecto-Final-Cavenet/internal/billing"
)

// ReportPaymentRequest represents the JSON body for reporting a payment
type ReportPaymentRequest struct {
	Currency    string  `json:"currency" binding:"required,oneof=USD VED"`
	Amount      float64 `json:"amount" binding:"required,gt=0"`
	BankOrigin  string  `json:"bank_origin"`
	DestAccount string  `json:"dest_account"`
	Reference   string  `json:"reference" binding:"required"`
}

// VerifyPaymentRequest moves a payment report to verified or rejected
type VerifyPaymentRequest struct {
	Status string `json:"status" binding:"required,oneof=verified rejected"`
}

// reportPayment records a customer's payment report against an invoice and
// applies it to the ledger.
func (s *HTTPServer) reportPayment(c *gin.Context) {
	var req ReportPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	payment, err := s.billing.ReportPayment(c.Request.Context(), s.principal(c), billing.ReportPaymentRequest{
		InvoiceID:   c.Param("id"),
		Currency:    req.Currency,
		Amount:      req.Amount,
		BankOrigin:  req.BankOrigin,
		DestAccount: req.DestAccount,
		Reference:   req.Reference,
	})
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, payment)
}

// listInvoicePayments returns the payments reported against one invoice.
func (s *HTTPServer) listInvoicePayments(c *gin.Context) {
	payments, err := s.billing.ListPaymentsByInvoice(c.Request.Context(), s.principal(c), c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, payments)
}

// verifyPayment marks a payment report verified or rejected. Administrators
// only.
func (s *HTTPServer) verifyPayment(c *gin.Context) {
	var req VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	payment, err := s.billing.VerifyPayment(c.Request.Context(), s.principal(c), c.Param("id"), req.Status)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, payment)
}
