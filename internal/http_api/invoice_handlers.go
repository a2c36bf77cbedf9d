package http_api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Glayre/Proyecto-Final-Cavenet/internal/models"
)

// CreateInvoiceRequest represents the JSON body for issuing an invoice
type CreateInvoiceRequest struct {
	ContractID string `json:"contract_id" binding:"required"`
}

// UpdateInvoiceRequest changes an invoice's state
type UpdateInvoiceRequest struct {
	Status    string `json:"status" binding:"required,oneof=paid overdue"`
	Reference string `json:"reference"`
}

// InvoiceView is the invoice shape returned to the frontend: face amount,
// paid and pending splits, and the VED conversion at the issuance snapshot.
type InvoiceView struct {
	ID            string  `json:"id"`
	CustomerID    string  `json:"customer_id"`
	Period        string  `json:"period"`
	Detail        string  `json:"detail"`
	AmountUSD     float64 `json:"amount_usd"`
	AmountPaidUSD float64 `json:"amount_paid_usd"`
	PendingUSD    float64 `json:"pending_usd"`
	ExchangeRate  float64 `json:"exchange_rate"`
	AmountVED     string  `json:"amount_ved"`
	Status        string  `json:"status"`
	IssuedAt      string  `json:"issued_at"`
	DueAt         string  `json:"due_at"`
	PaidAt        string  `json:"paid_at,omitempty"`
	Reference     string  `json:"reference"`
}

func invoiceView(inv *models.Invoice) InvoiceView {
	view := InvoiceView{
		ID:            inv.ID,
		CustomerID:    inv.CustomerID,
		Period:        inv.Period,
		Detail:        inv.Detail,
		AmountUSD:     inv.AmountUSD,
		AmountPaidUSD: inv.AmountPaidUSD,
		PendingUSD:    inv.Outstanding(),
		ExchangeRate:  inv.ExchangeRate,
		AmountVED:     fmt.Sprintf("%.2f", inv.AmountVED()),
		Status:        inv.Status,
		IssuedAt:      inv.IssuedAt.Format("2006-01-02"),
		DueAt:         inv.DueAt.Format("2006-01-02"),
		Reference:     inv.PaymentReference,
	}
	if inv.PaidAt != nil {
		view.PaidAt = inv.PaidAt.Format("2006-01-02")
	}
	return view
}

func invoiceViews(invoices []*models.Invoice) []InvoiceView {
	views := make([]InvoiceView, 0, len(invoices))
	for _, inv := range invoices {
		views = append(views, invoiceView(inv))
	}
	return views
}

// createInvoice issues a new invoice against a contract. Administrators only.
func (s *HTTPServer) createInvoice(c *gin.Context) {
	var req CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	invoice, err := s.billing.IssueInvoice(c.Request.Context(), req.ContractID)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, invoiceView(invoice))
}

// listInvoices returns every invoice. Administrators only.
func (s *HTTPServer) listInvoices(c *gin.Context) {
	invoices, err := s.billing.ListInvoices(c.Request.Context(), s.principal(c))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, invoiceViews(invoices))
}

// getInvoice returns one invoice to its owner or an administrator.
func (s *HTTPServer) getInvoice(c *gin.Context) {
	invoice, err := s.billing.GetInvoice(c.Request.Context(), s.principal(c), c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, invoiceView(invoice))
}

// listCustomerInvoices returns one customer's invoices to that customer or
// an administrator.
func (s *HTTPServer) listCustomerInvoices(c *gin.Context) {
	invoices, err := s.billing.ListInvoicesByCustomer(c.Request.Context(), s.principal(c), c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, invoiceViews(invoices))
}

// updateInvoice applies an explicit state transition: "paid" by the owner or
// an administrator, "overdue" by an administrator only.
func (s *HTTPServer) updateInvoice(c *gin.Context) {
	var req UpdateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	var (
		invoice *models.Invoice
		err     error
	)
	switch req.Status {
	case models.InvoicePaid:
		invoice, err = s.billing.MarkInvoicePaid(c.Request.Context(), s.principal(c), c.Param("id"), req.Reference)
	case models.InvoiceOverdue:
		invoice, err = s.billing.MarkInvoiceOverdue(c.Request.Context(), s.principal(c), c.Param("id"))
	}
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, invoiceView(invoice))
}

// runSweep triggers the overdue sweep by hand. Overlap with the scheduled
// run is safe: both collapse into a single execution.
func (s *HTTPServer) runSweep(c *gin.Context) {
	stats, err := s.billing.RunSweep(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
