package http_api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Glayre/Proyecto-Final-Cavenet/internal/models"
)

// ContractRequest represents the JSON body for contracting a plan
type ContractRequest struct {
	PlanID string `json:"plan_id" binding:"required"`
	// CustomerID may only be set by administrators contracting on behalf of
	// a customer; customers always contract for themselves.
	CustomerID string `json:"customer_id"`
}

// ContractStatusRequest changes a contract's state
type ContractStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=active suspended finalized"`
}

// createContract binds the customer to a plan. The unique customer_id
// constraint turns a second contract into a 409.
func (s *HTTPServer) createContract(c *gin.Context) {
	var req ContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	principal := s.principal(c)
	customerID := principal.CustomerID
	if req.CustomerID != "" && req.CustomerID != customerID {
		if !principal.IsAdmin() {
			c.JSON(http.StatusForbidden, gin.H{"error": "cannot contract on behalf of another customer"})
			return
		}
		customerID = req.CustomerID
	}

	plan, err := s.repo.GetPlan(req.PlanID)
	if err != nil {
		s.respondError(c, err)
		return
	}
	if !plan.Active {
		c.JSON(http.StatusConflict, gin.H{"error": "plan is no longer offered"})
		return
	}

	contract := &models.Contract{
		ID:         uuid.NewString(),
		CustomerID: customerID,
		PlanID:     plan.ID,
		Status:     models.ContractActive,
	}
	if err := s.repo.CreateContract(contract); err != nil {
		s.respondError(c, err)
		return
	}

	s.logger.Info("Contract created ", "contract ", contract.ID, " customer ", customerID, " plan ", plan.ID)

	// Contracting starts the billing cycle: the first invoice is issued right
	// away. A failed issuance does not undo the contract; an administrator can
	// issue the invoice later.
	invoice, err := s.billing.IssueInvoice(c.Request.Context(), contract.ID)
	if err != nil {
		s.logger.Warn("Failed to issue first invoice ", "contract ", contract.ID, " error ", err)
		c.JSON(http.StatusCreated, gin.H{"contract": contract})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"contract": contract, "invoice": invoiceView(invoice)})
}

// listContracts returns every contract. Administrators only.
func (s *HTTPServer) listContracts(c *gin.Context) {
	contracts, err := s.repo.ListContracts()
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, contracts)
}

// currentContract returns the authenticated customer's own contract.
func (s *HTTPServer) currentContract(c *gin.Context) {
	contract, err := s.repo.GetContractByCustomer(s.principal(c).CustomerID)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, contract)
}

// updateContractStatus suspends, reactivates or finalizes a contract.
// Administrators only; the sweep and payment paths manage the automatic
// transitions themselves.
func (s *HTTPServer) updateContractStatus(c *gin.Context) {
	var req ContractStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	contract, err := s.repo.GetContract(c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	if contract.Status == models.ContractFinalized {
		c.JSON(http.StatusConflict, gin.H{"error": "contract is finalized"})
		return
	}

	if err := s.repo.UpdateContractStatus(contract.ID, req.Status); err != nil {
		s.respondError(c, err)
		return
	}
	contract.Status = req.Status
	c.JSON(http.StatusOK, contract)
}
