package http_api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Glayre/Proyecto-Final-Cavenet/internal/models"
)

// PlanRequest represents the JSON body for creating or updating a plan
type PlanRequest struct {
	Name      string  `json:"name" binding:"required"`
	SpeedMbps int     `json:"speed_mbps" binding:"required,gt=0"`
	PriceUSD  float64 `json:"price_usd" binding:"required,gt=0"`
	Category  string  `json:"category" binding:"required,oneof=home business"`
	Active    *bool   `json:"active"`
}

// listPlans is public: it returns the active plans customers can contract.
func (s *HTTPServer) listPlans(c *gin.Context) {
	plans, err := s.repo.ListPlans(true)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, plans)
}

// createPlan adds a service tier. Administrators only.
func (s *HTTPServer) createPlan(c *gin.Context) {
	var req PlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	plan := &models.Plan{
		ID:        uuid.NewString(),
		Name:      req.Name,
		SpeedMbps: req.SpeedMbps,
		PriceUSD:  req.PriceUSD,
		Category:  req.Category,
		Active:    true,
	}
	if req.Active != nil {
		plan.Active = *req.Active
	}

	if err := s.repo.CreatePlan(plan); err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, plan)
}

// updatePlan edits a service tier. Deactivation never retroactively alters
// invoices that already reference the plan; they keep their issued amounts.
func (s *HTTPServer) updatePlan(c *gin.Context) {
	var req PlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	plan, err := s.repo.GetPlan(c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}

	plan.Name = req.Name
	plan.SpeedMbps = req.SpeedMbps
	plan.PriceUSD = req.PriceUSD
	plan.Category = req.Category
	if req.Active != nil {
		plan.Active = *req.Active
	}

	if err := s.repo.UpdatePlan(plan); err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}
