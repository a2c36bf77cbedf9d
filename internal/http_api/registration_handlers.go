package http_api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Glayre/Proyecto-Final-Cavenet/internal/models"
	"github.com/Glayre/Proyecto-Final-Cavenet/pkg/validation"
)

// RegistrationRequest represents the public service sign-up form
type RegistrationRequest struct {
	PlanName       string `json:"plan_name" binding:"required"`
	FirstName      string `json:"first_name" binding:"required"`
	LastName       string `json:"last_name" binding:"required"`
	Cedula         string `json:"cedula" binding:"required"`
	Email          string `json:"email" binding:"required"`
	AlternateEmail string `json:"alternate_email"`
	Phone          string `json:"phone" binding:"required"`
	OtherContact   string `json:"other_contact"`
	City           string `json:"city"`
	MainStreet     string `json:"main_street"`
	SideStreet     string `json:"side_street"`
	HouseNumber    string `json:"house_number"`
	BirthDate      string `json:"birth_date"`
}

// ReviewRegistrationRequest carries the administrator's decision
type ReviewRegistrationRequest struct {
	Status       string `json:"status" binding:"required,oneof=pending approved rejected"`
	Observations string `json:"observations"`
}

// createRegistration files a public service sign-up request.
func (s *HTTPServer) createRegistration(c *gin.Context) {
	var req RegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	if err := validation.ValidateCedula(req.Cedula); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := validation.ValidateEmail(req.Email); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := validation.ValidatePhone(req.Phone); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	registration := &models.Registration{
		ID:             uuid.NewString(),
		PlanName:       req.PlanName,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Cedula:         req.Cedula,
		Email:          req.Email,
		AlternateEmail: req.AlternateEmail,
		Phone:          req.Phone,
		OtherContact:   req.OtherContact,
		City:           req.City,
		MainStreet:     req.MainStreet,
		SideStreet:     req.SideStreet,
		HouseNumber:    req.HouseNumber,
		BirthDate:      req.BirthDate,
		Status:         models.RegistrationPending,
	}

	if err := s.repo.CreateRegistration(registration); err != nil {
		s.respondError(c, err)
		return
	}

	s.logger.Info("Registration filed ", "registration ", registration.ID, " cedula ", registration.Cedula)
	c.JSON(http.StatusCreated, registration)
}

// listRegistrations returns every sign-up request. Administrators only.
func (s *HTTPServer) listRegistrations(c *gin.Context) {
	registrations, err := s.repo.ListRegistrations()
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, registrations)
}

// updateRegistration records the administrator's review decision.
func (s *HTTPServer) updateRegistration(c *gin.Context) {
	var req ReviewRegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	registration, err := s.repo.GetRegistration(c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}

	registration.Status = req.Status
	registration.Observations = req.Observations
	if err := s.repo.UpdateRegistration(registration); err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, registration)
}
