package http_api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Glayre/Proyecto-Final-Cavenet/internal/auth"
	"github.com/Glayre/Proyecto-Final-Cavenet/internal/models"
	"github.com/Glayre/Proyecto-Final-Cavenet/pkg/validation"
)

// RegisterRequest represents the JSON body for customer registration
type RegisterRequest struct {
	Cedula    string `json:"cedula" binding:"required"`
	Email     string `json:"email" binding:"required"`
	Password  string `json:"password" binding:"required,min=8"`
	FirstName string `json:"first_name" binding:"required,min=2"`
	LastName  string `json:"last_name" binding:"required"`
	Phone     string `json:"phone"`
	City      string `json:"city"`
	Street    string `json:"street"`
	Apartment string `json:"apartment"`
}

// LoginRequest represents the JSON body for login
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the minted token and the authenticated user
type LoginResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// register is a handler for the /auth/register endpoint.
func (s *HTTPServer) register(c *gin.Context) {
	var req RegisterRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		s.logger.Debug("Invalid request body", "error", err)
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

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		s.respondError(c, err)
		return
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Cedula:       req.Cedula,
		Email:        req.Email,
		PasswordHash: hash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Phone:        req.Phone,
		City:         req.City,
		Street:       req.Street,
		Apartment:    req.Apartment,
		Role:         models.RoleCustomer,
		AccessMode:   models.AccessEmail,
	}

	if err := s.repo.CreateUser(user); err != nil {
		s.respondError(c, err)
		return
	}

	s.logger.Info("User registered ", "user ", user.ID, " email ", user.Email)
	c.JSON(http.StatusCreated, user)
}

// login is a handler for the /auth/login endpoint.
func (s *HTTPServer) login(c *gin.Context) {
	var req LoginRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	user, err := s.repo.GetUserByEmail(req.Email)
	// A missing user and a wrong password answer identically so the endpoint
	// cannot be used to enumerate accounts.
	if err != nil || user.Deleted || !auth.CheckPassword(user.PasswordHash, req.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
		return
	}

	token, err := s.signer.Sign(user)
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, LoginResponse{Token: token, User: user})
}
