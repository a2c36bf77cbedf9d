package http_api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Glayre/Proyecto-Final-Cavenet/internal/models"
	"github.com/Glayre/Proyecto-Final-Cavenet/pkg/validation"
)

// ContactRequest represents the public contact form
type ContactRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required"`
	Message string `json:"message" binding:"required"`
}

// createContactMessage files a message from the public contact form.
func (s *HTTPServer) createContactMessage(c *gin.Context) {
	var req ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}
	if err := validation.ValidateEmail(req.Email); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	message := &models.ContactMessage{
		ID:      uuid.NewString(),
		Name:    req.Name,
		Email:   req.Email,
		Message: req.Message,
		Status:  models.ContactPending,
	}
	if err := s.repo.CreateContactMessage(message); err != nil {
		s.respondError(c, err)
		return
	}

	s.logger.Info("Contact message filed ", "message ", message.ID, " email ", message.Email)
	c.JSON(http.StatusCreated, message)
}

// listContactMessages returns every contact message, newest first.
// Administrators only.
func (s *HTTPServer) listContactMessages(c *gin.Context) {
	messages, err := s.repo.ListContactMessages()
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, messages)
}
