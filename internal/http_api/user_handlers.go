package http_api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Glayre/Proyecto-Final-Cavenet/pkg/validation"
)

// UpdateUserRequest carries the administrative profile edits.
type UpdateUserRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
	City      string `json:"city"`
	Street    string `json:"street"`
	Apartment string `json:"apartment"`
}

// currentUser returns the authenticated user's own record.
func (s *HTTPServer) currentUser(c *gin.Context) {
	user, err := s.repo.GetUser(s.principal(c).CustomerID)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// listUsers returns every non-deleted user. Administrators only.
func (s *HTTPServer) listUsers(c *gin.Context) {
	users, err := s.repo.ListUsers()
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// updateUser applies profile edits to one user. Administrators only.
func (s *HTTPServer) updateUser(c *gin.Context) {
	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}
	if err := validation.ValidatePhone(req.Phone); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := s.repo.GetUser(c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}

	if req.FirstName != "" {
		user.FirstName = req.FirstName
	}
	if req.LastName != "" {
		user.LastName = req.LastName
	}
	if req.Phone != "" {
		user.Phone = req.Phone
	}
	if req.City != "" {
		user.City = req.City
	}
	if req.Street != "" {
		user.Street = req.Street
	}
	if req.Apartment != "" {
		user.Apartment = req.Apartment
	}

	if err := s.repo.UpdateUser(user); err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// deleteUser soft-deletes a user. The record stays behind the billing
// history; nothing is ever hard-deleted.
func (s *HTTPServer) deleteUser(c *gin.Context) {
	if err := s.repo.SoftDeleteUser(c.Param("id")); err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "user deleted"})
}
