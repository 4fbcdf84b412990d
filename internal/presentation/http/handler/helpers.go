package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/mvcardoso/pdv-api/internal/presentation/http/dto/response"
)

// GetUserID extracts the user ID from the Gin context
func GetUserID(c *gin.Context) *uuid.UUID {
	userIDVal, exists := c.Get("user_id")
	if !exists {
		return nil
	}
	userID, ok := userIDVal.(uuid.UUID)
	if !ok {
		return nil
	}
	return &userID
}

// GetUserEmail extracts the user email from the Gin context
func GetUserEmail(c *gin.Context) string {
	email, exists := c.Get("user_email")
	if !exists {
		return ""
	}
	return email.(string)
}

// GetUserRoles extracts the user roles from the Gin context
func GetUserRoles(c *gin.Context) []string {
	roles, exists := c.Get("user_roles")
	if !exists {
		return nil
	}
	return roles.([]string)
}

// GetUserPermissions extracts the user permissions from the Gin context
func GetUserPermissions(c *gin.Context) []string {
	permissions, exists := c.Get("user_permissions")
	if !exists {
		return nil
	}
	return permissions.([]string)
}

// IsAdmin checks if the user has the admin role
func IsAdmin(c *gin.Context) bool {
	roles := GetUserRoles(c)
	for _, role := range roles {
		if role == "admin" {
			return true
		}
	}
	return false
}

// parseUUIDParam parses a UUID path parameter, returning false after
// responding when it is malformed
func parseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.BadRequest(c, "Invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}

// parseIndexParam parses a non-negative integer path parameter
func parseIndexParam(c *gin.Context, name string) (int, bool) {
	index, err := strconv.Atoi(c.Param(name))
	if err != nil || index < 0 {
		response.BadRequest(c, "Invalid "+name)
		return 0, false
	}
	return index, true
}
