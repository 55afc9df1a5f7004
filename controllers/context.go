package controllers

import (
	"stockpro-backend/models"

	"github.com/gin-gonic/gin"
)

func currentRole(c *gin.Context) models.Role {
	return models.Role(c.GetString("role"))
}
