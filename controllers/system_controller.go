package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bike-counter-api/config"
)

type SystemController struct {
	cfg *config.Config
}

func NewSystemController(cfg *config.Config) *SystemController {
	return &SystemController{cfg: cfg}
}

// GetStatus is the liveness probe. It never touches storage.
func (sc *SystemController) GetStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "OK",
		"version": sc.cfg.APIVersion,
	})
}
