package controllers

import (
	"net/http"

	"rental-backend/services"
	"rental-backend/utils"

	"github.com/gin-gonic/gin"
)

type DashboardController struct {
	Svc *services.DashboardService
}

func NewDashboardController(svc *services.DashboardService) *DashboardController {
	return &DashboardController{Svc: svc}
}

func (ctrl *DashboardController) Summary(c *gin.Context) {
	summary, err := ctrl.Svc.Summary()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, summary)
}
