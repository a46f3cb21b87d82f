package controllers

import (
	"errors"
	"net/http"

	"rental-backend/models"
	"rental-backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type SettingsController struct {
	DB *gorm.DB
}

func NewSettingsController(db *gorm.DB) *SettingsController {
	return &SettingsController{DB: db}
}

// loadOrInit returns the single settings row, creating an empty one on first use.
func (ctrl *SettingsController) loadOrInit() (models.CompanySetting, error) {
	var setting models.CompanySetting
	err := ctrl.DB.First(&setting).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		setting = models.CompanySetting{Name: "My Rental Shop"}
		err = ctrl.DB.Create(&setting).Error
	}
	return setting, err
}

func (ctrl *SettingsController) Show(c *gin.Context) {
	setting, err := ctrl.loadOrInit()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, setting)
}

type updateSettingsPayload struct {
	Name    string `json:"name" binding:"required"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Website string `json:"website"`
	TaxID   string `json:"tax_id"`
}

func (ctrl *SettingsController) Update(c *gin.Context) {
	var payload updateSettingsPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid payload: "+err.Error())
		return
	}

	setting, err := ctrl.loadOrInit()
	if err != nil {
		respondServiceError(c, err)
		return
	}

	setting.Name = payload.Name
	setting.Address = payload.Address
	setting.Phone = payload.Phone
	setting.Email = payload.Email
	setting.Website = payload.Website
	setting.TaxID = payload.TaxID

	if err := ctrl.DB.Save(&setting).Error; err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, setting)
}
