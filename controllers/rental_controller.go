package controllers

import (
	"net/http"

	"rental-backend/middleware"
	"rental-backend/services"
	"rental-backend/utils"

	"github.com/gin-gonic/gin"
)

type RentalController struct {
	RentalSvc   *services.RentalService
	ContractSvc *services.ContractService
}

func NewRentalController(rentalSvc *services.RentalService, contractSvc *services.ContractService) *RentalController {
	return &RentalController{RentalSvc: rentalSvc, ContractSvc: contractSvc}
}

func (ctrl *RentalController) Index(c *gin.Context) {
	views, err := ctrl.RentalSvc.List()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, views)
}

func (ctrl *RentalController) Show(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	view, err := ctrl.RentalSvc.Get(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, view)
}

// History exposes the append-only trail the archival replication produces.
// The path parameter is the rental's reference code, not a row id, since the
// trail spans every archived row sharing that code.
func (ctrl *RentalController) History(c *gin.Context) {
	ref := c.Param("id")
	if ref == "" {
		utils.JSONError(c, http.StatusBadRequest, "reference code is required")
		return
	}
	rentals, err := ctrl.RentalSvc.History(ref)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, rentals)
}

func (ctrl *RentalController) Create(c *gin.Context) {
	var in services.CreateRentalInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid payload: "+err.Error())
		return
	}
	rental, err := ctrl.RentalSvc.Create(middleware.ActorID(c), in)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, rental)
}

func (ctrl *RentalController) AddComingDate(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var in services.AddComingDateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid payload: "+err.Error())
		return
	}
	rental, err := ctrl.RentalSvc.AddComingDate(middleware.ActorID(c), id, in)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, rental)
}

func (ctrl *RentalController) Extend(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var in services.ExtendRentalInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid payload: "+err.Error())
		return
	}
	rental, err := ctrl.RentalSvc.Extend(middleware.ActorID(c), id, in)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, rental)
}

func (ctrl *RentalController) Pickup(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var in services.PickupInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid payload: "+err.Error())
		return
	}
	rental, err := ctrl.RentalSvc.Pickup(middleware.ActorID(c), id, in)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, rental)
}

func (ctrl *RentalController) ExchangeVehicle(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var in services.ExchangeVehicleInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid payload: "+err.Error())
		return
	}
	rental, err := ctrl.RentalSvc.ExchangeVehicle(middleware.ActorID(c), id, in)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, rental)
}

func (ctrl *RentalController) ExchangeDeposit(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var in services.ExchangeDepositInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid payload: "+err.Error())
		return
	}
	rental, err := ctrl.RentalSvc.ExchangeDeposit(middleware.ActorID(c), id, in)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, rental)
}

// Return closes out a rental. The payload carries the acting user's password
// for the re-entry check.
func (ctrl *RentalController) Return(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var in services.ReturnRentalInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid payload: "+err.Error())
		return
	}
	if err := ctrl.RentalSvc.Return(middleware.ActorID(c), id, in); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"returned": true})
}

// Contract streams the rental contract PDF as a download.
func (ctrl *RentalController) Contract(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	data, filename, err := ctrl.ContractSvc.Render(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", data)
}
