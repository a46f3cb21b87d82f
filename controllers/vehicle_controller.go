package controllers

import (
	"net/http"

	"rental-backend/models"
	"rental-backend/services"
	"rental-backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
)

type VehicleController struct {
	VehicleSvc *services.VehicleService
}

func NewVehicleController(svc *services.VehicleService) *VehicleController {
	return &VehicleController{VehicleSvc: svc}
}

func (ctrl *VehicleController) Index(c *gin.Context) {
	vehicles, err := ctrl.VehicleSvc.GetAll()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, vehicles)
}

func (ctrl *VehicleController) Show(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	vehicle, err := ctrl.VehicleSvc.GetByID(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, vehicle)
}

func (ctrl *VehicleController) Create(c *gin.Context) {
	var vehicle models.Vehicle
	if err := c.ShouldBindJSON(&vehicle); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid payload: "+err.Error())
		return
	}
	if err := ctrl.VehicleSvc.Create(&vehicle); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, vehicle)
}

// updateVehiclePayload is the editable subset of a vehicle. Occupancy fields
// (currentStatusId, currentRentalId) are owned by the rental lifecycle and
// cannot be set through this endpoint.
type updateVehiclePayload struct {
	VehicleNo       string         `json:"vehicleNo"`
	MakeID          *uint          `json:"makeId"`
	ClassID         *uint          `json:"classId"`
	PricePerDay     float64        `json:"pricePerDay"`
	PricePerWeek    float64        `json:"pricePerWeek"`
	PricePerMonth   float64        `json:"pricePerMonth"`
	CurrentLocation string         `json:"currentLocation"`
	Specs           datatypes.JSON `json:"specs"`
	Notes           string         `json:"notes"`
}

func (p updateVehiclePayload) toModel(id uint) models.Vehicle {
	vehicle := models.Vehicle{
		VehicleNo:       p.VehicleNo,
		MakeID:          p.MakeID,
		ClassID:         p.ClassID,
		PricePerDay:     p.PricePerDay,
		PricePerWeek:    p.PricePerWeek,
		PricePerMonth:   p.PricePerMonth,
		CurrentLocation: p.CurrentLocation,
		Specs:           p.Specs,
		Notes:           p.Notes,
	}
	vehicle.ID = id
	return vehicle
}

func (ctrl *VehicleController) Update(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var payload updateVehiclePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid payload: "+err.Error())
		return
	}
	vehicle := payload.toModel(id)
	if err := ctrl.VehicleSvc.Update(vehicle); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, vehicle)
}

func (ctrl *VehicleController) Delete(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := ctrl.VehicleSvc.Delete(id); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"deleted": true})
}

// Lookup tables

func (ctrl *VehicleController) Statuses(c *gin.Context) {
	statuses, err := ctrl.VehicleSvc.GetStatuses()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, statuses)
}

func (ctrl *VehicleController) CreateStatus(c *gin.Context) {
	var status models.VehicleStatus
	if err := c.ShouldBindJSON(&status); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid payload: "+err.Error())
		return
	}
	if err := ctrl.VehicleSvc.CreateStatus(&status); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, status)
}

func (ctrl *VehicleController) Makes(c *gin.Context) {
	makes, err := ctrl.VehicleSvc.GetMakes()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, makes)
}

func (ctrl *VehicleController) CreateMake(c *gin.Context) {
	var m models.VehicleMake
	if err := c.ShouldBindJSON(&m); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid payload: "+err.Error())
		return
	}
	if err := ctrl.VehicleSvc.CreateMake(&m); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, m)
}

func (ctrl *VehicleController) Classes(c *gin.Context) {
	classes, err := ctrl.VehicleSvc.GetClasses()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, classes)
}

func (ctrl *VehicleController) CreateClass(c *gin.Context) {
	var class models.VehicleClass
	if err := c.ShouldBindJSON(&class); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid payload: "+err.Error())
		return
	}
	if err := ctrl.VehicleSvc.CreateClass(&class); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, class)
}
