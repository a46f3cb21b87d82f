package controllers

import (
	"net/http"
	"time"

	"rental-backend/middleware"
	"rental-backend/models"
	"rental-backend/services"
	"rental-backend/utils"

	"github.com/gin-gonic/gin"
)

type CustomerController struct {
	CustomerSvc *services.CustomerService
}

func NewCustomerController(svc *services.CustomerService) *CustomerController {
	return &CustomerController{CustomerSvc: svc}
}

type createCustomerPayload struct {
	FirstName       string                 `json:"first_name"`
	LastName        string                 `json:"last_name"`
	DateOfBirth     string                 `json:"date_of_birth"`
	Gender          string                 `json:"gender"`
	Nationality     string                 `json:"nationality"`
	CurrentAddress  string                 `json:"current_address"`
	HomeAddress     string                 `json:"home_address"`
	PassportNumber  string                 `json:"passport_number"`
	PassportCountry string                 `json:"passport_country"`
	PassportExpiry  string                 `json:"passport_expiry"`
	Notes           string                 `json:"notes"`
	Contacts        []services.ContactItem `json:"contacts"`
}

func parseOptionalDate(value string) *time.Time {
	if value == "" {
		return nil
	}
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return &t
	}
	return nil
}

func (ctrl *CustomerController) Create(c *gin.Context) {
	var payload createCustomerPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid payload: "+err.Error())
		return
	}

	customer := models.Customer{
		FirstName:       payload.FirstName,
		LastName:        payload.LastName,
		DateOfBirth:     parseOptionalDate(payload.DateOfBirth),
		Gender:          payload.Gender,
		Nationality:     payload.Nationality,
		CurrentAddress:  payload.CurrentAddress,
		HomeAddress:     payload.HomeAddress,
		PassportNumber:  payload.PassportNumber,
		PassportCountry: payload.PassportCountry,
		PassportExpiry:  parseOptionalDate(payload.PassportExpiry),
		Notes:           payload.Notes,
	}

	if err := ctrl.CustomerSvc.Create(middleware.ActorID(c), &customer, payload.Contacts); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, customer)
}

func (ctrl *CustomerController) Index(c *gin.Context) {
	customers, err := ctrl.CustomerSvc.GetAll()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, customers)
}

func (ctrl *CustomerController) Show(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	customer, err := ctrl.CustomerSvc.GetByID(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, customer)
}

func (ctrl *CustomerController) Update(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var payload createCustomerPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid payload: "+err.Error())
		return
	}
	customer := models.Customer{
		FirstName:       payload.FirstName,
		LastName:        payload.LastName,
		DateOfBirth:     parseOptionalDate(payload.DateOfBirth),
		Gender:          payload.Gender,
		Nationality:     payload.Nationality,
		CurrentAddress:  payload.CurrentAddress,
		HomeAddress:     payload.HomeAddress,
		PassportNumber:  payload.PassportNumber,
		PassportCountry: payload.PassportCountry,
		PassportExpiry:  parseOptionalDate(payload.PassportExpiry),
		Notes:           payload.Notes,
	}
	customer.ID = id
	if err := ctrl.CustomerSvc.Update(customer); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, customer)
}

func (ctrl *CustomerController) Delete(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := ctrl.CustomerSvc.Delete(id); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"deleted": true})
}

func (ctrl *CustomerController) AddContact(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var item services.ContactItem
	if err := c.ShouldBindJSON(&item); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid payload: "+err.Error())
		return
	}
	contact, err := ctrl.CustomerSvc.AddContact(id, item)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, contact)
}

func (ctrl *CustomerController) DeactivateContact(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := ctrl.CustomerSvc.DeactivateContact(id); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"deactivated": true})
}

func (ctrl *CustomerController) Deposits(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	activeOnly := c.Query("active") == "true"
	deposits, err := ctrl.CustomerSvc.DepositsForCustomer(id, activeOnly)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, deposits)
}

func (ctrl *CustomerController) ContactTypes(c *gin.Context) {
	types, err := ctrl.CustomerSvc.GetContactTypes()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, types)
}

func (ctrl *CustomerController) DepositTypes(c *gin.Context) {
	types, err := ctrl.CustomerSvc.GetDepositTypes()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, types)
}
