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

type AccountingController struct {
	Svc *services.AccountingService
}

func NewAccountingController(svc *services.AccountingService) *AccountingController {
	return &AccountingController{Svc: svc}
}

// parseDateQuery reads an optional yyyy-mm-dd query parameter.
func parseDateQuery(c *gin.Context, key string) (*time.Time, bool) {
	raw := c.Query(key)
	if raw == "" {
		return nil, true
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid "+key+": expected yyyy-mm-dd")
		return nil, false
	}
	return &t, true
}

func (ctrl *AccountingController) CreateSale(c *gin.Context) {
	var input services.SaleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid payload: "+err.Error())
		return
	}
	sale, err := ctrl.Svc.CreateSale(middleware.ActorID(c), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, sale)
}

func (ctrl *AccountingController) Sales(c *gin.Context) {
	from, ok := parseDateQuery(c, "from")
	if !ok {
		return
	}
	to, ok := parseDateQuery(c, "to")
	if !ok {
		return
	}
	sales, err := ctrl.Svc.ListSales(from, to)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, sales)
}

func (ctrl *AccountingController) DeleteSale(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := ctrl.Svc.DeleteSale(id); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"deleted": true})
}

func (ctrl *AccountingController) CreateExpense(c *gin.Context) {
	var input services.ExpenseInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid payload: "+err.Error())
		return
	}
	expense, err := ctrl.Svc.CreateExpense(middleware.ActorID(c), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, expense)
}

func (ctrl *AccountingController) Expenses(c *gin.Context) {
	from, ok := parseDateQuery(c, "from")
	if !ok {
		return
	}
	to, ok := parseDateQuery(c, "to")
	if !ok {
		return
	}
	expenses, err := ctrl.Svc.ListExpenses(from, to)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, expenses)
}

func (ctrl *AccountingController) DeleteExpense(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := ctrl.Svc.DeleteExpense(id); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"deleted": true})
}

func (ctrl *AccountingController) Accounts(c *gin.Context) {
	accounts, err := ctrl.Svc.GetAccounts()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, accounts)
}

func (ctrl *AccountingController) CreateAccount(c *gin.Context) {
	var account models.Account
	if err := c.ShouldBindJSON(&account); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid payload: "+err.Error())
		return
	}
	if err := ctrl.Svc.CreateAccount(&account); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, account)
}

func (ctrl *AccountingController) TrialBalance(c *gin.Context) {
	asOf, ok := parseDateQuery(c, "as_of")
	if !ok {
		return
	}
	if asOf == nil {
		now := time.Now()
		asOf = &now
	}
	report, err := ctrl.Svc.TrialBalance(*asOf)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, report)
}

func (ctrl *AccountingController) ProfitLoss(c *gin.Context) {
	from, ok := parseDateQuery(c, "from")
	if !ok {
		return
	}
	to, ok := parseDateQuery(c, "to")
	if !ok {
		return
	}
	now := time.Now()
	if to == nil {
		to = &now
	}
	if from == nil {
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		from = &start
	}
	report, err := ctrl.Svc.ProfitLoss(*from, *to)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, report)
}

func (ctrl *AccountingController) BalanceSheet(c *gin.Context) {
	asOf, ok := parseDateQuery(c, "as_of")
	if !ok {
		return
	}
	if asOf == nil {
		now := time.Now()
		asOf = &now
	}
	report, err := ctrl.Svc.BalanceSheet(*asOf)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, report)
}
