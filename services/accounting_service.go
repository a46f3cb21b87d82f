package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"rental-backend/models"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// AccountingService covers the POS side: sales and expense vouchers plus the
// read-only reports (trial balance, profit & loss, balance sheet). Reports
// are plain aggregations, there is no double-entry journal behind them.
type AccountingService struct {
	DB *gorm.DB
}

func NewAccountingService(db *gorm.DB) *AccountingService {
	return &AccountingService{DB: db}
}

type SaleInput struct {
	AccountID     uint    `json:"account_id"`
	CustomerID    *uint   `json:"customer_id,omitempty"`
	RentalID      *uint   `json:"rental_id,omitempty"`
	SaleDate      string  `json:"sale_date"`
	Amount        float64 `json:"amount"`
	PaymentMethod string  `json:"payment_method"`
	Description   string  `json:"description"`
}

type ExpenseInput struct {
	AccountID     uint    `json:"account_id"`
	ExpenseDate   string  `json:"expense_date"`
	Amount        float64 `json:"amount"`
	PaymentMethod string  `json:"payment_method"`
	Payee         string  `json:"payee"`
	Description   string  `json:"description"`
}

func newVoucherNo(prefix string) string {
	return prefix + "-" + strings.ToUpper(uuid.NewString()[:8])
}

func (s *AccountingService) requireAccount(id uint, wantType string) (*models.Account, error) {
	var account models.Account
	if err := s.DB.First(&account, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("account", id)
		}
		return nil, fmt.Errorf("db error checking account %d: %w", id, err)
	}
	if wantType != "" && account.Type != wantType {
		return nil, invalid("account_id", fmt.Sprintf("account %s is not an %s account", account.Code, wantType))
	}
	return &account, nil
}

func (s *AccountingService) CreateSale(actorID uint, in SaleInput) (*models.Sale, error) {
	if in.Amount <= 0 {
		return nil, invalid("amount", "amount must be positive")
	}
	saleDate, err := parseDate("sale_date", in.SaleDate)
	if err != nil {
		return nil, err
	}
	if saleDate == nil {
		now := time.Now()
		saleDate = &now
	}
	if _, err := s.requireAccount(in.AccountID, models.AccountTypeIncome); err != nil {
		return nil, err
	}
	if in.CustomerID != nil {
		var customer models.Customer
		if err := s.DB.First(&customer, *in.CustomerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, notFound("customer", *in.CustomerID)
			}
			return nil, err
		}
	}

	sale := models.Sale{
		VoucherNo:     newVoucherNo("SAL"),
		SaleDate:      *saleDate,
		AccountID:     in.AccountID,
		CustomerID:    in.CustomerID,
		RentalID:      in.RentalID,
		Amount:        in.Amount,
		PaymentMethod: in.PaymentMethod,
		Description:   in.Description,
		CreatorID:     actorID,
	}
	if err := s.DB.Create(&sale).Error; err != nil {
		return nil, fmt.Errorf("failed to create sale: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"actor_id": actorID,
		"sale_id":  sale.ID,
		"amount":   sale.Amount,
	}).Info("sale recorded")

	return &sale, nil
}

func (s *AccountingService) CreateExpense(actorID uint, in ExpenseInput) (*models.Expense, error) {
	if in.Amount <= 0 {
		return nil, invalid("amount", "amount must be positive")
	}
	expenseDate, err := parseDate("expense_date", in.ExpenseDate)
	if err != nil {
		return nil, err
	}
	if expenseDate == nil {
		now := time.Now()
		expenseDate = &now
	}
	if _, err := s.requireAccount(in.AccountID, models.AccountTypeExpense); err != nil {
		return nil, err
	}

	expense := models.Expense{
		VoucherNo:     newVoucherNo("EXP"),
		ExpenseDate:   *expenseDate,
		AccountID:     in.AccountID,
		Amount:        in.Amount,
		PaymentMethod: in.PaymentMethod,
		Payee:         in.Payee,
		Description:   in.Description,
		CreatorID:     actorID,
	}
	if err := s.DB.Create(&expense).Error; err != nil {
		return nil, fmt.Errorf("failed to create expense: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"actor_id":   actorID,
		"expense_id": expense.ID,
		"amount":     expense.Amount,
	}).Info("expense recorded")

	return &expense, nil
}

func (s *AccountingService) ListSales(from, to *time.Time) ([]models.Sale, error) {
	q := s.DB.Preload("Account").Preload("Customer")
	if from != nil {
		q = q.Where("sale_date >= ?", *from)
	}
	if to != nil {
		q = q.Where("sale_date <= ?", *to)
	}
	var sales []models.Sale
	err := q.Order("sale_date DESC").Find(&sales).Error
	return sales, err
}

func (s *AccountingService) ListExpenses(from, to *time.Time) ([]models.Expense, error) {
	q := s.DB.Preload("Account")
	if from != nil {
		q = q.Where("expense_date >= ?", *from)
	}
	if to != nil {
		q = q.Where("expense_date <= ?", *to)
	}
	var expenses []models.Expense
	err := q.Order("expense_date DESC").Find(&expenses).Error
	return expenses, err
}

func (s *AccountingService) DeleteSale(id uint) error {
	return s.DB.Delete(&models.Sale{}, id).Error
}

func (s *AccountingService) DeleteExpense(id uint) error {
	return s.DB.Delete(&models.Expense{}, id).Error
}

func (s *AccountingService) GetAccounts() ([]models.Account, error) {
	var accounts []models.Account
	err := s.DB.Order("code ASC").Find(&accounts).Error
	return accounts, err
}

func (s *AccountingService) CreateAccount(account *models.Account) error {
	switch account.Type {
	case models.AccountTypeAsset, models.AccountTypeLiability, models.AccountTypeEquity,
		models.AccountTypeIncome, models.AccountTypeExpense:
	default:
		return invalid("type", "unknown account type")
	}
	return s.DB.Create(account).Error
}

// Report rows

type TrialBalanceRow struct {
	AccountCode string  `json:"account_code"`
	AccountName string  `json:"account_name"`
	AccountType string  `json:"account_type"`
	Debit       float64 `json:"debit"`
	Credit      float64 `json:"credit"`
}

type TrialBalance struct {
	AsOf        time.Time         `json:"as_of"`
	Rows        []TrialBalanceRow `json:"rows"`
	TotalDebit  float64           `json:"total_debit"`
	TotalCredit float64           `json:"total_credit"`
}

type ProfitLossLine struct {
	AccountCode string  `json:"account_code"`
	AccountName string  `json:"account_name"`
	Amount      float64 `json:"amount"`
}

type ProfitLoss struct {
	From         time.Time        `json:"from"`
	To           time.Time        `json:"to"`
	Income       []ProfitLossLine `json:"income"`
	Expenses     []ProfitLossLine `json:"expenses"`
	TotalIncome  float64          `json:"total_income"`
	TotalExpense float64          `json:"total_expense"`
	NetProfit    float64          `json:"net_profit"`
}

type BalanceSheet struct {
	AsOf             time.Time        `json:"as_of"`
	Assets           []ProfitLossLine `json:"assets"`
	Liabilities      []ProfitLossLine `json:"liabilities"`
	Equity           []ProfitLossLine `json:"equity"`
	TotalAssets      float64          `json:"total_assets"`
	TotalLiabilities float64          `json:"total_liabilities"`
	TotalEquity      float64          `json:"total_equity"`
}

func (s *AccountingService) sumByAccount(model interface{}, dateColumn string, until time.Time) (map[uint]float64, error) {
	type row struct {
		AccountID uint
		Total     float64
	}
	var rows []row
	err := s.DB.Model(model).
		Select("account_id, SUM(amount) AS total").
		Where(dateColumn+" <= ?", until).
		Group("account_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[uint]float64, len(rows))
	for _, r := range rows {
		out[r.AccountID] = r.Total
	}
	return out, nil
}

// BuildTrialBalance is the pure aggregation behind the trial balance report:
// income activity sits on the credit side, expense activity on the debit
// side, opening balances fall on the natural side of the account type.
func BuildTrialBalance(asOf time.Time, accounts []models.Account, salesByAccount, expensesByAccount map[uint]float64) TrialBalance {
	tb := TrialBalance{AsOf: asOf}
	for _, a := range accounts {
		row := TrialBalanceRow{
			AccountCode: a.Code,
			AccountName: a.Name,
			AccountType: a.Type,
		}
		switch a.Type {
		case models.AccountTypeAsset, models.AccountTypeExpense:
			row.Debit = a.OpeningBalance
		default:
			row.Credit = a.OpeningBalance
		}
		row.Credit += salesByAccount[a.ID]
		row.Debit += expensesByAccount[a.ID]

		if row.Debit == 0 && row.Credit == 0 {
			continue
		}
		tb.Rows = append(tb.Rows, row)
		tb.TotalDebit += row.Debit
		tb.TotalCredit += row.Credit
	}
	return tb
}

func (s *AccountingService) TrialBalance(asOf time.Time) (*TrialBalance, error) {
	accounts, err := s.GetAccounts()
	if err != nil {
		return nil, err
	}
	sales, err := s.sumByAccount(&models.Sale{}, "sale_date", asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate sales: %w", err)
	}
	expenses, err := s.sumByAccount(&models.Expense{}, "expense_date", asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate expenses: %w", err)
	}
	tb := BuildTrialBalance(asOf, accounts, sales, expenses)
	return &tb, nil
}

// BuildProfitLoss nets period income against period expenses per account.
func BuildProfitLoss(from, to time.Time, accounts []models.Account, salesByAccount, expensesByAccount map[uint]float64) ProfitLoss {
	pl := ProfitLoss{From: from, To: to}
	for _, a := range accounts {
		switch a.Type {
		case models.AccountTypeIncome:
			if amount := salesByAccount[a.ID]; amount != 0 {
				pl.Income = append(pl.Income, ProfitLossLine{AccountCode: a.Code, AccountName: a.Name, Amount: amount})
				pl.TotalIncome += amount
			}
		case models.AccountTypeExpense:
			if amount := expensesByAccount[a.ID]; amount != 0 {
				pl.Expenses = append(pl.Expenses, ProfitLossLine{AccountCode: a.Code, AccountName: a.Name, Amount: amount})
				pl.TotalExpense += amount
			}
		}
	}
	pl.NetProfit = pl.TotalIncome - pl.TotalExpense
	return pl
}

func (s *AccountingService) sumByAccountBetween(model interface{}, dateColumn string, from, to time.Time) (map[uint]float64, error) {
	type row struct {
		AccountID uint
		Total     float64
	}
	var rows []row
	err := s.DB.Model(model).
		Select("account_id, SUM(amount) AS total").
		Where(dateColumn+" >= ? AND "+dateColumn+" <= ?", from, to).
		Group("account_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[uint]float64, len(rows))
	for _, r := range rows {
		out[r.AccountID] = r.Total
	}
	return out, nil
}

func (s *AccountingService) ProfitLoss(from, to time.Time) (*ProfitLoss, error) {
	accounts, err := s.GetAccounts()
	if err != nil {
		return nil, err
	}
	sales, err := s.sumByAccountBetween(&models.Sale{}, "sale_date", from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate sales: %w", err)
	}
	expenses, err := s.sumByAccountBetween(&models.Expense{}, "expense_date", from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate expenses: %w", err)
	}
	pl := BuildProfitLoss(from, to, accounts, sales, expenses)
	return &pl, nil
}

// BuildBalanceSheet lists asset/liability/equity balances as of a date.
// Cash movement (sales less expenses) lands on the first asset account and
// retained earnings go to equity, which keeps the two sides in agreement
// without a journal.
func BuildBalanceSheet(asOf time.Time, accounts []models.Account, totalSales, totalExpenses float64) BalanceSheet {
	bs := BalanceSheet{AsOf: asOf}
	cashApplied := false
	for _, a := range accounts {
		line := ProfitLossLine{AccountCode: a.Code, AccountName: a.Name, Amount: a.OpeningBalance}
		switch a.Type {
		case models.AccountTypeAsset:
			if !cashApplied {
				line.Amount += totalSales - totalExpenses
				cashApplied = true
			}
			bs.Assets = append(bs.Assets, line)
			bs.TotalAssets += line.Amount
		case models.AccountTypeLiability:
			bs.Liabilities = append(bs.Liabilities, line)
			bs.TotalLiabilities += line.Amount
		case models.AccountTypeEquity:
			bs.Equity = append(bs.Equity, line)
			bs.TotalEquity += line.Amount
		}
	}
	retained := totalSales - totalExpenses
	if retained != 0 {
		bs.Equity = append(bs.Equity, ProfitLossLine{AccountCode: "", AccountName: "Retained Earnings", Amount: retained})
		bs.TotalEquity += retained
	}
	return bs
}

func (s *AccountingService) BalanceSheet(asOf time.Time) (*BalanceSheet, error) {
	accounts, err := s.GetAccounts()
	if err != nil {
		return nil, err
	}
	var totalSales, totalExpenses float64
	if err := s.DB.Model(&models.Sale{}).
		Where("sale_date <= ?", asOf).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&totalSales).Error; err != nil {
		return nil, fmt.Errorf("failed to total sales: %w", err)
	}
	if err := s.DB.Model(&models.Expense{}).
		Where("expense_date <= ?", asOf).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&totalExpenses).Error; err != nil {
		return nil, fmt.Errorf("failed to total expenses: %w", err)
	}
	bs := BuildBalanceSheet(asOf, accounts, totalSales, totalExpenses)
	return &bs, nil
}
