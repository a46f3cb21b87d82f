package services

import (
	"strings"
	"testing"
	"time"

	"rental-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAccounts() []models.Account {
	return []models.Account{
		{ID: 1, Code: "1000", Name: "Cash", Type: models.AccountTypeAsset, OpeningBalance: 500},
		{ID: 2, Code: "2000", Name: "Deposits Held", Type: models.AccountTypeLiability, OpeningBalance: 200},
		{ID: 3, Code: "3000", Name: "Owner Capital", Type: models.AccountTypeEquity, OpeningBalance: 300},
		{ID: 4, Code: "4000", Name: "Rental Income", Type: models.AccountTypeIncome},
		{ID: 5, Code: "5000", Name: "Maintenance", Type: models.AccountTypeExpense},
		{ID: 6, Code: "5100", Name: "Fuel", Type: models.AccountTypeExpense},
	}
}

func TestBuildTrialBalanceSidesAndTotals(t *testing.T) {
	asOf := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)
	sales := map[uint]float64{4: 1000}
	expenses := map[uint]float64{5: 150, 6: 50}

	tb := BuildTrialBalance(asOf, testAccounts(), sales, expenses)

	rowByCode := map[string]TrialBalanceRow{}
	for _, row := range tb.Rows {
		rowByCode[row.AccountCode] = row
	}

	// Opening balances sit on the natural side of the account type.
	assert.Equal(t, 500.0, rowByCode["1000"].Debit)
	assert.Equal(t, 200.0, rowByCode["2000"].Credit)
	assert.Equal(t, 300.0, rowByCode["3000"].Credit)

	// Activity: income credits, expenses debit.
	assert.Equal(t, 1000.0, rowByCode["4000"].Credit)
	assert.Equal(t, 150.0, rowByCode["5000"].Debit)
	assert.Equal(t, 50.0, rowByCode["5100"].Debit)

	assert.Equal(t, 700.0, tb.TotalDebit)
	assert.Equal(t, 1500.0, tb.TotalCredit)
}

func TestBuildTrialBalanceSkipsZeroRows(t *testing.T) {
	asOf := time.Now()
	accounts := []models.Account{
		{ID: 1, Code: "4000", Name: "Rental Income", Type: models.AccountTypeIncome},
		{ID: 2, Code: "5000", Name: "Maintenance", Type: models.AccountTypeExpense},
	}

	tb := BuildTrialBalance(asOf, accounts, map[uint]float64{1: 250}, nil)

	require.Len(t, tb.Rows, 1)
	assert.Equal(t, "4000", tb.Rows[0].AccountCode)
}

func TestBuildProfitLoss(t *testing.T) {
	from := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)
	sales := map[uint]float64{4: 1200}
	expenses := map[uint]float64{5: 300, 6: 100}

	pl := BuildProfitLoss(from, to, testAccounts(), sales, expenses)

	require.Len(t, pl.Income, 1)
	require.Len(t, pl.Expenses, 2)
	assert.Equal(t, 1200.0, pl.TotalIncome)
	assert.Equal(t, 400.0, pl.TotalExpense)
	assert.Equal(t, 800.0, pl.NetProfit)
}

func TestBuildProfitLossNegativeNet(t *testing.T) {
	pl := BuildProfitLoss(time.Now(), time.Now(), testAccounts(),
		map[uint]float64{4: 100}, map[uint]float64{5: 250})

	assert.Equal(t, -150.0, pl.NetProfit)
}

func TestBuildBalanceSheetBalances(t *testing.T) {
	asOf := time.Now()
	bs := BuildBalanceSheet(asOf, testAccounts(), 1000, 400)

	// Cash movement lands on the first asset account.
	require.NotEmpty(t, bs.Assets)
	assert.Equal(t, "1000", bs.Assets[0].AccountCode)
	assert.Equal(t, 1100.0, bs.Assets[0].Amount)

	// Retained earnings close the equation.
	last := bs.Equity[len(bs.Equity)-1]
	assert.Equal(t, "Retained Earnings", last.AccountName)
	assert.Equal(t, 600.0, last.Amount)

	assert.Equal(t, bs.TotalAssets, bs.TotalLiabilities+bs.TotalEquity)
}

func TestBuildBalanceSheetNoActivity(t *testing.T) {
	bs := BuildBalanceSheet(time.Now(), testAccounts(), 0, 0)

	assert.Equal(t, 500.0, bs.TotalAssets)
	assert.Equal(t, 200.0, bs.TotalLiabilities)
	assert.Equal(t, 300.0, bs.TotalEquity)
	for _, line := range bs.Equity {
		assert.NotEqual(t, "Retained Earnings", line.AccountName)
	}
}

func TestNewVoucherNo(t *testing.T) {
	v := newVoucherNo("SAL")
	assert.True(t, strings.HasPrefix(v, "SAL-"))
	assert.Len(t, v, len("SAL-")+8)
	assert.Equal(t, strings.ToUpper(v), v)

	assert.NotEqual(t, newVoucherNo("SAL"), newVoucherNo("SAL"))
}
