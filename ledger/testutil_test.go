package ledger

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"belcit-backend/models"
)

// testSetup is a fully seeded in-memory ledger: system accounts, a trader
// with their own receivable account, payment methods and priced line items.
type testSetup struct {
	DB       *gorm.DB
	Service  *Service
	Customer models.Customer

	CashAccount     models.ControlAccount
	BankAccount     models.ControlAccount
	AccrualsAccount models.ControlAccount
	TraderAccount   models.ControlAccount
	RentRevenue     models.ControlAccount
	ParkingRevenue  models.ControlAccount
	CreditNotesAcct models.ControlAccount

	RentItem    models.LineItem
	ParkingItem models.LineItem
}

func newTestSetup(t *testing.T) *testSetup {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// A fresh in-memory DB per connection; keep the pool at one so every
	// query sees the same database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&models.ControlAccount{},
		&models.Transaction{},
		&models.Customer{},
		&models.LineItem{},
		&models.Bill{},
		&models.Payment{},
		&models.PaymentMethod{},
		&models.CustomerPrepayment{},
		&models.RefCounter{},
		&models.Transfer{},
		&models.CreditNote{},
		&models.Ticket{},
	)
	require.NoError(t, err)

	s := &testSetup{DB: db}

	account := func(code, name string, accountType models.AccountType) models.ControlAccount {
		acc := models.ControlAccount{Code: code, AccountName: name, AccountType: accountType, IsSystem: true}
		require.NoError(t, db.Create(&acc).Error)
		return acc
	}
	s.CashAccount = account(CodeCashOnHand, "Cash on Hand", models.AccountTypeAsset)
	s.BankAccount = account("1010", "Bank Account", models.AccountTypeAsset)
	s.AccrualsAccount = account(CodeCustomerPrepayments, "Customer Prepayments", models.AccountTypeLiability)
	s.TraderAccount = account("1100-0001", "AR Test Trader", models.AccountTypeAsset)
	s.RentRevenue = account("3002", "Rent Revenue", models.AccountTypeIncome)
	s.ParkingRevenue = account("3000", "Parking Revenue", models.AccountTypeIncome)
	s.CreditNotesAcct = account(CodeCreditNotesIssued, "Credit Notes Issued", models.AccountTypeContraIncome)

	s.Customer = models.Customer{
		FirstName:        "Test",
		LastName:         "Trader",
		CustomerType:     models.CustomerTrader,
		ControlAccountId: s.TraderAccount.Id,
	}
	require.NoError(t, db.Create(&s.Customer).Error)

	methods := []models.PaymentMethod{
		{Name: "cash", Label: "Cash", ControlAccountId: s.CashAccount.Id, Category: "cash", IsActive: true},
		{Name: "ecocash", Label: "EcoCash", ControlAccountId: s.BankAccount.Id, IsDeferred: true, Category: "mobile-money", IsActive: true},
	}
	require.NoError(t, db.Create(&methods).Error)

	s.RentItem = models.LineItem{
		Name:      "Monthly Stall Rent",
		Quantity:  1,
		Amount:    decimal.NewFromInt(50),
		Unit:      "month",
		AccountId: s.RentRevenue.Id,
		Status:    "active",
	}
	require.NoError(t, db.Create(&s.RentItem).Error)

	s.ParkingItem = models.LineItem{
		Name:      "Parking",
		Quantity:  1,
		Amount:    decimal.NewFromInt(2),
		Unit:      "use",
		AccountId: s.ParkingRevenue.Id,
		Status:    "active",
	}
	require.NoError(t, db.Create(&s.ParkingItem).Error)

	accounts, err := ResolveAccounts(db)
	require.NoError(t, err)
	s.Service = New(accounts)

	return s
}

// rentBill issues a default rent bill for the seeded trader.
func (s *testSetup) rentBill(t *testing.T) *models.Bill {
	t.Helper()
	bill, err := s.Service.GenerateBill(s.DB, GenerateBillInput{
		LineItemIds: []string{s.RentItem.Id},
		CustomerId:  s.Customer.Id,
		Type:        models.PayTypeRent,
	})
	require.NoError(t, err)
	return bill
}

func (s *testSetup) reloadAccount(t *testing.T, id string) models.ControlAccount {
	t.Helper()
	var acc models.ControlAccount
	require.NoError(t, s.DB.First(&acc, "id = ?", id).Error)
	return acc
}

func (s *testSetup) reloadBill(t *testing.T, id string) models.Bill {
	t.Helper()
	var bill models.Bill
	require.NoError(t, s.DB.First(&bill, "id = ?", id).Error)
	return bill
}

func (s *testSetup) reloadCustomer(t *testing.T) models.Customer {
	t.Helper()
	var customer models.Customer
	require.NoError(t, s.DB.First(&customer, "id = ?", s.Customer.Id).Error)
	return customer
}

func (s *testSetup) transactionCount(t *testing.T) int64 {
	t.Helper()
	var count int64
	require.NoError(t, s.DB.Model(&models.Transaction{}).Count(&count).Error)
	return count
}

// requireBalancedBooks asserts the grand debit/credit totals agree across
// all control accounts.
func (s *testSetup) requireBalancedBooks(t *testing.T) {
	t.Helper()
	report, err := s.Service.TrialBalance(s.DB)
	require.NoError(t, err)
	require.True(t, report.Balanced,
		"books unbalanced: debit %s vs credit %s", report.TotalDebit, report.TotalCredit)
}

func dec(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}
