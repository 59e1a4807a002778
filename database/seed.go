package database

import (
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"belcit-backend/models"
)

// systemAccounts is the chart of accounts installed on first run. Codes are
// stable; the ledger resolves its role accounts (cash on hand, customer
// prepayments) from them at startup.
var systemAccounts = []models.ControlAccount{
	{Code: "1000", AccountName: "Cash on Hand", AccountType: models.AccountTypeAsset, IsSystem: true},
	{Code: "1001", AccountName: "Petty Cash", AccountType: models.AccountTypeAsset, IsSystem: true},
	{Code: "1010", AccountName: "Bank Account", AccountType: models.AccountTypeAsset, IsSystem: true},
	{Code: "1100", AccountName: "Accounts Receivable", AccountType: models.AccountTypeAsset, IsSystem: true},
	{Code: "1200", AccountName: "Deposits Receivable", AccountType: models.AccountTypeAsset, IsSystem: true},
	{Code: "2000", AccountName: "Accounts Payable", AccountType: models.AccountTypeLiability, IsSystem: true},
	{Code: "2100", AccountName: "Deposits Payable", AccountType: models.AccountTypeLiability, IsSystem: true},
	{Code: "2200", AccountName: "Customer Prepayments", AccountType: models.AccountTypeLiability, IsSystem: true},
	{Code: "3000", AccountName: "Parking Revenue", AccountType: models.AccountTypeIncome, IsSystem: true},
	{Code: "3001", AccountName: "Toilet Revenue", AccountType: models.AccountTypeIncome, IsSystem: true},
	{Code: "3002", AccountName: "Rent Revenue", AccountType: models.AccountTypeIncome, IsSystem: true},
	{Code: "3003", AccountName: "Fine Revenue", AccountType: models.AccountTypeIncome, IsSystem: true},
	{Code: "3100", AccountName: "Other Income", AccountType: models.AccountTypeIncome, IsSystem: true},
	{Code: "4000", AccountName: "Bad Debts Expense", AccountType: models.AccountTypeExpense, IsSystem: true},
	{Code: "4001", AccountName: "Repairs & Maintenance", AccountType: models.AccountTypeExpense, IsSystem: true},
	{Code: "6000", AccountName: "Credit Notes Issued", AccountType: models.AccountTypeContraIncome, IsSystem: true},
}

// Seed installs the system chart of accounts, default payment methods and a
// bootstrap admin user. It is idempotent: existing rows are left alone.
func Seed() error {
	return DB.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.ControlAccount{}).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			log.Info().Msg("control accounts already exist, skipping account seed")
		} else {
			accounts := make([]models.ControlAccount, len(systemAccounts))
			copy(accounts, systemAccounts)
			if err := tx.Create(&accounts).Error; err != nil {
				return err
			}
			log.Info().Int("accounts", len(accounts)).Msg("seeded control accounts")
		}

		if err := seedPaymentMethods(tx); err != nil {
			return err
		}
		return seedAdmin(tx)
	})
}

func seedPaymentMethods(tx *gorm.DB) error {
	var count int64
	if err := tx.Model(&models.PaymentMethod{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	accountId := func(code string) string {
		var acc models.ControlAccount
		if err := tx.Where("code = ?", code).First(&acc).Error; err != nil {
			return ""
		}
		return acc.Id
	}

	methods := []models.PaymentMethod{
		{Name: "cash", Label: "Cash", ControlAccountId: accountId("1000"), Category: "cash", IsActive: true},
		{Name: "bank-transfer", Label: "Bank Transfer", ControlAccountId: accountId("1010"), Category: "bank-transfer", IsActive: true},
		{Name: "ecocash", Label: "EcoCash", ControlAccountId: accountId("1010"), IsDeferred: true, Category: "mobile-money", IsActive: true},
		{Name: "innbucks", Label: "InnBucks", ControlAccountId: accountId("1010"), IsDeferred: true, Category: "mobile-money", IsActive: true},
	}
	if err := tx.Create(&methods).Error; err != nil {
		return err
	}
	log.Info().Int("methods", len(methods)).Msg("seeded payment methods")
	return nil
}

func seedAdmin(tx *gorm.DB) error {
	var count int64
	if err := tx.Model(&models.Staff{}).Where("username = ?", "admin").Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	admin := models.Staff{
		FirstName: "Admin",
		LastName:  "User",
		Username:  "admin",
		Email:     "admin@example.com",
		Role:      "admin",
		Status:    "active",
	}
	admin.SetPassword("admin123")
	if err := tx.Create(&admin).Error; err != nil {
		return err
	}
	log.Info().Msg("seeded admin user")
	return nil
}
