package database

import (
	"fmt"

	"gorm.io/gorm"

	"belcit-backend/models"
)

// Migrate applies (idempotent) schema migrations:
// - AutoMigrate (tables/columns)
// - Money column types (NUMERIC(12,2))
// - Basic CHECK constraints guarding the ledger invariants
func Migrate() error {
	return DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.AutoMigrate(
			&models.ControlAccount{},
			&models.Transaction{},
			&models.Customer{},
			&models.LineItem{},
			&models.Bill{},
			&models.CreditNote{},
			&models.Payment{},
			&models.CustomerPrepayment{},
			&models.PaymentMethod{},
			&models.RefCounter{},
			&models.Transfer{},
			&models.Ticket{},
			&models.Staff{},
			&models.IdempotencyKey{},
		); err != nil {
			return fmt.Errorf("automigrate failed: %w", err)
		}

		// --- Enforce money columns as NUMERIC(12,2) (idempotent ALTERs) ---
		alters := []string{
			`ALTER TABLE control_accounts      ALTER COLUMN total_debit       TYPE numeric(12,2)`,
			`ALTER TABLE control_accounts      ALTER COLUMN total_credit      TYPE numeric(12,2)`,
			`ALTER TABLE transactions          ALTER COLUMN debit             TYPE numeric(12,2)`,
			`ALTER TABLE transactions          ALTER COLUMN credit            TYPE numeric(12,2)`,
			`ALTER TABLE bills                 ALTER COLUMN amount            TYPE numeric(12,2)`,
			`ALTER TABLE bills                 ALTER COLUMN outstanding       TYPE numeric(12,2)`,
			`ALTER TABLE credit_notes          ALTER COLUMN amount            TYPE numeric(12,2)`,
			`ALTER TABLE credit_notes          ALTER COLUMN outstanding       TYPE numeric(12,2)`,
			`ALTER TABLE payments              ALTER COLUMN amount            TYPE numeric(12,2)`,
			`ALTER TABLE customer_prepayments  ALTER COLUMN amount            TYPE numeric(12,2)`,
			`ALTER TABLE customer_prepayments  ALTER COLUMN remaining_balance TYPE numeric(12,2)`,
			`ALTER TABLE customers             ALTER COLUMN dc_balance        TYPE numeric(12,2)`,
			`ALTER TABLE transfers             ALTER COLUMN amount            TYPE numeric(12,2)`,
			`ALTER TABLE line_items            ALTER COLUMN amount            TYPE numeric(12,2)`,
		}
		for _, stmt := range alters {
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("money type migration failed on: %s - %w", stmt, err)
			}
		}

		// --- CHECK constraints guarding ledger invariants (idempotent) ---
		checks := []struct{ table, name, expr string }{
			// One leg carries exactly one positive side.
			{"transactions", "chk_transactions_single_side",
				`(debit > 0 AND credit = 0) OR (credit > 0 AND debit = 0)`},
			// Outstanding stays within the original amount.
			{"bills", "chk_bills_outstanding_bounds",
				`outstanding >= 0 AND outstanding <= amount`},
			{"credit_notes", "chk_credit_notes_outstanding_bounds",
				`outstanding >= 0 AND outstanding <= amount`},
			// Running totals never go negative.
			{"control_accounts", "chk_control_accounts_totals_nonneg",
				`total_debit >= 0 AND total_credit >= 0`},
			// Prepayment credit is only ever consumed.
			{"customer_prepayments", "chk_customer_prepayments_balance_bounds",
				`remaining_balance >= 0 AND remaining_balance <= amount`},
		}
		for _, c := range checks {
			stmt := fmt.Sprintf(`
DO $$
BEGIN
	IF NOT EXISTS (
		SELECT 1 FROM pg_constraint
		WHERE conrelid = '%s'::regclass
		  AND conname  = '%s'
	) THEN
		ALTER TABLE %s
		ADD CONSTRAINT %s
		CHECK (%s);
	END IF;
END $$;`, c.table, c.name, c.table, c.name, c.expr)
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("check constraint migration failed on %s: %w", c.name, err)
			}
		}

		return nil
	})
}
