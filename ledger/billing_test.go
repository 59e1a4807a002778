package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"belcit-backend/models"
)

func TestGenerateBill(t *testing.T) {
	s := newTestSetup(t)

	bill, err := s.Service.GenerateBill(s.DB, GenerateBillInput{
		LineItemIds: []string{s.RentItem.Id},
		CustomerId:  s.Customer.Id,
		Type:        models.PayTypeRent,
		Description: "October stall rent",
	})
	require.NoError(t, err)

	assert.True(t, bill.Amount.Equal(dec("50")))
	assert.True(t, bill.Outstanding.Equal(bill.Amount))
	assert.Equal(t, models.BillUnpaid, bill.Status)
	assert.Contains(t, bill.BillNumber, "MKB-")

	// Rent is due a week out.
	wantDue := time.Now().AddDate(0, 0, 7)
	assert.WithinDuration(t, wantDue, bill.DueDate, time.Minute)

	// Snapshot frozen onto the bill.
	snapshot := bill.LineItems.Data()
	require.Len(t, snapshot, 1)
	assert.Equal(t, s.RentItem.Id, snapshot[0].LineItemId)
	assert.True(t, snapshot[0].Amount.Equal(dec("50")))

	// Issuance journal: debit trader AR, credit rent revenue.
	trader := s.reloadAccount(t, s.TraderAccount.Id)
	assert.True(t, trader.TotalDebit.Equal(dec("50")))
	revenue := s.reloadAccount(t, s.RentRevenue.Id)
	assert.True(t, revenue.TotalCredit.Equal(dec("50")))

	customer := s.reloadCustomer(t)
	assert.True(t, customer.DcBalance.Equal(dec("50")))

	s.requireBalancedBooks(t)
}

func TestGenerateBillMultipleLineItems(t *testing.T) {
	s := newTestSetup(t)

	bill, err := s.Service.GenerateBill(s.DB, GenerateBillInput{
		LineItemIds: []string{s.RentItem.Id, s.ParkingItem.Id},
		CustomerId:  s.Customer.Id,
		Type:        models.PayTypeOther,
	})
	require.NoError(t, err)

	assert.True(t, bill.Amount.Equal(dec("52")), "50 rent + 2 parking, got %s", bill.Amount)

	// One debit to the customer, one credit per line item.
	var legs []models.Transaction
	require.NoError(t, s.DB.Where("reference_id = ?", bill.Id).Find(&legs).Error)
	assert.Len(t, legs, 3)

	s.requireBalancedBooks(t)
}

func TestGenerateBillDueDateDefaults(t *testing.T) {
	s := newTestSetup(t)

	cases := []struct {
		billType models.PaymentType
		days     int
	}{
		{models.PayTypeRent, 7},
		{models.PayTypeFine, 0},
		{models.PayTypeParking, 0},
		{models.PayTypeToilet, 0},
		{models.PayTypeOther, 30},
		{models.PayTypeDeposit, 30},
	}
	for _, tc := range cases {
		got := dueDateFor(tc.billType, time.Now())
		assert.WithinDuration(t, time.Now().AddDate(0, 0, tc.days), got, time.Minute,
			"due date for %s", tc.billType)
	}

	// An explicit due date overrides the default.
	due := time.Now().AddDate(0, 1, 0).Truncate(time.Second)
	bill, err := s.Service.GenerateBill(s.DB, GenerateBillInput{
		LineItemIds: []string{s.RentItem.Id},
		CustomerId:  s.Customer.Id,
		Type:        models.PayTypeRent,
		DueDate:     &due,
	})
	require.NoError(t, err)
	assert.WithinDuration(t, due, bill.DueDate, time.Second)
}

func TestGenerateBillValidation(t *testing.T) {
	s := newTestSetup(t)

	var validation *ValidationError
	var notFound *NotFoundError

	_, err := s.Service.GenerateBill(s.DB, GenerateBillInput{
		LineItemIds: []string{s.RentItem.Id},
		CustomerId:  s.Customer.Id,
		Type:        "subscription",
	})
	require.ErrorAs(t, err, &validation)

	_, err = s.Service.GenerateBill(s.DB, GenerateBillInput{
		CustomerId: s.Customer.Id,
		Type:       models.PayTypeRent,
	})
	require.ErrorAs(t, err, &validation)

	_, err = s.Service.GenerateBill(s.DB, GenerateBillInput{
		LineItemIds: []string{"missing-item"},
		CustomerId:  s.Customer.Id,
		Type:        models.PayTypeRent,
	})
	require.ErrorAs(t, err, &notFound)

	_, err = s.Service.GenerateBill(s.DB, GenerateBillInput{
		LineItemIds: []string{s.RentItem.Id},
		CustomerId:  "missing-customer",
		Type:        models.PayTypeRent,
	})
	require.ErrorAs(t, err, &notFound)
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, models.BillPaid, statusFor(dec("0"), dec("50")))
	assert.Equal(t, models.BillUnpaid, statusFor(dec("50"), dec("50")))
	assert.Equal(t, models.BillPartiallyPaid, statusFor(dec("20"), dec("50")))
}
