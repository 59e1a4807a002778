package routes

import (
	"github.com/gofiber/fiber/v2"

	"belcit-backend/controllers"
	"belcit-backend/middlewares"
)

// Register wires all HTTP routes.
func Register(app *fiber.App) {
	api := app.Group("/api")

	// Public auth endpoints
	api.Post("/login", controllers.Login)
	api.Post("/logout", controllers.Logout)

	// Protected endpoints (JWT auth)
	protected := api.Group("")
	protected.Use(middlewares.IsAuthenticatedHeader())

	// Idempotency guard FIRST (not tied to request TX)
	protected.Use(middlewares.Idempotency())

	// Then per-request transaction (commits/rolls back around the handler)
	protected.Use(middlewares.RequestTx())

	// Staff
	protected.Post("/staff", middlewares.RequireRole("admin"), controllers.Register)
	protected.Get("/me", controllers.Me)

	// Customers
	protected.Post("/customer", controllers.CreateCustomer)
	protected.Get("/customers", controllers.GetCustomers)
	protected.Get("/customer/:id", controllers.GetCustomer)
	protected.Put("/customer/:id", controllers.UpdateCustomer)

	// Line items
	protected.Post("/line-item", middlewares.RequireRole("admin", "manager"), controllers.CreateLineItem)
	protected.Get("/line-items", controllers.GetLineItems)
	protected.Put("/line-items/:id", middlewares.RequireRole("admin", "manager"), controllers.UpdateLineItem)

	// Bills
	protected.Post("/bill", controllers.CreateBill)
	protected.Get("/bills", controllers.GetBills)
	protected.Get("/bill/:id", controllers.GetBill)
	protected.Post("/bills/:id/apply-prepayments", controllers.ApplyPrepayments)

	// Payments
	protected.Post("/payment", controllers.CreatePayment)
	protected.Get("/payments", controllers.GetPayments)
	protected.Get("/payment/:id", controllers.GetPayment)
	protected.Post("/payments/:id/poll", controllers.PollPayment)
	protected.Post("/payments/:id/reverse", middlewares.RequireRole("admin", "manager"), controllers.ReversePayment)
	protected.Get("/prepayments", controllers.GetPrepayments)

	// Payment methods
	protected.Post("/payment-method", middlewares.RequireRole("admin"), controllers.CreatePaymentMethod)
	protected.Get("/payment-methods", controllers.GetPaymentMethods)
	protected.Put("/payment-methods/:id", middlewares.RequireRole("admin"), controllers.UpdatePaymentMethod)

	// Tickets
	protected.Post("/ticket/check-in", controllers.CheckInTicket)
	protected.Get("/tickets", controllers.GetTickets)
	protected.Get("/ticket/:id", controllers.GetTicket)

	// Credit notes
	protected.Post("/credit-note", middlewares.RequireRole("admin", "manager"), controllers.CreateCreditNote)
	protected.Get("/credit-notes", controllers.GetCreditNotes)
	protected.Get("/credit-note/:id", controllers.GetCreditNote)

	// Accounts and reporting
	protected.Post("/control-account", middlewares.RequireRole("admin"), controllers.CreateControlAccount)
	protected.Get("/control-accounts", controllers.GetControlAccounts)
	protected.Get("/reports/trial-balance", controllers.GetTrialBalance)
	protected.Get("/reports/ledger-summary", controllers.GetLedgerSummary)
	protected.Post("/transfer", middlewares.RequireRole("admin", "manager"), controllers.TransferToAccount)
}
