package controllers

import "belcit-backend/ledger"

// Ledger is the accounting core shared by all handlers. Set once at startup.
var Ledger *ledger.Service

func Init(s *ledger.Service) {
	Ledger = s
}

// pagination reads page/limit query params with sane bounds.
func pagination(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 200 {
		limit = 20
	}
	return page, limit
}
