package handlers

import (
	"sync"

	"github.com/SscSPs/arap_ledger/internal/core/domain"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerValidatorsOnce sync.Once

// RegisterValidators installs the ledger's custom binding tags on gin's validator.
func RegisterValidators() {
	registerValidatorsOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = v.RegisterValidation("ledgerkind", validateLedgerKind)
	})
}

// validateLedgerKind accepts "debtors", "creditors" and their singular or
// upper-case forms.
func validateLedgerKind(fl validator.FieldLevel) bool {
	_, err := domain.ParseAccountKind(fl.Field().String())
	return err == nil
}
