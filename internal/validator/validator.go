// Package validator registers the ledger's custom validations with Gin's
// binding engine and exposes the same rules for validating service inputs.
package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	apperrors "moneybot/internal/errors"
	"moneybot/internal/models"
)

const maxCurrencyQuery = 64

var (
	standalone *validator.Validate
	once       sync.Once
)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		configure(v)
	}
}

// Struct validates s using `validate` tags and returns an ErrValidation
// describing the first failing field.
func Struct(s any) error {
	once.Do(func() {
		standalone = validator.New(validator.WithRequiredStructEnabled())
		standalone.RegisterTagNameFunc(jsonName)
		configure(standalone)
	})

	err := standalone.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return apperrors.WithMessage(apperrors.ErrValidation, fmt.Sprintf("%s failed the %q rule", fe.Field(), fe.Tag()))
	}
	return apperrors.Wrap(apperrors.ErrValidation, err)
}

func configure(v *validator.Validate) {
	v.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{})
	_ = v.RegisterValidation("transaction_type", validateTransactionType)
	_ = v.RegisterValidation("currency_query", validateCurrencyQuery)
}

// decimalValue lets numeric tags such as required and gt apply to decimals.
func decimalValue(field reflect.Value) interface{} {
	if d, ok := field.Interface().(decimal.Decimal); ok {
		f, _ := d.Float64()
		return f
	}
	return nil
}

func jsonName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "" || name == "-" {
		return fld.Name
	}
	return name
}

func validateTransactionType(fl validator.FieldLevel) bool {
	return models.TransactionType(fl.Field().String()).Valid()
}

// validateCurrencyQuery accepts an ISO code or a short free-text currency name.
func validateCurrencyQuery(fl validator.FieldLevel) bool {
	q := strings.TrimSpace(fl.Field().String())
	return q != "" && utf8.RuneCountInString(q) <= maxCurrencyQuery
}
