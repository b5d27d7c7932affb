package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "moneybot/internal/errors"
	"moneybot/internal/ledger"
)

// CurrencyHandler serves currency reference data.
type CurrencyHandler struct {
	ledger ledger.Ledger
}

// NewCurrencyHandler creates a new CurrencyHandler.
func NewCurrencyHandler(l ledger.Ledger) *CurrencyHandler {
	return &CurrencyHandler{ledger: l}
}

// ListCurrencies returns every known currency.
// @Summary     List currencies
// @Tags        currencies
// @Produce     json
// @Security    ApiKeyAuth
// @Success     200 {object} map[string][]models.Currency "Currencies"
// @Router      /currencies [get]
func (h *CurrencyHandler) ListCurrencies(c *gin.Context) {
	currencies, err := h.ledger.ListCurrencies(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"currencies": currencies})
}

// SearchCurrency resolves a code or free-text name to one currency.
// @Summary     Find a currency
// @Description Exact ISO code first, then the closest "ISO:Name" match
// @Tags        currencies
// @Produce     json
// @Security    ApiKeyAuth
// @Param       q query string true "Code or name, e.g. usd or dollar"
// @Success     200 {object} map[string]models.Currency "Currency"
// @Failure     400 {object} ErrorResponse "Missing query"
// @Failure     404 {object} ErrorResponse "No confident match"
// @Router      /currencies/search [get]
func (h *CurrencyHandler) SearchCurrency(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "q is required"))
		return
	}

	currency, err := h.ledger.FindCurrency(c.Request.Context(), q)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"currency": currency})
}
