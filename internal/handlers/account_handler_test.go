package handlers

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "moneybot/internal/errors"
	"moneybot/internal/filter"
	"moneybot/internal/models"
	"moneybot/internal/pagination"
	"moneybot/internal/services"
)

func setupAccountRouter(handler *AccountHandler) *gin.Engine {
	r := gin.New()
	users := r.Group("/users/:user_id")
	users.POST("/accounts", handler.CreateAccount)
	users.GET("/accounts", handler.ListAccounts)
	users.POST("/accounts/search", handler.SearchAccounts)
	users.GET("/accounts/:account_id", handler.GetAccount)
	users.PATCH("/accounts/:account_id", handler.UpdateAccount)
	users.POST("/accounts/:account_id/deactivate", handler.DeactivateAccount)
	users.GET("/balance", handler.GetUserBalance)
	users.GET("/balance/verify", handler.VerifyBalances)
	return r
}

func TestAccountHandler_CreateAccount(t *testing.T) {
	t.Run("returns 201 on success", func(t *testing.T) {
		var got services.CreateAccountInput
		handler := NewAccountHandler(&mockLedger{
			createAccountFn: func(in services.CreateAccountInput) (*models.Account, error) {
				got = in
				return &models.Account{
					Base:     models.Base{ID: 3},
					UserID:   in.UserID,
					Name:     in.Name,
					Currency: "USD",
					Balance:  in.InitialBalance,
					IsActive: true,
				}, nil
			},
		})
		r := setupAccountRouter(handler)

		rec := doRequest(r, "POST", "/users/1/accounts",
			`{"name":"Wallet","currency":"dollar","initial_balance":"12.50"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if got.UserID != 1 || got.Currency != "dollar" || !got.InitialBalance.Equal(decimal.RequireFromString("12.5")) {
			t.Errorf("unexpected input: %+v", got)
		}
		acct := parseJSON(t, rec)["account"].(map[string]interface{})
		if acct["name"] != "Wallet" {
			t.Errorf("expected Wallet, got %v", acct["name"])
		}
	})

	t.Run("returns 400 on missing name", func(t *testing.T) {
		r := setupAccountRouter(NewAccountHandler(&mockLedger{}))

		rec := doRequest(r, "POST", "/users/1/accounts", `{"currency":"USD"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("returns 400 on invalid user id", func(t *testing.T) {
		r := setupAccountRouter(NewAccountHandler(&mockLedger{}))

		rec := doRequest(r, "POST", "/users/0/accounts", `{"name":"Wallet","currency":"USD"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("returns 409 on duplicate name", func(t *testing.T) {
		handler := NewAccountHandler(&mockLedger{
			createAccountFn: func(services.CreateAccountInput) (*models.Account, error) {
				return nil, apperrors.ErrAccountAlreadyExists
			},
		})
		r := setupAccountRouter(handler)

		rec := doRequest(r, "POST", "/users/1/accounts", `{"name":"Wallet","currency":"USD"}`)

		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "ACCOUNT_ALREADY_EXISTS")
	})
}

func TestAccountHandler_ListAccounts(t *testing.T) {
	t.Run("parses limit offset and filter", func(t *testing.T) {
		var gotFilter filter.Expression
		var gotPage pagination.LimitOffset
		handler := NewAccountHandler(&mockLedger{
			listAccountsFn: func(userID int64, f filter.Expression, page pagination.LimitOffset) ([]models.Account, error) {
				gotFilter, gotPage = f, page
				return []models.Account{{Name: "Wallet"}}, nil
			},
		})
		r := setupAccountRouter(handler)

		q := url.QueryEscape(`[{"field":"currency","op":"==","value":"USD"}]`)
		rec := doRequest(r, "GET", "/users/1/accounts?limit=5&offset=10&filter="+q, "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotPage.Limit != 5 || gotPage.Offset != 10 {
			t.Errorf("unexpected page: %+v", gotPage)
		}
		if len(gotFilter.Children) != 1 || gotFilter.Children[0].Condition.Field != "currency" {
			t.Errorf("unexpected filter: %+v", gotFilter)
		}
		result := parseJSON(t, rec)
		if len(result["data"].([]interface{})) != 1 {
			t.Errorf("expected 1 account, got %v", result["data"])
		}
		if result["limit"] != float64(5) {
			t.Errorf("expected limit 5, got %v", result["limit"])
		}
	})

	t.Run("defaults the window and returns an empty list", func(t *testing.T) {
		var gotPage pagination.LimitOffset
		handler := NewAccountHandler(&mockLedger{
			listAccountsFn: func(_ int64, _ filter.Expression, page pagination.LimitOffset) ([]models.Account, error) {
				gotPage = page
				return nil, nil
			},
		})
		r := setupAccountRouter(handler)

		rec := doRequest(r, "GET", "/users/1/accounts", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if gotPage.Limit != pagination.DefaultLimit {
			t.Errorf("expected default limit, got %d", gotPage.Limit)
		}
		data, ok := parseJSON(t, rec)["data"].([]interface{})
		if !ok || len(data) != 0 {
			t.Errorf("expected empty data array, got %v", data)
		}
	})

	t.Run("returns 400 on limit above max", func(t *testing.T) {
		r := setupAccountRouter(NewAccountHandler(&mockLedger{}))

		rec := doRequest(r, "GET", "/users/1/accounts?limit=500", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("rejects an unknown operator", func(t *testing.T) {
		r := setupAccountRouter(NewAccountHandler(&mockLedger{}))

		q := url.QueryEscape(`[{"field":"name","op":"regex","value":"x"}]`)
		rec := doRequest(r, "GET", "/users/1/accounts?filter="+q, "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "FILTER_OPERATOR_NOT_ALLOWED")
	})

	t.Run("rejects malformed filter json", func(t *testing.T) {
		r := setupAccountRouter(NewAccountHandler(&mockLedger{}))

		rec := doRequest(r, "GET", "/users/1/accounts?filter="+url.QueryEscape("{oops"), "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})
}

func TestAccountHandler_SearchAccounts(t *testing.T) {
	t.Run("reads filter from body", func(t *testing.T) {
		var gotFilter filter.Expression
		var gotPage pagination.LimitOffset
		handler := NewAccountHandler(&mockLedger{
			listAccountsFn: func(_ int64, f filter.Expression, page pagination.LimitOffset) ([]models.Account, error) {
				gotFilter, gotPage = f, page
				return nil, nil
			},
		})
		r := setupAccountRouter(handler)

		rec := doRequest(r, "POST", "/users/1/accounts/search",
			`{"filter":{"or":[{"field":"name","op":"ilike","value":"%cash%"},{"field":"balance","op":">","value":100}]},"limit":20}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotFilter.Logic != filter.LogicOr || len(gotFilter.Children) != 2 {
			t.Errorf("unexpected filter: %+v", gotFilter)
		}
		if gotPage.Limit != 20 {
			t.Errorf("expected limit 20, got %d", gotPage.Limit)
		}
	})

	t.Run("accepts an empty body", func(t *testing.T) {
		called := false
		handler := NewAccountHandler(&mockLedger{
			listAccountsFn: func(_ int64, f filter.Expression, _ pagination.LimitOffset) ([]models.Account, error) {
				called = true
				if !f.IsEmpty() {
					t.Errorf("expected empty filter, got %+v", f)
				}
				return nil, nil
			},
		})
		r := setupAccountRouter(handler)

		rec := doRequest(r, "POST", "/users/1/accounts/search", "")

		if rec.Code != http.StatusOK || !called {
			t.Fatalf("expected 200 and a ledger call, got %d", rec.Code)
		}
	})

	t.Run("surfaces whitelist errors", func(t *testing.T) {
		handler := NewAccountHandler(&mockLedger{
			listAccountsFn: func(int64, filter.Expression, pagination.LimitOffset) ([]models.Account, error) {
				return nil, apperrors.ErrFilterFieldNotAllowed
			},
		})
		r := setupAccountRouter(handler)

		rec := doRequest(r, "POST", "/users/1/accounts/search", `{"filter":[{"field":"owner","op":"==","value":2}]}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "FILTER_FIELD_NOT_ALLOWED")
	})
}

func TestAccountHandler_GetAccount(t *testing.T) {
	t.Run("passes both ids", func(t *testing.T) {
		var gotUser, gotAccount int64
		handler := NewAccountHandler(&mockLedger{
			getAccountFn: func(userID, accountID int64) (*models.Account, error) {
				gotUser, gotAccount = userID, accountID
				return &models.Account{Base: models.Base{ID: accountID}}, nil
			},
		})
		r := setupAccountRouter(handler)

		rec := doRequest(r, "GET", "/users/4/accounts/9", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if gotUser != 4 || gotAccount != 9 {
			t.Errorf("expected user 4 account 9, got %d/%d", gotUser, gotAccount)
		}
	})

	t.Run("returns 400 on invalid account id", func(t *testing.T) {
		r := setupAccountRouter(NewAccountHandler(&mockLedger{}))

		rec := doRequest(r, "GET", "/users/4/accounts/abc", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 404 when not found", func(t *testing.T) {
		handler := NewAccountHandler(&mockLedger{
			getAccountFn: func(int64, int64) (*models.Account, error) {
				return nil, apperrors.ErrAccountNotFound
			},
		})
		r := setupAccountRouter(handler)

		rec := doRequest(r, "GET", "/users/4/accounts/9", "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "ACCOUNT_NOT_FOUND")
	})
}

func TestAccountHandler_UpdateAccount(t *testing.T) {
	t.Run("passes only provided fields", func(t *testing.T) {
		var got services.AccountUpdateFields
		handler := NewAccountHandler(&mockLedger{
			updateAccountFn: func(_, _ int64, fields services.AccountUpdateFields) (*models.Account, error) {
				got = fields
				return &models.Account{Name: *fields.Name}, nil
			},
		})
		r := setupAccountRouter(handler)

		rec := doRequest(r, "PATCH", "/users/1/accounts/2", `{"name":"Travel"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if got.Name == nil || *got.Name != "Travel" || got.Description != nil {
			t.Errorf("unexpected fields: %+v", got)
		}
	})

	t.Run("returns 400 on empty name", func(t *testing.T) {
		r := setupAccountRouter(NewAccountHandler(&mockLedger{}))

		rec := doRequest(r, "PATCH", "/users/1/accounts/2", `{"name":""}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestAccountHandler_DeactivateAccount(t *testing.T) {
	handler := NewAccountHandler(&mockLedger{
		deactivateAccountFn: func(_, accountID int64) (*models.Account, error) {
			return &models.Account{Base: models.Base{ID: accountID}, IsActive: false}, nil
		},
	})
	r := setupAccountRouter(handler)

	rec := doRequest(r, "POST", "/users/1/accounts/2/deactivate", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	acct := parseJSON(t, rec)["account"].(map[string]interface{})
	if acct["is_active"] != false {
		t.Errorf("expected inactive account, got %v", acct["is_active"])
	}
}

func TestAccountHandler_GetUserBalance(t *testing.T) {
	handler := NewAccountHandler(&mockLedger{
		getUserBalanceFn: func(int64) (decimal.Decimal, error) {
			return decimal.RequireFromString("1010.25"), nil
		},
	})
	r := setupAccountRouter(handler)

	rec := doRequest(r, "GET", "/users/1/balance", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	result := parseJSON(t, rec)
	if result["balance"] != "1010.25" {
		t.Errorf("expected balance 1010.25, got %v", result["balance"])
	}
	if result["user_id"] != float64(1) {
		t.Errorf("expected user_id 1, got %v", result["user_id"])
	}
}

func TestAccountHandler_VerifyBalances(t *testing.T) {
	t.Run("consistent", func(t *testing.T) {
		r := setupAccountRouter(NewAccountHandler(&mockLedger{}))

		rec := doRequest(r, "GET", "/users/1/balance/verify", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		result := parseJSON(t, rec)
		if result["consistent"] != true {
			t.Errorf("expected consistent, got %v", result)
		}
		if drifts, ok := result["drifts"].([]interface{}); !ok || len(drifts) != 0 {
			t.Errorf("expected empty drifts array, got %v", result["drifts"])
		}
	})

	t.Run("reports drift", func(t *testing.T) {
		handler := NewAccountHandler(&mockLedger{
			verifyBalancesFn: func(int64) ([]services.BalanceDrift, error) {
				return []services.BalanceDrift{{AccountID: 2, AccountName: "Cash", Cached: decimal.NewFromInt(10), Computed: decimal.NewFromInt(5)}}, nil
			},
		})
		r := setupAccountRouter(handler)

		rec := doRequest(r, "GET", "/users/1/balance/verify", "")

		result := parseJSON(t, rec)
		if result["consistent"] != false {
			t.Errorf("expected inconsistent, got %v", result)
		}
		if len(result["drifts"].([]interface{})) != 1 {
			t.Errorf("expected one drift, got %v", result["drifts"])
		}
	})
}
