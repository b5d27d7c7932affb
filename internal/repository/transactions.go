package repository

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "moneybot/internal/errors"
	"moneybot/internal/filter"
	"moneybot/internal/models"
)

const accountJoin = "Account"

var transactionWhitelist = filter.Whitelist{
	"id":                         filter.Local("id", filter.TypeInt),
	"type":                       filter.Local("type", filter.TypeString),
	"account_id":                 filter.Local("account_id", filter.TypeInt),
	"amount":                     filter.Local("amount", filter.TypeDecimal),
	"currency":                   filter.Local("currency", filter.TypeString),
	"amount_in_account_currency": filter.Local("amount_in_account_currency", filter.TypeDecimal),
	"transaction_date":           filter.Local("transaction_date", filter.TypeDate),
	"description":                filter.Local("description", filter.TypeString),
	"reference_transaction_id":   filter.Local("reference_transaction_id", filter.TypeInt),
	"created_at":                 filter.Local("created_at", filter.TypeTime),
	"user_id":                    filter.Joined(accountJoin, "user_id", filter.TypeInt),
	"account_name":               filter.Joined(accountJoin, "name", filter.TypeString),
}

var transactionJoins = filter.JoinSpecs{
	accountJoin: {
		Relation: "Account",
		SQL:      `JOIN "accounts" "Account" ON "Account"."id" = "transactions"."account_id"`,
	},
}

// TransactionRepository stores ledger entries. Reads never see soft-deleted
// rows and always carry the owning account.
type TransactionRepository struct {
	*Repository[models.Transaction]
}

// NewTransactionRepository creates a TransactionRepository bound to db.
func NewTransactionRepository(db *gorm.DB) *TransactionRepository {
	return &TransactionRepository{New[models.Transaction](db, Options{
		Whitelist: transactionWhitelist,
		Joins:     transactionJoins,
		Preload:   []string{accountJoin},
		Order: []clause.OrderByColumn{
			{Column: column("transaction_date"), Desc: true},
			{Column: column("id"), Desc: true},
		},
		Scope:    notDeleted,
		NotFound: apperrors.ErrTransactionNotFound,
	})}
}

func notDeleted(db *gorm.DB) *gorm.DB {
	return db.Where(clause.Eq{Column: column("is_deleted"), Value: false})
}

// ListReferencing returns the live transactions whose reference points at id.
func (r *TransactionRepository) ListReferencing(id int64) ([]models.Transaction, error) {
	return r.All(filter.Where("reference_transaction_id", filter.OpEq, id))
}

// SumByAccount returns the sum of live amounts in account currency for each
// of the given accounts. Accounts without transactions are absent.
func (r *TransactionRepository) SumByAccount(accountIDs []int64) (map[int64]decimal.Decimal, error) {
	sums := make(map[int64]decimal.Decimal, len(accountIDs))
	if len(accountIDs) == 0 {
		return sums, nil
	}

	var rows []struct {
		AccountID int64
		Total     decimal.Decimal
	}
	err := r.db.Model(&models.Transaction{}).
		Scopes(notDeleted).
		Select("account_id, ROUND(SUM(amount_in_account_currency), 4) AS total").
		Where(clause.IN{Column: column("account_id"), Values: toAny(accountIDs)}).
		Group("account_id").
		Scan(&rows).Error
	if err != nil {
		return nil, r.translate(err)
	}
	for _, row := range rows {
		sums[row.AccountID] = row.Total
	}
	return sums, nil
}

func toAny(ids []int64) []any {
	out := make([]any, len(ids))
	for i, id := range ids {
		out[i] = id
	}
	return out
}
