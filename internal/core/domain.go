package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Income  TxType = "income"
	Expense TxType = "expense"
)

type (
	// TxType is the direction of a ledger entry.
	TxType string

	// Account is a registered user as held by the credential registry.
	// The secret never leaves the registry / session manager pair.
	Account struct {
		ID      string `json:"id"`
		Name    string `json:"name"`
		Email   string `json:"email"`
		Secret  string `json:"-"`
		IsAdmin bool   `json:"isAdmin"`
	}

	// Session is the authenticated identity visible to the rest of the
	// application: an Account minus its secret.
	Session struct {
		ID      string `json:"id"`
		Name    string `json:"name"`
		Email   string `json:"email"`
		IsAdmin bool   `json:"isAdmin"`
	}

	// Transaction is a single immutable ledger entry.
	Transaction struct {
		ID          string    `json:"id"`
		UserID      string    `json:"userId"`
		Amount      float64   `json:"amount"`
		Type        TxType    `json:"type"`
		Category    string    `json:"category"`
		Description string    `json:"description"`
		Date        time.Time `json:"date"`
	}
)

var (
	ErrInvalidAmount = errors.New("invalid amount")
	ErrInvalidType   = errors.New("invalid transaction type")
	ErrEmptyCategory = errors.New("empty category")
	ErrEmptyOwner    = errors.New("empty owner id")
	ErrEmptyName     = errors.New("empty name")
	ErrInvalidEmail  = errors.New("invalid email")
	ErrEmptySecret   = errors.New("empty secret")
)

func (t TxType) IsValid() bool {
	return t == Income || t == Expense
}

// String implements fmt.Stringer
func (t TxType) String() string {
	return string(t)
}

// SessionFromAccount strips the secret from an account record.
func SessionFromAccount(a Account) Session {
	return Session{
		ID:      a.ID,
		Name:    a.Name,
		Email:   a.Email,
		IsAdmin: a.IsAdmin,
	}
}

func (tx Transaction) Validate() error {
	if strings.TrimSpace(tx.UserID) == "" {
		return ErrEmptyOwner
	}
	if tx.Amount <= 0 {
		return ErrInvalidAmount
	}
	if !tx.Type.IsValid() {
		return ErrInvalidType
	}
	if strings.TrimSpace(tx.Category) == "" {
		return ErrEmptyCategory
	}
	if len(tx.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	return nil
}

// ValidateRegistration checks the fields a new account is created from.
func ValidateRegistration(name, email, secret string) error {
	if strings.TrimSpace(name) == "" {
		return ErrEmptyName
	}
	if strings.TrimSpace(email) == "" || !strings.Contains(email, "@") {
		return ErrInvalidEmail
	}
	if secret == "" {
		return ErrEmptySecret
	}
	return nil
}
