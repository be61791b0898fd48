package core

import (
	"errors"
	"strings"
)

const (
	Monthly ExpenseType = "monthly"
	Annual  ExpenseType = "annual"
)

type (
	// ExpenseType distinguishes monthly-tracked categories from annual ones.
	ExpenseType string

	Category struct {
		ID            string
		Name          string
		Icon          string
		Color         string
		ExpenseType   ExpenseType
		DisplayOrder  int
		SubCategories []SubCategory
	}

	SubCategory struct {
		ID         string
		Name       string
		CategoryID string
		// BudgetLimit and FixedAmount are "not configured" when zero.
		BudgetLimit float64
		FixedAmount float64
		Mandatory   bool
	}

	Expense struct {
		ID            string
		Amount        float64
		Date          string // YYYY-MM-DD
		Description   string
		CategoryID    string
		SubCategoryID string
		ExpenseType   ExpenseType
	}
)

var (
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrInvalidDate        = errors.New("invalid date")
	ErrInvalidExpenseType = errors.New("invalid expense type")
	ErrEmptyName          = errors.New("empty name")
	ErrEmptyCategory      = errors.New("empty category reference")
)

// ChargeKind classifies how a subcategory charges per period.
type ChargeKind int

const (
	// ChargeUntracked: neither a fixed amount nor a budget limit is set.
	ChargeUntracked ChargeKind = iota
	// ChargeFixed: an exact recurring amount (e.g. rent). Implies mandatory.
	ChargeFixed
	// ChargeCapped: variable spending under a budget ceiling.
	ChargeCapped
)

// ChargeMode is the resolved charging behavior of a subcategory.
// Amount holds the fixed charge for ChargeFixed and the ceiling for
// ChargeCapped; it is zero for ChargeUntracked.
type ChargeMode struct {
	Kind   ChargeKind
	Amount float64
}

// ChargeMode resolves the subcategory's charge mode. A fixed amount always
// wins over a budget limit: the two are never both meaningful at once.
func (sc SubCategory) ChargeMode() ChargeMode {
	if sc.FixedAmount > 0 {
		return ChargeMode{Kind: ChargeFixed, Amount: sc.FixedAmount}
	}
	if sc.BudgetLimit > 0 {
		return ChargeMode{Kind: ChargeCapped, Amount: sc.BudgetLimit}
	}
	return ChargeMode{Kind: ChargeUntracked}
}

// IsMandatory reports whether the subcategory must recur every period.
// A fixed amount implies mandatory regardless of the stored flag.
func (sc SubCategory) IsMandatory() bool {
	return sc.FixedAmount > 0 || sc.Mandatory
}

func (t ExpenseType) Validate() error {
	switch t {
	case Monthly, Annual:
		return nil
	default:
		return ErrInvalidExpenseType
	}
}

// Normalize maps an absent type to Monthly for records created before the
// field existed.
func (t ExpenseType) Normalize() ExpenseType {
	if t == "" {
		return Monthly
	}
	return t
}

func (c Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	if err := c.ExpenseType.Validate(); err != nil {
		return err
	}
	for _, sc := range c.SubCategories {
		if err := sc.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func (sc SubCategory) Validate() error {
	if strings.TrimSpace(sc.Name) == "" {
		return ErrEmptyName
	}
	if sc.BudgetLimit < 0 || sc.FixedAmount < 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (e Expense) Validate() error {
	if e.Amount <= 0 {
		return ErrInvalidAmount
	}
	if _, _, ok := ParseDate(e.Date); !ok {
		return ErrInvalidDate
	}
	if len(e.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	if strings.TrimSpace(e.CategoryID) == "" {
		return ErrEmptyCategory
	}
	if e.ExpenseType != "" {
		return e.ExpenseType.Validate()
	}
	return nil
}
