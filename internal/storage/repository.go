package storage

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"casaspese/internal/core"

	_ "modernc.org/sqlite"
)

// Settings keys for the user profile limits.
const (
	settingMonthlyBudget = "budget_limit_monthly"
	settingAnnualBudget  = "budget_limit_annual"
)

// SQLiteRepository implements the store ports on a local SQLite database.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// SaveCategory upserts the category and replaces its subcategory rows in one
// transaction.
func (r *SQLiteRepository) SaveCategory(ctx context.Context, c core.Category) (string, error) {
	if err := c.Validate(); err != nil {
		return "", err
	}
	if c.ID == "" {
		c.ID = newID("cat")
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO categories (id, name, icon, color, expense_type, display_order)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			icon = excluded.icon,
			color = excluded.color,
			expense_type = excluded.expense_type,
			display_order = excluded.display_order`,
		c.ID, c.Name, c.Icon, c.Color, string(c.ExpenseType.Normalize()), c.DisplayOrder)
	if err != nil {
		return "", fmt.Errorf("upsert category: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM subcategories WHERE category_id = ?", c.ID); err != nil {
		return "", fmt.Errorf("clear subcategories: %w", err)
	}
	for _, sc := range c.SubCategories {
		if sc.ID == "" {
			sc.ID = newID("sub")
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO subcategories (id, category_id, name, budget_limit, fixed_amount, mandatory)
			VALUES (?, ?, ?, ?, ?, ?)`,
			sc.ID, c.ID, sc.Name, sc.BudgetLimit, sc.FixedAmount, boolToInt(sc.Mandatory))
		if err != nil {
			return "", fmt.Errorf("insert subcategory %s: %w", sc.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit category: %w", err)
	}
	return c.ID, nil
}

// ListCategories returns all categories with nested subcategories, monthly
// before annual, then by display order.
func (r *SQLiteRepository) ListCategories(ctx context.Context) ([]core.Category, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, icon, color, expense_type, display_order
		FROM categories
		ORDER BY CASE expense_type WHEN 'monthly' THEN 0 ELSE 1 END, display_order, name`)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	var cats []core.Category
	index := map[string]int{}
	for rows.Next() {
		var c core.Category
		var et string
		if err := rows.Scan(&c.ID, &c.Name, &c.Icon, &c.Color, &et, &c.DisplayOrder); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		c.ExpenseType = core.ExpenseType(et)
		index[c.ID] = len(cats)
		cats = append(cats, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}

	subRows, err := r.db.QueryContext(ctx, `
		SELECT id, category_id, name, budget_limit, fixed_amount, mandatory
		FROM subcategories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("query subcategories: %w", err)
	}
	defer subRows.Close()

	for subRows.Next() {
		var sc core.SubCategory
		var mandatory int
		if err := subRows.Scan(&sc.ID, &sc.CategoryID, &sc.Name, &sc.BudgetLimit, &sc.FixedAmount, &mandatory); err != nil {
			return nil, fmt.Errorf("scan subcategory: %w", err)
		}
		sc.Mandatory = mandatory != 0
		if i, ok := index[sc.CategoryID]; ok {
			cats[i].SubCategories = append(cats[i].SubCategories, sc)
		}
	}
	if err := subRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate subcategories: %w", err)
	}
	return cats, nil
}

func (r *SQLiteRepository) Append(ctx context.Context, e core.Expense) (string, error) {
	if err := e.Validate(); err != nil {
		return "", err
	}
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO expenses (amount, date, description, category_id, subcategory_id, expense_type)
		VALUES (?, ?, ?, ?, ?, ?)`,
		e.Amount, e.Date, e.Description, e.CategoryID, e.SubCategoryID, string(e.ExpenseType))
	if err != nil {
		return "", fmt.Errorf("insert expense: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return "", fmt.Errorf("expense id: %w", err)
	}
	return strconv.FormatInt(id, 10), nil
}

// ListExpenses returns all expenses dated within the given calendar year.
// Date is a TEXT column in YYYY-MM-DD form so a prefix match is exact.
func (r *SQLiteRepository) ListExpenses(ctx context.Context, year int) ([]core.Expense, error) {
	prefix := fmt.Sprintf("%04d-", year)
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, amount, date, description, category_id, subcategory_id, expense_type
		FROM expenses WHERE date LIKE ? || '%' ORDER BY date, id`, prefix)
	if err != nil {
		return nil, fmt.Errorf("query expenses: %w", err)
	}
	defer rows.Close()

	var out []core.Expense
	for rows.Next() {
		var e core.Expense
		var id int64
		var et string
		if err := rows.Scan(&id, &e.Amount, &e.Date, &e.Description, &e.CategoryID, &e.SubCategoryID, &et); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		e.ID = strconv.FormatInt(id, 10)
		e.ExpenseType = core.ExpenseType(et)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expenses: %w", err)
	}
	return out, nil
}

func (r *SQLiteRepository) DeleteExpense(ctx context.Context, id string) error {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return fmt.Errorf("expense id %q: %w", id, err)
	}
	res, err := r.db.ExecContext(ctx, "DELETE FROM expenses WHERE id = ?", n)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete expense result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("expense %s not found", id)
	}
	return nil
}

// BudgetLimits reads the profile limits from settings. Absent keys mean not
// configured and come back nil.
func (r *SQLiteRepository) BudgetLimits(ctx context.Context) (*float64, *float64, error) {
	monthly, err := r.readLimit(ctx, settingMonthlyBudget)
	if err != nil {
		return nil, nil, err
	}
	annual, err := r.readLimit(ctx, settingAnnualBudget)
	if err != nil {
		return nil, nil, err
	}
	return monthly, annual, nil
}

// SetBudgetLimits writes the profile limits. A nil limit clears the key.
func (r *SQLiteRepository) SetBudgetLimits(ctx context.Context, monthly, annual *float64) error {
	if err := r.writeLimit(ctx, settingMonthlyBudget, monthly); err != nil {
		return err
	}
	return r.writeLimit(ctx, settingAnnualBudget, annual)
}

func (r *SQLiteRepository) readLimit(ctx context.Context, key string) (*float64, error) {
	raw, err := r.readSetting(ctx, key)
	if err != nil {
		return nil, err
	}
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return nil, fmt.Errorf("setting %s: %w", key, err)
	}
	return &v, nil
}

func (r *SQLiteRepository) writeLimit(ctx context.Context, key string, v *float64) error {
	if v == nil {
		_, err := r.db.ExecContext(ctx, "DELETE FROM settings WHERE key = ?", key)
		if err != nil {
			return fmt.Errorf("clear setting %s: %w", key, err)
		}
		return nil
	}
	return r.WriteCursor(ctx, key, strconv.FormatFloat(*v, 'f', -1, 64))
}

func (r *SQLiteRepository) ReadCursor(ctx context.Context, key string) (string, error) {
	return r.readSetting(ctx, key)
}

func (r *SQLiteRepository) WriteCursor(ctx context.Context, key, value string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	if err != nil {
		return fmt.Errorf("write setting %s: %w", key, err)
	}
	return nil
}

func (r *SQLiteRepository) readSetting(ctx context.Context, key string) (string, error) {
	var value string
	err := r.db.QueryRowContext(ctx, "SELECT value FROM settings WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read setting %s: %w", key, err)
	}
	return value, nil
}

func newID(prefix string) string {
	var b [8]byte
	rand.Read(b[:])
	return prefix + "-" + hex.EncodeToString(b[:])
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
