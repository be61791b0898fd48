package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"casaspese/internal/core"
	"casaspese/internal/log"
	"casaspese/internal/store"
)

// CursorKeyLastChecked is the persisted cursor recording the last period the
// rollover detector examined, stored as "{year}-{month}".
const CursorKeyLastChecked = "lastCheckedMonth"

// RolloverState reports what the last check concluded.
type RolloverState int

const (
	// RolloverIdle: the current period matches the cursor, nothing to do.
	RolloverIdle RolloverState = iota
	// RolloverDetected: the period moved since the last check and at least
	// one unpaid alert was raised for the recorded month.
	RolloverDetected
)

// UnpaidAlert flags a fixed monthly subcategory that went unpaid in a closed
// month. Alerts live in memory until dismissed; the cursor is what persists.
type UnpaidAlert struct {
	ID              string    `json:"id"`
	SubCategoryID   string    `json:"subCategoryId"`
	SubCategoryName string    `json:"subCategoryName"`
	CategoryID      string    `json:"categoryId"`
	CategoryName    string    `json:"categoryName"`
	Amount          float64   `json:"amount"`
	Year            int       `json:"year"`
	Month           int       `json:"month"`
	CreatedAt       time.Time `json:"createdAt"`
}

// AlertID builds the dedup key for an unpaid alert. One alert per subcategory
// per closed month.
func AlertID(subCategoryID string, p core.Period) string {
	return fmt.Sprintf("unpaid-%s-%d-%d", subCategoryID, p.Month, p.Year)
}

// RolloverDetector notices month transitions across sessions and raises
// unpaid alerts for fixed monthly subcategories left unpaid in the recorded
// month. Capped and untracked subcategories never alert: a variable
// budget with no spending is not a missed payment.
//
// The detector degrades rather than fails: when the cursor store errors the
// check still completes against an empty cursor and the outcome is logged,
// never surfaced to the caller.
type RolloverDetector struct {
	cursors  store.CursorStore
	cats     store.CategoryReader
	expenses store.ExpenseLister
	logger   *log.Logger

	mu      sync.Mutex
	lastKey string
	alerts  map[string]UnpaidAlert
}

func NewRolloverDetector(cursors store.CursorStore, cats store.CategoryReader, expenses store.ExpenseLister, logger *log.Logger) *RolloverDetector {
	return &RolloverDetector{
		cursors:  cursors,
		cats:     cats,
		expenses: expenses,
		logger:   logger.WithComponent(log.ComponentRollover),
		alerts:   make(map[string]UnpaidAlert),
	}
}

// Check compares the current period against the persisted cursor and, on a
// transition, raises alerts for the month the cursor recorded. The recorded
// month is the one the user last looked at, which is not necessarily the
// month before the current one when the app sat unused. The cursor is
// rewritten after every run so a fresh install settles on the first check
// instead of alerting. Concurrent and repeated calls within the same period
// are no-ops.
func (d *RolloverDetector) Check(ctx context.Context, now time.Time) RolloverState {
	current := core.CurrentPeriod(now)
	key := current.Key()

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.lastKey == key {
		return RolloverIdle
	}

	stored, err := d.cursors.ReadCursor(ctx, CursorKeyLastChecked)
	if err != nil {
		d.logger.WarnContext(ctx, "cursor read failed, treating as first run",
			log.FieldCursorKey, CursorKeyLastChecked, log.FieldError, err.Error())
		stored = ""
	}

	state := RolloverIdle
	if stored != "" && stored != key {
		if recorded, ok := core.ParsePeriodKey(stored); ok {
			if d.raiseAlerts(ctx, recorded, now) > 0 {
				state = RolloverDetected
			}
		} else {
			d.logger.WarnContext(ctx, "malformed cursor, treating as first run",
				log.FieldCursorKey, CursorKeyLastChecked, "value", stored)
		}
	}

	if err := d.cursors.WriteCursor(ctx, CursorKeyLastChecked, key); err != nil {
		d.logger.ErrorContext(ctx, "cursor write failed, next session will re-check",
			log.FieldCursorKey, CursorKeyLastChecked, log.FieldError, err.Error())
	}
	d.lastKey = key
	return state
}

// raiseAlerts scans the closed month for fixed monthly subcategories whose
// payments did not cover the fixed amount and reports how many alerts it
// added. Caller holds d.mu.
func (d *RolloverDetector) raiseAlerts(ctx context.Context, closed core.Period, now time.Time) int {
	cats, err := d.cats.ListCategories(ctx)
	if err != nil {
		d.logger.ErrorContext(ctx, "category load failed, skipping alert scan",
			log.FieldPeriod, closed.Key(), log.FieldError, err.Error())
		return 0
	}
	expenses, err := d.expenses.ListExpenses(ctx, closed.Year)
	if err != nil {
		d.logger.ErrorContext(ctx, "expense load failed, skipping alert scan",
			log.FieldPeriod, closed.Key(), log.FieldError, err.Error())
		return 0
	}

	raised := 0
	for _, cat := range cats {
		if cat.ExpenseType != core.Monthly {
			continue
		}
		for _, sc := range cat.SubCategories {
			mode := sc.ChargeMode()
			if mode.Kind != core.ChargeFixed {
				continue
			}
			totals := core.MatchPayments(sc.ID, expenses, closed)
			if totals.TotalPaid >= mode.Amount {
				continue
			}
			id := AlertID(sc.ID, closed)
			if _, exists := d.alerts[id]; exists {
				continue
			}
			d.alerts[id] = UnpaidAlert{
				ID:              id,
				SubCategoryID:   sc.ID,
				SubCategoryName: sc.Name,
				CategoryID:      cat.ID,
				CategoryName:    cat.Name,
				Amount:          mode.Amount - totals.TotalPaid,
				Year:            closed.Year,
				Month:           closed.Month,
				CreatedAt:       now,
			}
			raised++
		}
	}
	d.logger.InfoContext(ctx, "month rollover processed",
		log.FieldPeriod, closed.Key(), "alerts_raised", raised)
	return raised
}

// Alerts returns the live alerts sorted by id for stable output.
func (d *RolloverDetector) Alerts() []UnpaidAlert {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]UnpaidAlert, 0, len(d.alerts))
	for _, a := range d.alerts {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Dismiss removes an alert. Dismissing an unknown id is a no-op.
func (d *RolloverDetector) Dismiss(id string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.alerts, id)
}
