package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"casaspese/internal/core"
	"casaspese/internal/log"
	"casaspese/internal/store/memory"
)

func testLogger() *log.Logger {
	return log.New(log.Config{Handler: slog.NewTextHandler(io.Discard, nil)})
}

func fixtureStore() *memory.Store {
	return memory.NewSeeded(
		[]core.Category{
			{
				ID: "home", Name: "Home", ExpenseType: core.Monthly,
				SubCategories: []core.SubCategory{
					{ID: "rent", Name: "Rent", FixedAmount: 800},
					{ID: "groceries", Name: "Groceries", BudgetLimit: 500, Mandatory: true},
				},
			},
			{
				ID: "taxes", Name: "Taxes", ExpenseType: core.Annual,
				SubCategories: []core.SubCategory{
					{ID: "property", Name: "Property Tax", FixedAmount: 1200},
				},
			},
		},
		nil,
	)
}

func TestRolloverDetector_FirstRunSettlesWithoutAlerts(t *testing.T) {
	s := fixtureStore()
	d := NewRolloverDetector(s, s, s, testLogger())

	now := time.Date(2026, time.August, 3, 10, 0, 0, 0, time.UTC)
	if got := d.Check(context.Background(), now); got != RolloverIdle {
		t.Errorf("Check(first run) = %v, want RolloverIdle", got)
	}
	if alerts := d.Alerts(); len(alerts) != 0 {
		t.Errorf("first run raised %d alerts, want 0", len(alerts))
	}

	v, _ := s.ReadCursor(context.Background(), CursorKeyLastChecked)
	if v != "2026-8" {
		t.Errorf("cursor = %q, want 2026-8", v)
	}
}

func TestRolloverDetector_DetectsTransitionAndAlertsUnpaidFixed(t *testing.T) {
	s := fixtureStore()
	ctx := context.Background()
	s.WriteCursor(ctx, CursorKeyLastChecked, "2026-7")

	// Groceries spending exists but groceries is capped, not fixed, so it
	// must not alert. Rent is unpaid in July.
	s.Append(ctx, core.Expense{Amount: 120, Date: "2026-07-15", CategoryID: "home", SubCategoryID: "groceries"})

	d := NewRolloverDetector(s, s, s, testLogger())
	now := time.Date(2026, time.August, 1, 0, 5, 0, 0, time.UTC)

	if got := d.Check(ctx, now); got != RolloverDetected {
		t.Fatalf("Check() = %v, want RolloverDetected", got)
	}

	alerts := d.Alerts()
	if len(alerts) != 1 {
		t.Fatalf("got %d alerts, want 1: %+v", len(alerts), alerts)
	}
	a := alerts[0]
	if a.ID != "unpaid-rent-7-2026" {
		t.Errorf("alert ID = %q, want unpaid-rent-7-2026", a.ID)
	}
	if a.Amount != 800 {
		t.Errorf("alert amount = %v, want 800", a.Amount)
	}
	if a.SubCategoryID != "rent" || a.CategoryName != "Home" {
		t.Errorf("alert identity = %+v", a)
	}

	v, _ := s.ReadCursor(ctx, CursorKeyLastChecked)
	if v != "2026-8" {
		t.Errorf("cursor after transition = %q, want 2026-8", v)
	}
}

func TestRolloverDetector_PaidFixedDoesNotAlert(t *testing.T) {
	s := fixtureStore()
	ctx := context.Background()
	s.WriteCursor(ctx, CursorKeyLastChecked, "2026-7")
	s.Append(ctx, core.Expense{Amount: 800, Date: "2026-07-01", CategoryID: "home", SubCategoryID: "rent"})

	d := NewRolloverDetector(s, s, s, testLogger())
	state := d.Check(ctx, time.Date(2026, time.August, 1, 0, 0, 0, 0, time.UTC))

	if state != RolloverIdle {
		t.Errorf("Check() = %v, want RolloverIdle when nothing was unpaid", state)
	}
	if alerts := d.Alerts(); len(alerts) != 0 {
		t.Errorf("paid rent alerted anyway: %+v", alerts)
	}
}

func TestRolloverDetector_ChecksRecordedMonthAcrossGap(t *testing.T) {
	// The cursor marks the month the user last looked at. After months of
	// inactivity that recorded month is the one to settle, not the calendar
	// month before now.
	s := fixtureStore()
	ctx := context.Background()
	s.WriteCursor(ctx, CursorKeyLastChecked, "2026-5")
	s.Append(ctx, core.Expense{Amount: 800, Date: "2026-05-02", CategoryID: "home", SubCategoryID: "rent"})

	d := NewRolloverDetector(s, s, s, testLogger())
	state := d.Check(ctx, time.Date(2026, time.August, 1, 8, 0, 0, 0, time.UTC))

	if state != RolloverIdle {
		t.Errorf("Check() = %v, want RolloverIdle (May was paid)", state)
	}
	if alerts := d.Alerts(); len(alerts) != 0 {
		t.Errorf("got %d alerts, want 0: %+v", len(alerts), alerts)
	}

	v, _ := s.ReadCursor(ctx, CursorKeyLastChecked)
	if v != "2026-8" {
		t.Errorf("cursor = %q, want 2026-8", v)
	}
}

func TestRolloverDetector_UnpaidRecordedMonthAcrossGapAlerts(t *testing.T) {
	s := fixtureStore()
	ctx := context.Background()
	s.WriteCursor(ctx, CursorKeyLastChecked, "2026-5")

	d := NewRolloverDetector(s, s, s, testLogger())
	if got := d.Check(ctx, time.Date(2026, time.August, 1, 8, 0, 0, 0, time.UTC)); got != RolloverDetected {
		t.Fatalf("Check() = %v, want RolloverDetected", got)
	}

	alerts := d.Alerts()
	if len(alerts) != 1 {
		t.Fatalf("got %d alerts, want 1: %+v", len(alerts), alerts)
	}
	if alerts[0].ID != "unpaid-rent-5-2026" {
		t.Errorf("alert ID = %q, want unpaid-rent-5-2026", alerts[0].ID)
	}
}

func TestRolloverDetector_MalformedCursorSettlesWithoutAlerts(t *testing.T) {
	s := fixtureStore()
	ctx := context.Background()
	s.WriteCursor(ctx, CursorKeyLastChecked, "garbage")

	d := NewRolloverDetector(s, s, s, testLogger())
	if got := d.Check(ctx, time.Date(2026, time.August, 1, 0, 0, 0, 0, time.UTC)); got != RolloverIdle {
		t.Errorf("Check() = %v, want RolloverIdle", got)
	}
	if len(d.Alerts()) != 0 {
		t.Errorf("malformed cursor raised alerts: %+v", d.Alerts())
	}

	v, _ := s.ReadCursor(ctx, CursorKeyLastChecked)
	if v != "2026-8" {
		t.Errorf("cursor = %q, want 2026-8", v)
	}
}

func TestRolloverDetector_PartialPaymentAlertsRemainder(t *testing.T) {
	s := fixtureStore()
	ctx := context.Background()
	s.WriteCursor(ctx, CursorKeyLastChecked, "2026-7")
	s.Append(ctx, core.Expense{Amount: 300, Date: "2026-07-10", CategoryID: "home", SubCategoryID: "rent"})

	d := NewRolloverDetector(s, s, s, testLogger())
	d.Check(ctx, time.Date(2026, time.August, 2, 0, 0, 0, 0, time.UTC))

	alerts := d.Alerts()
	if len(alerts) != 1 || alerts[0].Amount != 500 {
		t.Fatalf("alerts = %+v, want one for 500", alerts)
	}
}

func TestRolloverDetector_AnnualCategoriesNeverAlert(t *testing.T) {
	s := fixtureStore()
	ctx := context.Background()
	s.WriteCursor(ctx, CursorKeyLastChecked, "2026-7")

	d := NewRolloverDetector(s, s, s, testLogger())
	d.Check(ctx, time.Date(2026, time.August, 1, 0, 0, 0, 0, time.UTC))

	for _, a := range d.Alerts() {
		if a.SubCategoryID == "property" {
			t.Error("annual subcategory produced a monthly unpaid alert")
		}
	}
}

func TestRolloverDetector_RepeatedChecksSamePeriodAreIdle(t *testing.T) {
	s := fixtureStore()
	ctx := context.Background()
	s.WriteCursor(ctx, CursorKeyLastChecked, "2026-7")

	d := NewRolloverDetector(s, s, s, testLogger())
	now := time.Date(2026, time.August, 1, 0, 0, 0, 0, time.UTC)

	if d.Check(ctx, now) != RolloverDetected {
		t.Fatal("first check should detect")
	}
	if d.Check(ctx, now.Add(time.Hour)) != RolloverIdle {
		t.Error("second check in same period should be idle")
	}
	if len(d.Alerts()) != 1 {
		t.Errorf("alerts duplicated: %+v", d.Alerts())
	}
}

func TestRolloverDetector_YearWrap(t *testing.T) {
	s := fixtureStore()
	ctx := context.Background()
	s.WriteCursor(ctx, CursorKeyLastChecked, "2025-12")

	d := NewRolloverDetector(s, s, s, testLogger())
	d.Check(ctx, time.Date(2026, time.January, 1, 9, 0, 0, 0, time.UTC))

	alerts := d.Alerts()
	if len(alerts) != 1 {
		t.Fatalf("got %d alerts, want 1", len(alerts))
	}
	if alerts[0].ID != "unpaid-rent-12-2025" {
		t.Errorf("alert ID = %q, want unpaid-rent-12-2025", alerts[0].ID)
	}
}

func TestRolloverDetector_Dismiss(t *testing.T) {
	s := fixtureStore()
	ctx := context.Background()
	s.WriteCursor(ctx, CursorKeyLastChecked, "2026-7")

	d := NewRolloverDetector(s, s, s, testLogger())
	d.Check(ctx, time.Date(2026, time.August, 1, 0, 0, 0, 0, time.UTC))

	d.Dismiss("unpaid-rent-7-2026")
	if len(d.Alerts()) != 0 {
		t.Error("dismiss did not remove the alert")
	}
	d.Dismiss("unpaid-rent-7-2026") // unknown id is a no-op
}

type failingCursors struct {
	readErr  error
	writeErr error
	wrote    map[string]string
}

func (f *failingCursors) ReadCursor(context.Context, string) (string, error) {
	if f.readErr != nil {
		return "", f.readErr
	}
	return "", nil
}

func (f *failingCursors) WriteCursor(_ context.Context, key, value string) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	if f.wrote == nil {
		f.wrote = map[string]string{}
	}
	f.wrote[key] = value
	return nil
}

func TestRolloverDetector_StorageFailuresDegrade(t *testing.T) {
	s := fixtureStore()
	cursors := &failingCursors{
		readErr:  errors.New("disk gone"),
		writeErr: errors.New("disk still gone"),
	}
	d := NewRolloverDetector(cursors, s, s, testLogger())

	// A failing cursor store behaves like a first run: no alerts, no panic,
	// no error surfaced.
	state := d.Check(context.Background(), time.Date(2026, time.August, 1, 0, 0, 0, 0, time.UTC))
	if state != RolloverIdle {
		t.Errorf("Check() with failing storage = %v, want RolloverIdle", state)
	}
	if len(d.Alerts()) != 0 {
		t.Error("failing storage produced alerts")
	}
}
