package analytics

import (
	"testing"
	"time"

	"fintrack/internal/core"
)

type fakeLedger struct{ txs []core.Transaction }

func (f *fakeLedger) ForOwner(ownerID string) []core.Transaction {
	out := make([]core.Transaction, 0, len(f.txs))
	for _, tx := range f.txs {
		if tx.UserID == ownerID {
			out = append(out, tx)
		}
	}
	return out
}

type fakeSessions struct{ sess *core.Session }

func (f *fakeSessions) Current() (core.Session, bool) {
	if f.sess == nil {
		return core.Session{}, false
	}
	return *f.sess, true
}

func newTestAggregator(txs []core.Transaction, now time.Time) *Aggregator {
	a := New(&fakeLedger{txs: txs}, &fakeSessions{sess: &core.Session{ID: "1"}})
	a.now = func() time.Time { return now }
	return a
}

func tx(userID string, amount float64, txType core.TxType, category string, date time.Time) core.Transaction {
	return core.Transaction{
		ID: "x", UserID: userID, Amount: amount, Type: txType,
		Category: category, Date: date,
	}
}

func TestNoActiveSessionYieldsEmptySequences(t *testing.T) {
	a := New(&fakeLedger{}, &fakeSessions{})
	if got := a.Monthly(); len(got) != 0 {
		t.Fatalf("monthly: expected empty, got %d", len(got))
	}
	if got := a.Daily(); len(got) != 0 {
		t.Fatalf("daily: expected empty, got %d", len(got))
	}
	if got := a.ByCategory(); len(got) != 0 {
		t.Fatalf("byCategory: expected empty, got %d", len(got))
	}
}

func TestMonthlySumsPerTypeAndMonth(t *testing.T) {
	day := func(m time.Month, d int) time.Time {
		return time.Date(2025, m, d, 12, 0, 0, 0, time.UTC)
	}
	a := newTestAggregator([]core.Transaction{
		tx("1", 50000, core.Income, "Salary", day(time.June, 1)),
		tx("1", 5000, core.Expense, "Food", day(time.June, 3)),
		tx("1", 10000, core.Expense, "Rent", day(time.July, 1)),
	}, day(time.August, 1))

	got := a.Monthly()
	if len(got) != 2 {
		t.Fatalf("expected 2 month buckets, got %+v", got)
	}
	byLabel := map[string]MonthSummary{}
	for _, b := range got {
		byLabel[b.Month] = b
	}
	jun := byLabel["Jun 2025"]
	if jun.Income != 50000 || jun.Expense != 5000 {
		t.Fatalf("june bucket wrong: %+v", jun)
	}
	jul := byLabel["Jul 2025"]
	if jul.Income != 0 || jul.Expense != 10000 {
		t.Fatalf("july bucket wrong: %+v", jul)
	}
}

func TestMonthlyKeepsLastSixByEmissionOrder(t *testing.T) {
	// Seven distinct months with the newest month encountered first:
	// the window drops the first-seen bucket, not the oldest month.
	months := []time.Month{time.July, time.January, time.February, time.March, time.April, time.May, time.June}
	txs := make([]core.Transaction, 0, len(months))
	for _, m := range months {
		txs = append(txs, tx("1", 100, core.Expense, "Misc", time.Date(2025, m, 10, 0, 0, 0, 0, time.UTC)))
	}
	a := newTestAggregator(txs, time.Date(2025, time.August, 1, 0, 0, 0, 0, time.UTC))

	got := a.Monthly()
	if len(got) != 6 {
		t.Fatalf("expected 6 buckets, got %d", len(got))
	}
	if got[0].Month != "Jan 2025" || got[5].Month != "Jun 2025" {
		t.Fatalf("window dropped the wrong bucket: %+v", got)
	}
	for _, b := range got {
		if b.Month == "Jul 2025" {
			t.Fatalf("first-emitted bucket must be the one dropped: %+v", got)
		}
	}
}

func TestDailyAlwaysSevenBuckets(t *testing.T) {
	now := time.Date(2025, time.August, 20, 12, 0, 0, 0, time.UTC) // a Wednesday
	a := newTestAggregator(nil, now)

	got := a.Daily()
	if len(got) != 7 {
		t.Fatalf("expected 7 buckets, got %d", len(got))
	}
	wantLabels := []string{"Thu", "Fri", "Sat", "Sun", "Mon", "Tue", "Wed"}
	for i, b := range got {
		if b.Day != wantLabels[i] {
			t.Fatalf("bucket %d label %q, want %q", i, b.Day, wantLabels[i])
		}
		if b.Income != 0 || b.Expense != 0 {
			t.Fatalf("bucket %d not pre-seeded at zero: %+v", i, b)
		}
	}
}

func TestDailyWindowAndBuckets(t *testing.T) {
	now := time.Date(2025, time.August, 20, 12, 0, 0, 0, time.UTC) // Wednesday
	a := newTestAggregator([]core.Transaction{
		tx("1", 100, core.Expense, "Food", now),                                                  // today -> Wed
		tx("1", 40, core.Income, "Gift", now.AddDate(0, 0, -2)),                                  // Monday
		tx("1", 60, core.Expense, "Food", now.AddDate(0, 0, -2)),                                 // Monday
		tx("1", 999, core.Expense, "Food", now.AddDate(0, 0, -8)),                                // outside window
		tx("1", 500, core.Expense, "Rent", time.Date(2025, time.August, 13, 12, 0, 0, 0, time.UTC)), // exactly 7 days: excluded
	}, now)

	got := a.Daily()
	if len(got) != 7 {
		t.Fatalf("expected 7 buckets, got %d", len(got))
	}
	byLabel := map[string]DaySummary{}
	for _, b := range got {
		byLabel[b.Day] = b
	}
	if wed := byLabel["Wed"]; wed.Expense != 100 || wed.Income != 0 {
		t.Fatalf("wednesday bucket wrong: %+v", wed)
	}
	if mon := byLabel["Mon"]; mon.Income != 40 || mon.Expense != 60 {
		t.Fatalf("monday bucket wrong: %+v", mon)
	}
	var total float64
	for _, b := range got {
		total += b.Income + b.Expense
	}
	if total != 200 {
		t.Fatalf("out-of-window transactions leaked in, total=%v", total)
	}
}

func TestByCategoryGroupsByCategoryAndType(t *testing.T) {
	day := time.Date(2025, time.August, 1, 0, 0, 0, 0, time.UTC)
	a := newTestAggregator([]core.Transaction{
		tx("1", 30, core.Expense, "Food", day),
		tx("1", 20, core.Expense, "Food", day),
		tx("1", 15, core.Income, "Food", day), // same category, distinct bucket
		tx("1", 10, core.Expense, "Transport", day),
		tx("2", 999, core.Expense, "Food", day), // other owner, excluded
	}, day)

	got := a.ByCategory()
	if len(got) != 3 {
		t.Fatalf("expected 3 buckets, got %+v", got)
	}
	// First-seen key order.
	if got[0].Category != "Food" || got[0].Type != core.Expense || got[0].Amount != 50 {
		t.Fatalf("bucket 0 wrong: %+v", got[0])
	}
	if got[1].Category != "Food" || got[1].Type != core.Income || got[1].Amount != 15 {
		t.Fatalf("bucket 1 wrong: %+v", got[1])
	}
	if got[2].Category != "Transport" || got[2].Amount != 10 {
		t.Fatalf("bucket 2 wrong: %+v", got[2])
	}

	// Sum over buckets equals sum over the owner's ledger view.
	var bucketSum float64
	for _, b := range got {
		bucketSum += b.Amount
	}
	if bucketSum != 75 {
		t.Fatalf("bucket sum %v, want 75", bucketSum)
	}
}
