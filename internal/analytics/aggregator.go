package analytics

import (
	"time"

	"fintrack/internal/core"
)

type (
	// LedgerSource is the scoped ledger view the aggregator folds over.
	LedgerSource interface {
		ForOwner(ownerID string) []core.Transaction
	}

	// SessionSource scopes every aggregation to the active session.
	SessionSource interface {
		Current() (core.Session, bool)
	}

	// MonthSummary is one month bucket, labeled "Jan 2006".
	MonthSummary struct {
		Month   string  `json:"month"`
		Income  float64 `json:"income"`
		Expense float64 `json:"expense"`
	}

	// DaySummary is one day-of-week bucket, labeled "Mon".
	DaySummary struct {
		Day     string  `json:"day"`
		Income  float64 `json:"income"`
		Expense float64 `json:"expense"`
	}

	// CategorySummary is one category+type bucket.
	CategorySummary struct {
		Category string      `json:"category"`
		Amount   float64     `json:"amount"`
		Type     core.TxType `json:"type"`
	}
)

const monthlyWindow = 6

// Aggregator derives summaries for the active session from the live
// ledger view. No caching: every call recomputes, and sums are plain
// float64 addition with no rounding.
type Aggregator struct {
	ledger   LedgerSource
	sessions SessionSource
	now      func() time.Time
}

func New(ledger LedgerSource, sessions SessionSource) *Aggregator {
	return &Aggregator{
		ledger:   ledger,
		sessions: sessions,
		now:      time.Now,
	}
}

// Monthly buckets the owner's transactions by month label in the order
// the months are first encountered, then keeps the last six buckets of
// that emission order. With out-of-order input this is deliberately
// not a calendar-recency window.
func (a *Aggregator) Monthly() []MonthSummary {
	view, ok := a.scopedView()
	if !ok {
		return []MonthSummary{}
	}

	index := make(map[string]int)
	buckets := make([]MonthSummary, 0)
	for _, tx := range view {
		label := tx.Date.Format("Jan 2006")
		i, seen := index[label]
		if !seen {
			i = len(buckets)
			index[label] = i
			buckets = append(buckets, MonthSummary{Month: label})
		}
		switch tx.Type {
		case core.Income:
			buckets[i].Income += tx.Amount
		case core.Expense:
			buckets[i].Expense += tx.Amount
		}
	}

	if len(buckets) > monthlyWindow {
		buckets = buckets[len(buckets)-monthlyWindow:]
	}
	return buckets
}

// Daily returns exactly seven buckets for the last seven calendar days
// including today, oldest first, pre-seeded at zero. A transaction is
// folded in when its whole-day distance from now is under seven; two
// transactions seven days apart share a weekday label and collide into
// the same bucket.
func (a *Aggregator) Daily() []DaySummary {
	view, ok := a.scopedView()
	if !ok {
		return []DaySummary{}
	}

	now := a.now()
	index := make(map[string]int, 7)
	buckets := make([]DaySummary, 0, 7)
	for i := 6; i >= 0; i-- {
		label := now.AddDate(0, 0, -i).Format("Mon")
		index[label] = len(buckets)
		buckets = append(buckets, DaySummary{Day: label})
	}

	for _, tx := range view {
		if int(now.Sub(tx.Date).Hours()/24) >= 7 {
			continue
		}
		i := index[tx.Date.Format("Mon")]
		switch tx.Type {
		case core.Income:
			buckets[i].Income += tx.Amount
		case core.Expense:
			buckets[i].Expense += tx.Amount
		}
	}
	return buckets
}

// ByCategory groups by the category+type pair ("Food" income and
// "Food" expense stay distinct), emitted in first-seen key order.
func (a *Aggregator) ByCategory() []CategorySummary {
	view, ok := a.scopedView()
	if !ok {
		return []CategorySummary{}
	}

	type key struct {
		category string
		txType   core.TxType
	}
	index := make(map[key]int)
	buckets := make([]CategorySummary, 0)
	for _, tx := range view {
		k := key{category: tx.Category, txType: tx.Type}
		i, seen := index[k]
		if !seen {
			i = len(buckets)
			index[k] = i
			buckets = append(buckets, CategorySummary{Category: tx.Category, Type: tx.Type})
		}
		buckets[i].Amount += tx.Amount
	}
	return buckets
}

func (a *Aggregator) scopedView() ([]core.Transaction, bool) {
	sess, ok := a.sessions.Current()
	if !ok {
		return nil, false
	}
	return a.ledger.ForOwner(sess.ID), true
}
