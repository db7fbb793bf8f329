package aggregation

import (
	"time"

	"github.com/amirphl/tallybook/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Stats are the values derived for one counter
type Stats struct {
	LifetimeTotal decimal.Decimal
	WindowedValue decimal.Decimal
	LastEventAt   *time.Time
}

// Aggregate computes stats for every live counter over the whole ledger.
// Events of deleted or unknown counters are skipped. The start value seeds
// both the lifetime total and the windowed value. Equal timestamps keep the
// first event seen as the latest one; the reported instant is the same either way.
func Aggregate(counters []*models.Counter, events []*models.Event, now time.Time, period models.Period) map[uuid.UUID]Stats {
	anchor := PeriodStart(now, period)

	stats := make(map[uuid.UUID]Stats, len(counters))
	for _, c := range counters {
		if !c.IsLive() {
			continue
		}
		stats[c.ID] = Stats{
			LifetimeTotal: c.StartValue,
			WindowedValue: c.StartValue,
		}
	}

	for _, ev := range events {
		if ev == nil {
			continue
		}
		s, ok := stats[ev.CounterID]
		if !ok {
			continue
		}
		s.LifetimeTotal = s.LifetimeTotal.Add(ev.Delta)
		if !ev.Timestamp.Before(anchor) {
			s.WindowedValue = s.WindowedValue.Add(ev.Delta)
		}
		if s.LastEventAt == nil || ev.Timestamp.After(*s.LastEventAt) {
			ts := ev.Timestamp
			s.LastEventAt = &ts
		}
		stats[ev.CounterID] = s
	}

	return stats
}

// WindowSums holds the start-seeded value of a counter in every period
type WindowSums struct {
	Values        map[models.Period]decimal.Decimal
	LifetimeTotal decimal.Decimal
	LastEventAt   *time.Time
}

// AggregateAll computes every period in one scan of the ledger
func AggregateAll(counters []*models.Counter, events []*models.Event, now time.Time) map[uuid.UUID]WindowSums {
	anchors := Anchors(now)

	sums := make(map[uuid.UUID]*WindowSums, len(counters))
	for _, c := range counters {
		if !c.IsLive() {
			continue
		}
		values := make(map[models.Period]decimal.Decimal, len(models.Periods))
		for _, p := range models.Periods {
			values[p] = c.StartValue
		}
		sums[c.ID] = &WindowSums{Values: values, LifetimeTotal: c.StartValue}
	}

	for _, ev := range events {
		if ev == nil {
			continue
		}
		s, ok := sums[ev.CounterID]
		if !ok {
			continue
		}
		s.LifetimeTotal = s.LifetimeTotal.Add(ev.Delta)
		for _, p := range models.Periods {
			if !ev.Timestamp.Before(anchors[p]) {
				s.Values[p] = s.Values[p].Add(ev.Delta)
			}
		}
		if s.LastEventAt == nil || ev.Timestamp.After(*s.LastEventAt) {
			ts := ev.Timestamp
			s.LastEventAt = &ts
		}
	}

	out := make(map[uuid.UUID]WindowSums, len(sums))
	for id, s := range sums {
		out[id] = *s
	}
	return out
}
