package models

import (
	"fmt"
	"strings"
)

// Period is the aggregation window selected by the viewer
type Period string

const (
	PeriodHour  Period = "hour"
	PeriodDay   Period = "day"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
	PeriodYear  Period = "year"
)

// Periods lists every period from the narrowest window to the widest
var Periods = []Period{PeriodHour, PeriodDay, PeriodWeek, PeriodMonth, PeriodYear}

// periodCodes maps the single letter codes stored by older clients
var periodCodes = map[string]Period{
	"u": PeriodHour,
	"v": PeriodDay,
	"w": PeriodWeek,
	"m": PeriodMonth,
	"j": PeriodYear,
}

// ParsePeriod accepts a period name or its legacy letter code
func ParsePeriod(s string) (Period, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	if p, ok := periodCodes[v]; ok {
		return p, nil
	}
	p := Period(v)
	if p.Valid() {
		return p, nil
	}
	return "", fmt.Errorf("unknown period %q", s)
}

func (p Period) Valid() bool {
	switch p {
	case PeriodHour, PeriodDay, PeriodWeek, PeriodMonth, PeriodYear:
		return true
	}
	return false
}

// SortMethod is the ordering applied after aggregation
type SortMethod string

const (
	SortManual       SortMethod = "manual"
	SortAlphabetical SortMethod = "alphabetical"
	SortHighest      SortMethod = "highest"
)

func ParseSortMethod(s string) (SortMethod, error) {
	m := SortMethod(strings.ToLower(strings.TrimSpace(s)))
	if m.Valid() {
		return m, nil
	}
	return "", fmt.Errorf("unknown sort method %q", s)
}

func (m SortMethod) Valid() bool {
	switch m {
	case SortManual, SortAlphabetical, SortHighest:
		return true
	}
	return false
}

// Visibility selects which live counters a view lists
type Visibility string

const (
	VisibilityActive   Visibility = "active"
	VisibilityArchived Visibility = "archived"
)

func ParseVisibility(s string) (Visibility, error) {
	v := Visibility(strings.ToLower(strings.TrimSpace(s)))
	if v.Valid() {
		return v, nil
	}
	return "", fmt.Errorf("unknown visibility %q", s)
}

func (v Visibility) Valid() bool {
	return v == VisibilityActive || v == VisibilityArchived
}

// Includes reports whether a counter in state s belongs to the view
func (v Visibility) Includes(s LifecycleState) bool {
	switch v {
	case VisibilityActive:
		return s == LifecycleStateActive
	case VisibilityArchived:
		return s == LifecycleStateArchived
	}
	return false
}

// ViewState is the viewer's selection passed explicitly to aggregation and sorting
type ViewState struct {
	Sort       SortMethod `json:"sort"`
	Period     Period     `json:"period"`
	Visibility Visibility `json:"visibility"`
	Compact    bool       `json:"compact"`
}

// DefaultViewState matches a first visit
func DefaultViewState() ViewState {
	return ViewState{
		Sort:       SortManual,
		Period:     PeriodDay,
		Visibility: VisibilityActive,
	}
}

// Normalize replaces unknown fields with defaults
func (v ViewState) Normalize(defaults ViewState) ViewState {
	if !v.Sort.Valid() {
		v.Sort = defaults.Sort
	}
	if !v.Period.Valid() {
		v.Period = defaults.Period
	}
	if !v.Visibility.Valid() {
		v.Visibility = defaults.Visibility
	}
	return v
}
