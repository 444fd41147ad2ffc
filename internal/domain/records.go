package domain

import (
	"encoding/json"
	"time"

	"github.com/mrz1836/dayplan/internal/timeslot"
)

// ExecutionEntry is one logged execution, stored per month under its date.
type ExecutionEntry struct {
	InstanceID  string       `json:"instanceId,omitempty"`
	TaskPath    string       `json:"taskPath"`
	TaskName    string       `json:"taskName"`
	Slot        timeslot.Key `json:"slotKey,omitempty"`
	IsCompleted bool         `json:"isCompleted"`
	StartTime   time.Time    `json:"startTime"`
	StopTime    time.Time    `json:"stopTime"`
	DurationSec int64        `json:"durationSec"`
	Project     string       `json:"project,omitempty"`
	Rating      *int         `json:"rating,omitempty"`
	Comment     string       `json:"comment,omitempty"`
}

// UnmarshalJSON defaults IsCompleted to true: entries written before the
// flag existed were always completions.
func (e *ExecutionEntry) UnmarshalJSON(data []byte) error {
	type alias ExecutionEntry
	a := alias{IsCompleted: true}
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*e = ExecutionEntry(a)
	return nil
}

// Duration returns the logged duration.
func (e ExecutionEntry) Duration() time.Duration {
	return time.Duration(e.DurationSec) * time.Second
}

// DailySummary is the per-date statistics block stored next to the entries.
type DailySummary struct {
	TotalTasks     int                  `json:"totalTasks"`
	CompletedTasks int                  `json:"completedTasks"`
	TotalMinutes   int                  `json:"totalMinutes"`
	SlotMinutes    map[timeslot.Key]int `json:"slotMinutes,omitempty"`
	UpdatedAt      time.Time            `json:"updatedAt"`
}

// MonthLog is the content of one month's execution log file.
type MonthLog struct {
	SchemaVersion  int                         `json:"schemaVersion"`
	TaskExecutions map[string][]ExecutionEntry `json:"taskExecutions"`
	DailySummary   map[string]DailySummary     `json:"dailySummary"`
}

// NewMonthLog returns an empty month log.
func NewMonthLog() *MonthLog {
	return &MonthLog{
		TaskExecutions: map[string][]ExecutionEntry{},
		DailySummary:   map[string]DailySummary{},
	}
}

// RunningRecord persists the single running instance across restarts.
type RunningRecord struct {
	InstanceID   string       `json:"instanceId"`
	TaskPath     string       `json:"taskPath"`
	TaskName     string       `json:"taskName"`
	Date         string       `json:"date"`
	Slot         timeslot.Key `json:"slotKey"`
	OriginalSlot timeslot.Key `json:"originalSlotKey,omitempty"`
	StartTime    time.Time    `json:"startTime"`
	IsRoutine    bool         `json:"isRoutine"`
	Project      string       `json:"project,omitempty"`
}

// SavedOrder is a best-effort default position for an idle instance.
type SavedOrder struct {
	Slot  timeslot.Key `json:"slot"`
	Order int          `json:"order"`
}

// EntryMatch selects the execution entries of one instance. Entries written
// before instance ids existed are matched by path and start time.
type EntryMatch struct {
	InstanceID string
	Path       string
	Start      time.Time
}

// Matches reports whether e belongs to the selected instance.
func (m EntryMatch) Matches(e ExecutionEntry) bool {
	if m.InstanceID != "" && e.InstanceID == m.InstanceID {
		return true
	}
	return e.InstanceID == "" && m.Path != "" && e.TaskPath == m.Path &&
		!m.Start.IsZero() && e.StartTime.Equal(m.Start)
}
