package service

import (
	"fmt"
	"sync"
	"time"
)

// SyncMetrics tracks statistics about an upstream sync run
type SyncMetrics struct {
	mu               sync.RWMutex
	StartTime        time.Time
	Duration         time.Duration
	TotalResults     int
	RecordedResults  int
	TotalFixtures    int
	CreatedFixtures  int
	NewTeams         int
	Duplicates       int
	ValidationErrors int
	Errors           int
}

// NewSyncMetrics creates a new metrics tracker
func NewSyncMetrics() *SyncMetrics {
	return &SyncMetrics{
		StartTime: time.Now(),
	}
}

// Reset resets all metrics
func (m *SyncMetrics) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.StartTime = time.Now()
	m.Duration = 0
	m.TotalResults = 0
	m.RecordedResults = 0
	m.TotalFixtures = 0
	m.CreatedFixtures = 0
	m.NewTeams = 0
	m.Duplicates = 0
	m.ValidationErrors = 0
	m.Errors = 0
}

// RecordResult increments the recorded result count
func (m *SyncMetrics) RecordResult() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RecordedResults++
}

// RecordFixture increments the created fixture count
func (m *SyncMetrics) RecordFixture() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CreatedFixtures++
}

// RecordNewTeam increments the new team count
func (m *SyncMetrics) RecordNewTeam() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.NewTeams++
}

// RecordDuplicate increments the duplicate count
func (m *SyncMetrics) RecordDuplicate() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Duplicates++
}

// RecordError increments the error count
func (m *SyncMetrics) RecordError() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Errors++
}

// RecordValidationError increments the validation error count
func (m *SyncMetrics) RecordValidationError() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ValidationErrors++
}

// String returns a formatted string representation of metrics
func (m *SyncMetrics) String() string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	successRate := float64(0)
	if m.TotalResults > 0 {
		successRate = float64(m.RecordedResults) / float64(m.TotalResults) * 100
	}

	return fmt.Sprintf(
		"SyncMetrics{Results=%d, Recorded=%d (%.1f%%), Fixtures=%d, NewTeams=%d, Duplicates=%d, ValidationErrors=%d, Errors=%d, Duration=%v}",
		m.TotalResults,
		m.RecordedResults,
		successRate,
		m.CreatedFixtures,
		m.NewTeams,
		m.Duplicates,
		m.ValidationErrors,
		m.Errors,
		m.Duration,
	)
}
