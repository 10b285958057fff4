package queue

import (
	"time"

	"github.com/shashiranjanraj/nepkart/pkg/logger"
)

// FailedJobRecord is a row in nepkart_failed_jobs.
type FailedJobRecord struct {
	ID       uint      `gorm:"primaryKey;autoIncrement"`
	JobType  string    `gorm:"size:255;not null;index"`
	Payload  string    `gorm:"type:text;not null"`
	Error    string    `gorm:"type:text"`
	Attempts int       `gorm:"not null;default:0"`
	FailedAt time.Time `gorm:"not null"`
}

func (FailedJobRecord) TableName() string { return "nepkart_failed_jobs" }

// MigrateFailedJobs creates nepkart_failed_jobs on the configured store.
func (m *Manager) MigrateFailedJobs() error {
	if m.failedDB == nil {
		return nil
	}
	return m.failedDB.AutoMigrate(&FailedJobRecord{})
}

func (m *Manager) fail(f FailedJob) {
	m.mu.Lock()
	m.failed = append(m.failed, f)
	m.mu.Unlock()

	logger.Error("queue: job exhausted retries", "type", f.Type, "attempts", f.Attempts, "error", f.Err)
	if m.failedDB == nil {
		return
	}

	msg := ""
	if f.Err != nil {
		msg = f.Err.Error()
	}
	rec := FailedJobRecord{
		JobType:  f.Type,
		Payload:  string(f.Payload),
		Error:    msg,
		Attempts: f.Attempts,
		FailedAt: f.FailedAt,
	}
	if err := m.failedDB.Create(&rec).Error; err != nil {
		logger.Error("queue: persist failed job", "type", f.Type, "error", err)
	}
}
