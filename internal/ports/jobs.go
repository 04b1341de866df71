package ports

import "time"

type JobStatus string

const (
	StatusPending    JobStatus = "pending"
	StatusProcessing JobStatus = "processing"
	StatusCompleted  JobStatus = "completed"
	StatusFailed     JobStatus = "failed"
)

// Terminal reports whether no further transitions are allowed.
func (s JobStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// DTO для статуса конверсии
type ConversionJob struct {
	ID             string    `json:"id"`
	SourceAudioID  string    `json:"sourceAudioId"`
	TargetLanguage string    `json:"targetLanguage"`
	Status         JobStatus `json:"status"`
	Progress       int       `json:"progress"`
	Message        string    `json:"message,omitempty"`
	Transcription  *string   `json:"transcription"`
	Translation    *string   `json:"translation"`
	OutputAudioID  *string   `json:"outputAudioId"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// JobUpdate — partial update, только заданные поля меняются
type JobUpdate struct {
	Status        *JobStatus
	Progress      *int
	Message       *string
	Transcription *string
	Translation   *string
	OutputAudioID *string
}

type JobStore interface {
	Create(sourceAudioID, targetLanguage string) string
	Get(id string) (ConversionJob, bool)
	Update(id string, upd JobUpdate)
}
