package jobs

import (
	"sync"
	"time"

	"github.com/Vovarama1992/voice_bridge/internal/ports"
	"github.com/google/uuid"
)

// Store — единственный владелец записей ConversionJob.
// Все мутации идут через Update по id, снаружи отдаются только копии.
type Store struct {
	mu   sync.RWMutex
	jobs map[string]*ports.ConversionJob
}

func NewStore() *Store {
	return &Store{
		jobs: make(map[string]*ports.ConversionJob),
	}
}

func (s *Store) Create(sourceAudioID, targetLanguage string) string {
	now := time.Now()

	job := &ports.ConversionJob{
		ID:             uuid.NewString(),
		SourceAudioID:  sourceAudioID,
		TargetLanguage: targetLanguage,
		Status:         ports.StatusPending,
		Progress:       0,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	s.mu.Lock()
	s.jobs[job.ID] = job
	s.mu.Unlock()

	return job.ID
}

func (s *Store) Get(id string) (ports.ConversionJob, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	job, ok := s.jobs[id]
	if !ok {
		return ports.ConversionJob{}, false
	}
	return *job, true
}

// Update применяет частичное обновление. Неизвестный id — молча no-op:
// вызывает его фоновая задача, которой некому вернуть ошибку.
// Терминальные статусы неизменяемы, progress не убывает.
func (s *Store) Update(id string, upd ports.JobUpdate) {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[id]
	if !ok {
		return
	}
	if job.Status.Terminal() {
		return
	}

	if upd.Status != nil {
		job.Status = *upd.Status
	}
	if upd.Progress != nil && *upd.Progress > job.Progress {
		job.Progress = *upd.Progress
	}
	if upd.Message != nil {
		job.Message = *upd.Message
	}
	if upd.Transcription != nil {
		job.Transcription = upd.Transcription
	}
	if upd.Translation != nil {
		job.Translation = upd.Translation
	}
	if upd.OutputAudioID != nil {
		job.OutputAudioID = upd.OutputAudioID
	}

	job.UpdatedAt = time.Now()
}
