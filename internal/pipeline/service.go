package pipeline

import (
	"context"
	"log"
	"time"

	"github.com/Vovarama1992/voice_bridge/internal/ports"
)

// Service гоняет одну задачу через три стадии:
// transcribe → translate → synthesize. Одна горутина на задачу,
// единственный канал связи с поллерами — JobStore.
type Service struct {
	jobs           ports.JobStore
	assets         ports.AssetStore
	stt            ports.STTClient
	translator     ports.Translator
	tts            ports.TTSClient
	notifier       ports.Notifier
	stageTimeout   time.Duration
	sourceLanguage string
}

func NewService(
	jobs ports.JobStore,
	assets ports.AssetStore,
	stt ports.STTClient,
	translator ports.Translator,
	tts ports.TTSClient,
	notifier ports.Notifier,
	stageTimeout time.Duration,
	sourceLanguage string,
) *Service {
	return &Service{
		jobs:           jobs,
		assets:         assets,
		stt:            stt,
		translator:     translator,
		tts:            tts,
		notifier:       notifier,
		stageTimeout:   stageTimeout,
		sourceLanguage: sourceLanguage,
	}
}

// Start запускает пайплайн в фоне. HTTP-ответ его не ждёт.
func (s *Service) Start(jobID, sourceAudioID, targetLanguage string) {
	go s.run(jobID, sourceAudioID, targetLanguage)
}

func (s *Service) run(jobID, sourceAudioID, targetLanguage string) {
	start := time.Now()
	log.Printf("[pipeline] >>> START job=%s audio=%s target=%s", jobID, sourceAudioID, targetLanguage)

	s.update(jobID, ports.JobUpdate{
		Status:   statusPtr(ports.StatusProcessing),
		Progress: intPtr(10),
	})

	// 1) голос → текст
	transcription, err := s.transcribe(jobID, sourceAudioID)
	if err != nil {
		s.fail(jobID, "transcription", err)
		return
	}
	s.update(jobID, ports.JobUpdate{
		Progress:      intPtr(40),
		Transcription: &transcription,
	})

	// 2) текст → перевод
	translation, err := s.translate(transcription, targetLanguage)
	if err != nil {
		s.fail(jobID, "translation", err)
		return
	}
	s.update(jobID, ports.JobUpdate{
		Progress:    intPtr(70),
		Translation: &translation,
	})

	// 3) перевод → голос
	audio, err := s.synthesize(translation, targetLanguage)
	if err != nil {
		s.fail(jobID, "synthesis", err)
		return
	}
	s.update(jobID, ports.JobUpdate{Progress: intPtr(90)})

	// 4) сохраняем результат
	ctx, cancel := s.stageCtx()
	outputID, err := s.assets.StoreOutput(ctx, jobID, audio)
	cancel()
	if err != nil {
		s.fail(jobID, "storing output", err)
		return
	}

	// 5) терминальный статус
	s.update(jobID, ports.JobUpdate{
		Status:        statusPtr(ports.StatusCompleted),
		Progress:      intPtr(100),
		Message:       strPtr("conversion completed"),
		OutputAudioID: &outputID,
	})

	log.Printf("[pipeline] <<< DONE job=%s in %s", jobID, time.Since(start))
}

func (s *Service) transcribe(jobID, sourceAudioID string) (string, error) {
	ctx, cancel := s.stageCtx()
	defer cancel()

	rc, err := s.assets.Retrieve(ctx, sourceAudioID)
	if err != nil {
		return "", &ports.StageError{Stage: "transcription", Err: err}
	}
	defer rc.Close()

	text, err := s.stt.Transcribe(ctx, rc, s.sourceLanguage)
	if err != nil {
		return "", &ports.StageError{Stage: "transcription", Err: err}
	}
	return text, nil
}

func (s *Service) translate(text, targetLanguage string) (string, error) {
	ctx, cancel := s.stageCtx()
	defer cancel()

	translated, err := s.translator.Translate(ctx, text, s.sourceLanguage, targetLanguage)
	if err != nil {
		return "", &ports.StageError{Stage: "translation", Err: err}
	}
	return translated, nil
}

func (s *Service) synthesize(text, targetLanguage string) ([]byte, error) {
	ctx, cancel := s.stageCtx()
	defer cancel()

	audio, err := s.tts.Synthesize(ctx, text, targetLanguage)
	if err != nil {
		return nil, &ports.StageError{Stage: "synthesis", Err: err}
	}
	return audio, nil
}

// fail — терминальный failed. Частичные результаты (transcription/translation)
// уже закоммичены предыдущими стадиями и остаются видимыми.
func (s *Service) fail(jobID, stage string, err error) {
	log.Printf("[pipeline] job=%s stage=%s fail: %v", jobID, stage, err)

	s.update(jobID, ports.JobUpdate{
		Status:  statusPtr(ports.StatusFailed),
		Message: strPtr(stage + " failed"),
	})

	if s.notifier != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = s.notifier.Notify(ctx, jobID, err, stage+" failed")
	}
}

func (s *Service) update(jobID string, upd ports.JobUpdate) {
	s.jobs.Update(jobID, upd)
}

func (s *Service) stageCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), s.stageTimeout)
}

func statusPtr(st ports.JobStatus) *ports.JobStatus { return &st }
func intPtr(i int) *int                             { return &i }
func strPtr(str string) *string                     { return &str }
