package ports

import "context"

type Notifier interface {
	// Notify — отправляет сообщение об ошибке пайплайна админу
	Notify(ctx context.Context, jobID string, err error, details string) error
}
