package ports

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrEncoding     = errors.New("unable to decode audio")
	ErrStorage      = errors.New("storage failure")
)

// StageError — ошибка конкретной стадии пайплайна (transcription/translation/synthesis).
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }
