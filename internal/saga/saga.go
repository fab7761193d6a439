package saga

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// Step é uma escrita com sua compensação. Undo pode ser nil quando o passo
// não deixa nada para desfazer.
type Step struct {
	Name string
	Do   func(ctx context.Context) error
	Undo func(ctx context.Context) error
}

// Saga executa passos em ordem e, se um falhar, desfaz os já concluídos em
// ordem reversa.
type Saga struct {
	name   string
	steps  []Step
	logger *zap.Logger
}

func New(name string, logger *zap.Logger) *Saga {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Saga{name: name, logger: logger}
}

func (s *Saga) Add(name string, do, undo func(ctx context.Context) error) *Saga {
	s.steps = append(s.steps, Step{Name: name, Do: do, Undo: undo})
	return s
}

// StepError identifica o passo que falhou. Unwrap devolve o erro original
// junto com eventuais falhas de compensação.
type StepError struct {
	Saga         string
	Step         string
	Err          error
	Compensation error
}

func (e *StepError) Error() string {
	msg := fmt.Sprintf("saga %s: step %s: %v", e.Saga, e.Step, e.Err)
	if e.Compensation != nil {
		msg += fmt.Sprintf(" (compensation failed: %v)", e.Compensation)
	}
	return msg
}

func (e *StepError) Unwrap() []error {
	if e.Compensation == nil {
		return []error{e.Err}
	}
	return []error{e.Err, e.Compensation}
}

// Compensated informa se todas as compensações rodaram sem erro.
func (e *StepError) Compensated() bool {
	return e.Compensation == nil
}

func (s *Saga) Run(ctx context.Context) error {
	for i, step := range s.steps {
		if err := step.Do(ctx); err != nil {
			s.logger.Warn("saga step failed, compensating",
				zap.String("saga", s.name),
				zap.String("step", step.Name),
				zap.Error(err),
			)
			return &StepError{
				Saga:         s.name,
				Step:         step.Name,
				Err:          err,
				Compensation: s.compensate(ctx, i),
			}
		}
	}
	return nil
}

// compensate desfaz os passos [0, failed) em ordem reversa. Usa um contexto
// sem cancelamento para que a reversão rode mesmo se o pedido original
// tiver expirado.
func (s *Saga) compensate(ctx context.Context, failed int) error {
	undoCtx := context.WithoutCancel(ctx)

	var errs []error
	for i := failed - 1; i >= 0; i-- {
		step := s.steps[i]
		if step.Undo == nil {
			continue
		}
		if err := step.Undo(undoCtx); err != nil {
			s.logger.Error("saga compensation failed",
				zap.String("saga", s.name),
				zap.String("step", step.Name),
				zap.Error(err),
			)
			errs = append(errs, fmt.Errorf("undo %s: %w", step.Name, err))
		}
	}
	return errors.Join(errs...)
}
