package events

import (
	"context"
	"errors"

	"haunted_slot/internal/model"
)

// Publisher получатель событий спина
type Publisher interface {
	Publish(ctx context.Context, o *model.Outcome) error
}

// Multi отправляет событие всем получателям, ошибки объединяются
type Multi []Publisher

func NewMulti(ps ...Publisher) Multi {
	out := make(Multi, 0, len(ps))
	for _, p := range ps {
		if p != nil {
			out = append(out, p)
		}
	}
	return out
}

func (m Multi) Publish(ctx context.Context, o *model.Outcome) error {
	var errs []error
	for _, p := range m {
		if err := p.Publish(ctx, o); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
