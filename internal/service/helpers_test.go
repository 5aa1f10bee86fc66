package service

import (
	"context"
	"io"

	"github.com/rs/zerolog"

	"github.com/lumenlearn/lumen-api/internal/dto"
)

func testLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

type recordedActivity struct {
	entries []ActivityEntry
}

func (r *recordedActivity) Record(ctx context.Context, entry ActivityEntry) (dto.ActivityResponse, error) {
	r.entries = append(r.entries, entry)
	return dto.ActivityResponse{}, nil
}

func noopEvents() EventPublisher {
	return NewEventPublisher(nil, testLogger())
}
