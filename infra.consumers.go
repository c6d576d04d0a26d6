package main

import (
	"context"

	"go.uber.org/zap"
)

type Consumer interface {
	Consume(ctx context.Context, qids ...string) error
}

// archiveConsumer drains the events queue and persists each mutation
// event into the bolt archive. It is the only writer of the archive.
type archiveConsumer struct {
	logger  *zap.Logger
	queue   Queuer
	archive EventArchive
}

func NewArchiveConsumer(logger *zap.Logger, q Queuer, archive EventArchive) Consumer {
	return &archiveConsumer{logger, q, archive}
}

func (ac *archiveConsumer) Consume(ctx context.Context, qids ...string) error {
	var event Event
	var err error
	var qid string
	for {
		qid, event, err = ac.queue.Pop(ctx, qids...)
		if err != nil && ctx.Err() != nil {
			ac.logger.Info("consumer: queue pop call: context is done: exit", zap.String("reason", ctx.Err().Error()))
			return nil
		}

		if err != nil {
			ac.logger.Error("consumer: error on queue pop call", zap.Error(err))
			continue
		}

		if qid != EventsQueue {
			ac.logger.Warn("consumer: received event on unknown queue id", zap.String("qid", qid), zap.Any("event", event))
			continue
		}

		if err = ac.archive.Append(ctx, event); err != nil {
			ac.logger.Error("consumer: failed to archive event", zap.Any("event", event), zap.Error(err))
		}
	}
}
