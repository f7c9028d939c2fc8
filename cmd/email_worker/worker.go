package main

import (
	"context"
	"errors"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/todo-tenant-api/pkg/mailer"
)

// publisher is the part of *amqp.Channel used to reschedule jobs.
type publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

type worker struct {
	logger *logrus.Logger
	sender mailer.Sender
	pub    publisher
	queue  string
	retry  mailer.RetryPolicy
}

// handle delivers one message. Undeliverable jobs are dropped. Failed sends
// go to the retry queue with backoff until the attempt budget is spent, then
// to the parking queue.
func (w *worker) handle(ctx context.Context, msg amqp.Delivery) {
	job, err := mailer.Decode(msg.Body)
	if err != nil {
		w.logger.WithError(err).Warn("bad message")
		_ = msg.Nack(false, false)
		return
	}
	log := w.logger.WithFields(logrus.Fields{"template": job.Template, "delivery_tag": msg.DeliveryTag})

	c, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	if err := mailer.Deliver(c, w.sender, job); err != nil {
		if errors.Is(err, mailer.ErrBadJob) {
			log.WithError(err).Warn("dropping undeliverable job")
			_ = msg.Nack(false, false)
			return
		}
		w.reschedule(ctx, log.WithError(err), msg)
		return
	}
	log.Debug("email sent")
	_ = msg.Ack(false)
}

func (w *worker) reschedule(ctx context.Context, log *logrus.Entry, msg amqp.Delivery) {
	attempt := mailer.Attempts(msg.Headers) + 1
	parked := w.retry.Exhausted(attempt)
	target, delay := mailer.RetryQueue(w.queue), w.retry.Backoff(attempt)
	if parked {
		target, delay = mailer.ParkingQueue(w.queue), 0
	}

	pc, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := w.pub.PublishWithContext(pc, "", target, false, false, mailer.Reschedule(msg, attempt, delay)); err != nil {
		log.WithField("publish_error", err.Error()).Error("send failed and could not be rescheduled")
		_ = msg.Nack(false, true)
		return
	}
	log = log.WithFields(logrus.Fields{"attempt": attempt, "queue": target})
	if parked {
		log.Error("send failed; job parked")
	} else {
		log.WithField("retry_in", delay.String()).Warn("send failed; retry scheduled")
	}
	_ = msg.Ack(false)
}
