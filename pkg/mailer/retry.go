package mailer

import (
	"strconv"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// AttemptHeader counts failed sends of a job.
const AttemptHeader = "x-send-attempts"

// RetryQueue holds failed jobs until their per-message TTL expires, then
// dead-letters them back onto the work queue.
func RetryQueue(queue string) string { return queue + ".retry" }

// ParkingQueue collects jobs that ran out of attempts.
func ParkingQueue(queue string) string { return queue + ".parked" }

// RetryQueueArgs routes expired retry messages back to queue.
func RetryQueueArgs(queue string) amqp.Table {
	return amqp.Table{
		"x-dead-letter-exchange":    "",
		"x-dead-letter-routing-key": queue,
	}
}

// RetryPolicy bounds redelivery of jobs whose send failed.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// Backoff doubles BaseDelay per attempt, capped at MaxDelay.
func (p RetryPolicy) Backoff(attempt int) time.Duration {
	d := p.BaseDelay
	for i := 1; i < attempt; i++ {
		d *= 2
		if p.MaxDelay > 0 && d >= p.MaxDelay {
			return p.MaxDelay
		}
	}
	if p.MaxDelay > 0 && d > p.MaxDelay {
		return p.MaxDelay
	}
	return d
}

// Exhausted reports whether attempt failed sends use up the budget.
func (p RetryPolicy) Exhausted(attempt int) bool {
	return attempt >= p.MaxAttempts
}

// Attempts reads AttemptHeader. Missing or unreadable values count as zero.
func Attempts(h amqp.Table) int {
	switch v := h[AttemptHeader].(type) {
	case int:
		return v
	case int32:
		return int(v)
	case int64:
		return int(v)
	default:
		return 0
	}
}

// Reschedule copies msg for its next attempt. A positive delay becomes the
// per-message TTL on the retry queue.
func Reschedule(msg amqp.Delivery, attempt int, delay time.Duration) amqp.Publishing {
	headers := amqp.Table{}
	for k, v := range msg.Headers {
		headers[k] = v
	}
	headers[AttemptHeader] = int32(attempt)

	pub := amqp.Publishing{
		Headers:      headers,
		ContentType:  msg.ContentType,
		DeliveryMode: amqp.Persistent,
		MessageId:    msg.MessageId,
		AppId:        msg.AppId,
		Timestamp:    msg.Timestamp,
		Body:         msg.Body,
	}
	if delay > 0 {
		pub.Expiration = strconv.FormatInt(delay.Milliseconds(), 10)
	}
	return pub
}
