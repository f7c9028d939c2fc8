package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/todo-tenant-api/config"
	"github.com/oksasatya/todo-tenant-api/pkg/helpers"
	"github.com/oksasatya/todo-tenant-api/pkg/mailer"
)

func main() {
	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("config")
	}
	logger := helpers.NewLogger(cfg.AppName+"-email-worker", cfg.Env, cfg.LogLevel)

	if !cfg.MailSendEnabled {
		logger.Info("MAIL_SEND_ENABLED=false; email worker disabled (no real emails will be sent)")
		return
	}
	if cfg.RabbitMQURL == "" || cfg.RabbitMQEmailQueue == "" {
		logger.Fatal("RabbitMQ not configured")
	}
	if cfg.MailgunDomain == "" || cfg.MailgunAPIKey == "" || cfg.MailgunSender == "" {
		logger.Fatal("Mailgun not configured")
	}

	conn, err := amqp.Dial(cfg.RabbitMQURL)
	if err != nil {
		logger.WithError(err).Fatal("amqp dial")
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		logger.WithError(err).Fatal("amqp channel")
	}
	defer func() { _ = ch.Close() }()

	// prefetch for fair dispatch
	if err := ch.Qos(16, 0, false); err != nil {
		logger.WithError(err).Fatal("qos")
	}
	queue := cfg.RabbitMQEmailQueue
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		logger.WithError(err).Fatal("queue declare")
	}
	if _, err := ch.QueueDeclare(mailer.RetryQueue(queue), true, false, false, false, mailer.RetryQueueArgs(queue)); err != nil {
		logger.WithError(err).Fatal("retry queue declare")
	}
	if _, err := ch.QueueDeclare(mailer.ParkingQueue(queue), true, false, false, false, nil); err != nil {
		logger.WithError(err).Fatal("parking queue declare")
	}
	msgs, err := ch.Consume(queue, "", false, false, false, false, nil)
	if err != nil {
		logger.WithError(err).Fatal("consume")
	}

	w := &worker{
		logger: logger,
		sender: mailer.NewMailgun(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.MailgunSender),
		pub:    ch,
		queue:  queue,
		retry: mailer.RetryPolicy{
			MaxAttempts: cfg.MailMaxAttempts,
			BaseDelay:   cfg.MailRetryDelay,
			MaxDelay:    cfg.MailRetryMax,
		},
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	done := make(chan struct{})

	go func() {
		defer close(done)
		for msg := range msgs {
			w.handle(ctx, msg)
		}
	}()

	logger.WithFields(logrus.Fields{"queue": queue, "max_attempts": cfg.MailMaxAttempts}).Info("email worker listening")
	<-stop
	logger.Info("shutting down...")
	cancel()
	_ = ch.Close()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
	}
}
