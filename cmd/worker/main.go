package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"

	"campusevents/internal/config"
	"campusevents/internal/mailer"
	"campusevents/internal/metrics"
	"campusevents/internal/queue"
	"campusevents/internal/store"
)

// Worker consumes mail jobs from the queue and delivers them through the
// configured mailer backend.
func main() {
	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Println("shutdown signal received")
		cancel()
	}()

	redisClient := store.NewRedis(cfg.RedisAddr)

	var q queue.Queue
	if cfg.QueueBackend == "memory" {
		q = queue.NewInMemory(64)
	} else {
		q = queue.NewRedisQueue(redisClient.Client, "campusevents:mail")
	}

	var m mailer.Mailer
	if cfg.MailBackend == "sendgrid" && cfg.SendgridAPIKey != "" {
		m = mailer.NewSendgrid(cfg.SendgridAPIKey, cfg.AppName, cfg.MailFrom)
		log.Println("sendgrid mailer configured")
	} else {
		m = mailer.NewConsole(cfg.MailFrom)
		log.Println("console mailer configured")
	}

	messages, err := q.Consume(ctx)
	if err != nil {
		log.Fatalf("queue consume init failed: %v", err)
	}

	log.Println("worker started, waiting for messages...")
	for msg := range messages {
		if msg.Type != mailer.JobRegistrationConfirmed {
			continue
		}

		var job mailer.RegistrationJob
		if err := json.Unmarshal(msg.Body, &job); err != nil {
			log.Printf("bad mail job payload: %v", err)
			metrics.MailJobsTotal.WithLabelValues("invalid").Inc()
			continue
		}

		if err := m.Send(job.Render()); err != nil {
			log.Printf("mail to %s failed: %v", job.Email, err)
			metrics.MailJobsTotal.WithLabelValues("failed").Inc()
			continue
		}
		metrics.MailJobsTotal.WithLabelValues("sent").Inc()
	}

	log.Println("worker stopped")
}
