package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/rikulab/recruit-notify/internal/firestore"
	"github.com/rikulab/recruit-notify/internal/queue"
	"github.com/rikulab/recruit-notify/internal/repository"
	"github.com/rikulab/recruit-notify/internal/service"
)

func main() {
	// Load .env
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, relying on OS environment variables")
	}

	// Tenant from argument or environment
	uid := ""
	if len(os.Args) > 1 {
		uid = os.Args[1]
	} else {
		uid = os.Getenv("UID")
	}
	if uid == "" {
		log.Println("Usage: dispatcher <UID>")
		log.Println("Or set the UID environment variable")
		os.Exit(1)
	}

	dryRun := false
	switch os.Getenv("DRY_RUN_SMS") {
	case "1", "true", "yes":
		dryRun = true
	}

	client, err := firestore.NewClientFromEnv()
	if err != nil {
		log.Fatal("failed to configure store client: ", err)
	}

	taskRepo := &repository.TaskRepository{Client: client}
	historyRepo := &repository.HistoryRepository{Client: client}
	settingsRepo := &repository.SettingsRepository{Client: client}

	sms := service.NewSMSSender(settingsRepo, dryRun)
	mail := service.NewMailSender(settingsRepo, service.NewSMTPTransport())
	history := service.NewHistoryRecorder(historyRepo)

	dispatcher := service.NewDispatcher(taskRepo, sms, mail, history)
	if secs, err := strconv.Atoi(os.Getenv("POLL_INTERVAL_SECONDS")); err == nil && secs > 0 {
		dispatcher.Interval = time.Duration(secs) * time.Second
	}

	// Optional broker nudges: a task created through the API that is
	// already due triggers an immediate poll.
	if amqpURL := os.Getenv("AMQP_URL"); amqpURL != "" {
		q, err := queue.DialAMQP(amqpURL)
		if err != nil {
			log.Println("failed to connect to broker, polling only:", err)
		} else {
			defer q.Close()
			nudge, err := queue.NudgeChannel(q)
			if err != nil {
				log.Println("failed to subscribe for nudges:", err)
			} else {
				dispatcher.Nudge = nudge
			}
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Printf("dispatcher started (uid=%s, dry_run=%v, interval=%s)", uid, dryRun, dispatcher.Interval)
	dispatcher.Run(ctx, uid)
}
