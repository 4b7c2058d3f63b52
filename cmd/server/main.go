// cmd/server/main.go
package main

import (
	"log"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"

	"github.com/rikulab/recruit-notify/internal/controller"
	"github.com/rikulab/recruit-notify/internal/firestore"
	"github.com/rikulab/recruit-notify/internal/handler"
	"github.com/rikulab/recruit-notify/internal/queue"
	"github.com/rikulab/recruit-notify/internal/repository"
	"github.com/rikulab/recruit-notify/internal/service"
)

func main() {
	// Load .env
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, relying on OS environment variables")
	}

	client, err := firestore.NewClientFromEnv()
	if err != nil {
		log.Fatal("failed to configure store client: ", err)
	}

	taskRepo := &repository.TaskRepository{Client: client}
	historyRepo := &repository.HistoryRepository{Client: client}
	settingsRepo := &repository.SettingsRepository{Client: client}

	var q queue.Queue
	if amqpURL := os.Getenv("AMQP_URL"); amqpURL != "" {
		aq, err := queue.DialAMQP(amqpURL)
		if err != nil {
			log.Println("failed to connect to broker, task nudges disabled:", err)
		} else {
			defer aq.Close()
			q = aq
		}
	}

	taskService := &service.TaskService{
		TaskRepo: taskRepo,
		Queue:    q,
	}
	previewService := &service.PreviewService{
		Settings: settingsRepo,
	}

	taskController := &controller.TaskController{
		TaskService:    taskService,
		PreviewService: previewService,
	}
	taskHandler := &handler.TaskHandler{
		TaskService: taskService,
		HistoryRepo: historyRepo,
	}

	r := chi.NewRouter()

	// Task routes
	r.Post("/tasks", taskController.CreateTask)
	r.Get("/tasks", taskController.ListTasks)
	r.Get("/tasks/{id}", taskHandler.GetTaskHandler)
	r.Get("/history", taskHandler.ListHistoryHandler)
	r.Post("/preview", taskController.PreviewMail)

	addr := ":8080"
	if port := os.Getenv("PORT"); port != "" {
		addr = ":" + port
	}

	log.Println("server running on", addr)
	log.Fatal(http.ListenAndServe(addr, r))
}
