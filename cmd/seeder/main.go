// cmd/seeder/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/rikulab/recruit-notify/internal/firestore"
	"github.com/rikulab/recruit-notify/internal/model"
	"github.com/rikulab/recruit-notify/internal/repository"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, relying on OS environment variables")
	}

	seedFile := "seed/tasks.json"
	if len(os.Args) > 1 {
		seedFile = os.Args[1]
	}

	content, err := os.ReadFile(seedFile)
	if err != nil {
		log.Fatalf("failed to read %s: %v", seedFile, err)
	}

	var tasks []model.ScheduledTask
	if err := json.Unmarshal(content, &tasks); err != nil {
		log.Fatalf("failed to parse %s: %v", seedFile, err)
	}

	client, err := firestore.NewClientFromEnv()
	if err != nil {
		log.Fatal("failed to configure store client: ", err)
	}
	taskRepo := &repository.TaskRepository{Client: client}

	ctx := context.Background()
	for i := range tasks {
		t := &tasks[i]
		if t.ID == "" {
			t.ID = uuid.NewString()
		}
		t.Status = model.StatusPending
		if err := taskRepo.Create(ctx, t); err != nil {
			log.Fatalf("failed to seed task %s: %v", t.ID, err)
		}
		fmt.Printf("Seeded: %s (%s -> %s)\n", t.ID, t.TaskType, t.To)
	}

	fmt.Println("Task seeding completed successfully!")
}
