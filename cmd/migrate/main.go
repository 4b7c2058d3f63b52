// cmd/migrate/main.go
//
// One-off backfill: rewrite history documents whose status is the legacy
// English "sent" to the localized 送信済. Dry-run by default.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"github.com/rikulab/recruit-notify/internal/firestore"
)

func main() {
	uid := flag.String("uid", "", "account UID to migrate (required)")
	apply := flag.Bool("apply", false, "actually apply changes (default lists only)")
	flag.Parse()

	if *uid == "" {
		log.Fatal("-uid is required")
	}

	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, relying on OS environment variables")
	}

	client, err := firestore.NewClientFromEnv()
	if err != nil {
		log.Fatal("failed to configure store client: ", err)
	}

	ctx := context.Background()
	docs, err := client.ListDocuments(ctx, fmt.Sprintf("accounts/%s/sms_history", *uid))
	if err != nil {
		log.Fatal("failed to list history: ", err)
	}

	var toUpdate []firestore.Document
	for _, doc := range docs {
		if doc.Fields.Str("status") == "sent" {
			toUpdate = append(toUpdate, doc)
		}
	}

	fmt.Printf("Found %d document(s) with status==\"sent\" under account %s\n", len(toUpdate), *uid)
	for _, doc := range toUpdate {
		fmt.Printf("- %s tel=%s sentAt=%d\n", doc.ID(), doc.Fields.Str("tel"), doc.Fields.Int("sentAt"))
	}

	if !*apply {
		fmt.Println("Dry-run mode. No changes applied.")
		return
	}

	fmt.Println("Applying updates...")
	success := 0
	for _, doc := range toUpdate {
		fields := map[string]firestore.Value{"status": firestore.String("送信済")}
		if err := client.PatchDocumentName(ctx, doc.Name, fields, []string{"status"}); err != nil {
			log.Printf("failed to update %s: %v", doc.ID(), err)
			continue
		}
		success++
	}
	fmt.Printf("Updated %d/%d documents.\n", success, len(toUpdate))
}
