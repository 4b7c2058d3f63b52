// cmd/preview/main.go
//
// Preview a composed auto-reply mail without sending it.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"github.com/rikulab/recruit-notify/internal/firestore"
	"github.com/rikulab/recruit-notify/internal/repository"
	"github.com/rikulab/recruit-notify/internal/service"
)

func main() {
	uid := flag.String("uid", "", "account UID to read settings from (required)")
	target := flag.Bool("target", false, "preview as target (A); default is non-target (B)")
	detailJSON := flag.String("detail", "", "JSON of detail fields (name, job_title, account_name, ...)")
	segmentID := flag.String("segment-id", "", "preview using a specific segment's mail action")
	listSegments := flag.Bool("list-segments", false, "list segments and exit")
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
	settingsRepo := &repository.SettingsRepository{Client: client}
	ctx := context.Background()

	if *listSegments {
		segs, err := settingsRepo.ListTargetSegments(ctx, *uid)
		if err != nil {
			log.Fatal("failed to list segments: ", err)
		}
		fmt.Println("=== SEGMENTS ===")
		for _, s := range segs {
			fmt.Printf("%s | prio=%d | enabled=%v | title=%s\n", s.ID, s.Priority, s.Enabled, s.Title)
		}
		return
	}

	detail := map[string]string{}
	if *detailJSON != "" {
		if err := json.Unmarshal([]byte(*detailJSON), &detail); err != nil {
			log.Println("detail JSON did not parse, using defaults:", err)
			detail = map[string]string{}
		}
	}
	if len(detail) == 0 {
		detail = map[string]string{
			"name":         "テスト 太郎",
			"job_title":    "WEBデザイナー",
			"account_name": "りくらぼ株式会社",
			"email":        "foo@example.com",
		}
	}

	previewService := &service.PreviewService{Settings: settingsRepo}
	p, err := previewService.PreviewMail(ctx, *uid, *target, *segmentID, detail)
	if err != nil {
		log.Fatal("preview failed: ", err)
	}

	fmt.Println("=== PREVIEW MAIL ===")
	fmt.Println("Source      :", p.Source)
	fmt.Println("Target?     :", *target)
	for _, note := range p.Notes {
		fmt.Println("[NOTE]", note)
	}
	raw := []rune(p.BodyRaw)
	if len(raw) > 500 {
		raw = raw[:500]
	}
	fmt.Println("Subject(raw):", p.SubjectRaw)
	fmt.Println("Body(raw)   :", string(raw))
	fmt.Println("--- After substitution ---")
	fmt.Println("Subject     :", p.Subject)
	fmt.Println("Body        :", p.Body)
}
