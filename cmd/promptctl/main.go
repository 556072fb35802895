package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"artmint/internal/infra"
	"artmint/internal/ledger"
	"artmint/internal/sqlinline"
)

func main() {
	var (
		promptFlag string
		walletFlag string
		statusFlag string
		listFlag   int
	)

	flag.StringVar(&promptFlag, "prompt", "", "prompt text to enqueue")
	flag.StringVar(&walletFlag, "wallet", "", "wallet address to mint the result to (optional)")
	flag.StringVar(&statusFlag, "status", "", "prompt ID to inspect")
	flag.IntVar(&listFlag, "list", 0, "list the N most recent prompts")
	flag.Parse()

	prompt := strings.TrimSpace(promptFlag)
	wallet := strings.TrimSpace(walletFlag)
	statusID := strings.TrimSpace(statusFlag)

	if prompt == "" && statusID == "" && listFlag <= 0 {
		exitWithError(errors.New("one of -prompt, -status or -list must be provided"))
	}
	if wallet != "" && !ledger.ValidAddress(wallet) {
		exitWithError(fmt.Errorf("invalid wallet address %q", wallet))
	}

	_ = godotenv.Load()
	dbURL := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if dbURL == "" {
		exitWithError(errors.New("DATABASE_URL is required"))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		exitWithError(fmt.Errorf("failed to connect database: %w", err))
	}
	defer pool.Close()

	logger := infra.NewLogger("cli").With().Str("cmd", "promptctl").Logger()
	runner := infra.NewSQLRunner(pool, logger)

	switch {
	case prompt != "":
		enqueue(ctx, runner, prompt, wallet)
	case statusID != "":
		showStatus(ctx, runner, statusID)
	default:
		listRecent(ctx, runner, listFlag)
	}
}

func enqueue(ctx context.Context, runner *infra.SQLRunner, prompt, wallet string) {
	row := runner.QueryRow(ctx, sqlinline.QInsertPrompt, prompt, wallet)
	var id string
	var createdAt time.Time
	if err := row.Scan(&id, &createdAt); err != nil {
		exitWithError(fmt.Errorf("failed to enqueue prompt: %w", err))
	}
	fmt.Printf("Enqueued prompt %s at %s\n", id, createdAt.Format(time.RFC3339))
}

func showStatus(ctx context.Context, runner *infra.SQLRunner, id string) {
	row := runner.QueryRow(ctx, sqlinline.QSelectPrompt, id)
	var (
		promptID, text, status, wallet, errMsg string
		imageURL, metadataURL, txHash          string
		createdAt, updatedAt                   time.Time
	)
	if err := row.Scan(&promptID, &text, &status, &wallet, &errMsg,
		&createdAt, &updatedAt, &imageURL, &metadataURL, &txHash); err != nil {
		if infra.IsNoRows(err) {
			exitWithError(fmt.Errorf("prompt %s not found", id))
		}
		exitWithError(fmt.Errorf("failed to load prompt: %w", err))
	}

	fmt.Printf("Prompt %s [%s]\n", promptID, status)
	fmt.Printf("  text: %s\n", text)
	if wallet != "" {
		fmt.Printf("  wallet: %s\n", wallet)
	}
	if errMsg != "" {
		fmt.Printf("  error: %s\n", errMsg)
	}
	if imageURL != "" {
		fmt.Printf("  image: %s\n", imageURL)
	}
	if metadataURL != "" {
		fmt.Printf("  metadata: %s\n", metadataURL)
	}
	if txHash != "" {
		fmt.Printf("  tx: %s\n", txHash)
	}
	fmt.Printf("  created: %s  updated: %s\n", createdAt.Format(time.RFC3339), updatedAt.Format(time.RFC3339))
}

func listRecent(ctx context.Context, runner *infra.SQLRunner, limit int) {
	rows, err := runner.Query(ctx, sqlinline.QSelectRecentPrompts, limit)
	if err != nil {
		exitWithError(fmt.Errorf("failed to list prompts: %w", err))
	}
	defer rows.Close()

	for rows.Next() {
		var id, text, status, errMsg string
		var createdAt time.Time
		if err := rows.Scan(&id, &text, &status, &errMsg, &createdAt); err != nil {
			exitWithError(fmt.Errorf("failed to scan prompt: %w", err))
		}
		line := fmt.Sprintf("%s  %-10s  %s  %s", createdAt.Format(time.RFC3339), status, id, truncate(text, 60))
		if errMsg != "" {
			line += "  (" + truncate(errMsg, 40) + ")"
		}
		fmt.Println(line)
	}
	if err := rows.Err(); err != nil {
		exitWithError(fmt.Errorf("failed to read prompts: %w", err))
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}

func exitWithError(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
