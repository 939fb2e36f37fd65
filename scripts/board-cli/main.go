package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"connectrpc.com/connect"
	boardv1 "github.com/KrishPatel1605/AI-magine-Board-Web/pkg/board/v1"
	"github.com/KrishPatel1605/AI-magine-Board-Web/pkg/board/v1/boardv1connect"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: board-cli <strokes.json>")
	}
	strokesFile := os.Args[1]

	boardURL := os.Getenv("BOARD_URL")
	if boardURL == "" {
		boardURL = "http://localhost:50053"
	}
	email := os.Getenv("BOARD_EMAIL")
	password := os.Getenv("BOARD_PASSWORD")
	if email == "" || password == "" {
		log.Fatal("BOARD_EMAIL and BOARD_PASSWORD environment variables are required")
	}

	strokes, err := loadStrokes(strokesFile)
	if err != nil {
		log.Fatalf("Failed to read strokes: %v", err)
	}

	// The server keys the tab on the token it hands out on the first call.
	httpClient := &http.Client{Transport: &boardv1.TabTransport{}}
	client := boardv1connect.NewBoardServiceClient(httpClient, boardURL)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	fmt.Printf("🔐 Signing in as %s (%s)...\n", email, boardURL)
	signIn, err := client.SignIn(ctx, connect.NewRequest(&boardv1.SignInRequest{
		Email:    email,
		Password: password,
	}))
	if err != nil {
		log.Fatalf("❌ Sign-in failed: %v", err)
	}
	fmt.Printf("  Plan: %s\n", signIn.Msg.State.Plan)

	if _, err := client.ResetCanvas(ctx, connect.NewRequest(&boardv1.ResetCanvasRequest{})); err != nil {
		log.Fatalf("❌ Reset failed: %v", err)
	}

	fmt.Printf("✏️  Drawing %d strokes...\n", len(strokes))
	for i := range strokes {
		req := connect.NewRequest(&boardv1.AddStrokeRequest{Stroke: &strokes[i]})
		if _, err := client.AddStroke(ctx, req); err != nil {
			log.Fatalf("❌ Stroke %d rejected: %v", i, err)
		}
	}

	fmt.Println("🧠 Solving...")
	resp, err := client.Solve(ctx, connect.NewRequest(&boardv1.SolveRequest{}))
	if err != nil {
		var connectErr *connect.Error
		if errors.As(err, &connectErr) && connectErr.Code() == connect.CodePermissionDenied {
			fmt.Printf("🔒 %s\n", connectErr.Message())
			os.Exit(2)
		}
		log.Fatalf("❌ Solve failed: %v", err)
	}

	fmt.Println("✅ Answer:")
	fmt.Println(resp.Msg.State.Response)
}

// loadStrokes reads a JSON array of strokes
func loadStrokes(path string) ([]boardv1.Stroke, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var strokes []boardv1.Stroke
	if err := json.Unmarshal(data, &strokes); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if len(strokes) == 0 {
		return nil, fmt.Errorf("%s contains no strokes", path)
	}
	return strokes, nil
}
