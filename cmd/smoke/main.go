package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	mcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

func main() {
	endpoint := flag.String("endpoint", "http://localhost:8080/mcp/stream", "MCP streamable HTTP endpoint")
	userID := flag.String("user", "", "user UUID for get_profile; skipped when empty")
	timeout := flag.Duration("timeout", 30*time.Second, "overall timeout")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	client := mcp.NewClient(&mcp.Implementation{
		Name:    "jobmatch-smoke",
		Version: "0.2.0",
	}, nil)

	session, err := client.Connect(ctx, &mcp.StreamableClientTransport{Endpoint: *endpoint}, nil)
	if err != nil {
		log.Fatalf("Failed to connect: %v", err)
	}
	defer func() { _ = session.Close() }()

	log.Printf("Connected to server (session ID: %s)\n", session.ID())

	tools, err := session.ListTools(ctx, nil)
	if err != nil {
		log.Fatalf("list tools: %v", err)
	}
	fmt.Printf("%d tool(s) available\n", len(tools.Tools))

	failed := !run(ctx, session, "discovery_health", map[string]any{})
	if *userID != "" {
		failed = !run(ctx, session, "get_profile", map[string]any{"user_id": *userID}) || failed
	}

	if failed {
		log.Fatal("smoke test failed")
	}
	fmt.Println("\nAll checks passed")
}

func run(ctx context.Context, session *mcp.ClientSession, name string, args map[string]any) bool {
	fmt.Printf("\nTEST: %s\n", name)

	result, err := session.CallTool(ctx, &mcp.CallToolParams{Name: name, Arguments: args})
	if err != nil {
		log.Printf("%s failed: %v", name, err)
		return false
	}
	printResult(result)
	if result.IsError {
		log.Printf("%s returned a tool error", name)
		return false
	}
	return true
}

func printResult(res *mcp.CallToolResult) {
	for _, c := range res.Content {
		if txt, ok := c.(*mcp.TextContent); ok {
			fmt.Println(txt.Text)
		}
	}
}
