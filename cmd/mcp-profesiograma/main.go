// Command mcp-profesiograma runs the MCP tool server for risk assessment and
// profile submissions. Uses stdio transport for integration with AI assistants.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.temporal.io/sdk/client"

	"github.com/sgsst/profesiograma-go/internal/config"
	"github.com/sgsst/profesiograma-go/internal/mcpserver"
	"github.com/sgsst/profesiograma-go/internal/observability"
	"github.com/sgsst/profesiograma-go/internal/temporal/querier"
)

func main() {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		slog.Error("config error", "error", err)
		os.Exit(1)
	}
	// stdout carries the protocol.
	logger := observability.InitLoggerTo(os.Stderr, cfg.LogLevel, "mcp")

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "profesiograma",
		Version: "v1.0.0",
	}, nil)

	var q querier.WorkflowQuerier
	c, err := client.Dial(client.Options{
		Logger: observability.NewTemporalSlogAdapter(logger),
	})
	if err != nil {
		logger.Warn("temporal unavailable, submission tools disabled", "error", err)
	} else {
		defer c.Close()
		q = querier.New(c)
	}
	mcpserver.RegisterTools(server, q)

	if err := server.Run(context.Background(), &mcp.StdioTransport{}); err != nil {
		logger.Error("mcp server error", "error", err)
		os.Exit(1)
	}
}
