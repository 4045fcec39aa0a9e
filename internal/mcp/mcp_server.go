// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/sinteticoai/givemetry/internal/contract"
)

// NewMCPServer initializes and configures the Givemetry MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config) *server.MCPServer {
	s := server.NewMCPServer(
		"Givemetry Analysis Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
	}

	// --- 1. Tool: get_lapse_risk ---
	s.AddTool(mcp.NewTool("get_lapse_risk",
		mcp.WithDescription("Score every constituent for lapse risk and return them ranked, highest risk first."),
		mcp.WithString("data_dir", mcp.Description("Directory holding constituents.csv, gifts.csv and contacts.csv (defaults to the configured files).")),
		mcp.WithString("as_of", mcp.Description("Reference date for all calculations (YYYY-MM-DD). Defaults to the configured reference date.")),
		mcp.WithNumber("limit", mcp.Description("Limit the number of results returned.")),
	), h.handleGetLapseRisk)

	// --- 2. Tool: get_health_report ---
	s.AddTool(mcp.NewTool("get_health_report",
		mcp.WithDescription("Compute the organization-wide data quality report: per-constituent completeness, category scores and letter grade."),
		mcp.WithString("data_dir", mcp.Description("Directory holding the CSV data files.")),
		mcp.WithString("as_of", mcp.Description("Reference date for the freshness window (YYYY-MM-DD).")),
	), h.handleGetHealthReport)

	// --- 3. Tool: get_constituent_alerts ---
	s.AddTool(mcp.NewTool("get_constituent_alerts",
		mcp.WithDescription("Detect anomalies across all constituents and return the generated alerts with a rollup summary."),
		mcp.WithString("data_dir", mcp.Description("Directory holding the CSV data files.")),
		mcp.WithString("as_of", mcp.Description("Reference date for anomaly detection (YYYY-MM-DD).")),
		mcp.WithString("min_severity", mcp.Description("Drop alerts below this severity."), mcp.Enum("low", "medium", "high")),
	), h.handleGetConstituentAlerts)

	// --- 4. Tool: get_portfolio_balance ---
	s.AddTool(mcp.NewTool("get_portfolio_balance",
		mcp.WithDescription("Analyze gift officer portfolio balance and suggest constituent reassignments."),
		mcp.WithString("data_dir", mcp.Description("Directory holding the CSV data files.")),
		mcp.WithString("as_of", mcp.Description("Reference date for workload risk scoring (YYYY-MM-DD).")),
	), h.handleGetPortfolioBalance)

	return s
}

// StartMCPServer starts the Givemetry MCP server.
func StartMCPServer(_ context.Context, baseCfg *contract.Config) error {
	s := NewMCPServer(baseCfg)
	return server.ServeStdio(s)
}
