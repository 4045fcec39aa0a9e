package mcp

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/sinteticoai/givemetry/core"
	"github.com/sinteticoai/givemetry/core/algo"
	"github.com/sinteticoai/givemetry/internal/contract"
	"github.com/sinteticoai/givemetry/internal/ingest"
	"github.com/sinteticoai/givemetry/schema"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
}

// resolveConfig applies the per-request data_dir and as_of overrides to a
// clone of the base config.
func (h *toolHandler) resolveConfig(request mcp.CallToolRequest) (*contract.Config, error) {
	cfg := h.baseCfg.Clone()

	if dir := request.GetString("data_dir", ""); dir != "" {
		cfg.ConstituentsFile = filepath.Join(dir, "constituents.csv")
		cfg.GiftsFile = filepath.Join(dir, "gifts.csv")
		cfg.ContactsFile = filepath.Join(dir, "contacts.csv")
	}

	if asOf := request.GetString("as_of", ""); asOf != "" {
		t, err := time.Parse(contract.DateOnlyFormat, asOf)
		if err != nil {
			return nil, fmt.Errorf("invalid as_of value '%s'. Expected YYYY-MM-DD", asOf)
		}
		cfg.ReferenceDate = t
	}

	return cfg, nil
}

func (h *toolHandler) handleGetLapseRisk(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.resolveConfig(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if l := request.GetInt("limit", 0); l > 0 {
		cfg.ResultLimit = l
	}

	data, err := ingest.LoadAll(cfg)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("data load failed: %v", err)), nil
	}

	items := core.CalculateBatchLapseRisk(ctx, cfg, data)
	ranked := algo.RankRiskItems(items, cfg.ResultLimit)

	jsonData, _ := json.MarshalIndent(ranked, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetHealthReport(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.resolveConfig(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	data, err := ingest.LoadAll(cfg)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("data load failed: %v", err)), nil
	}

	report := core.BuildHealthReport(data, cfg)

	jsonData, _ := json.MarshalIndent(report, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetConstituentAlerts(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.resolveConfig(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if raw := request.GetString("min_severity", ""); raw != "" {
		sev := schema.Severity(strings.ToLower(raw))
		if _, ok := schema.ValidSeverities[sev]; !ok {
			return mcp.NewToolResultError(fmt.Sprintf("invalid min_severity '%s'. must be low, medium, high", raw)), nil
		}
		cfg.MinSeverity = sev
	}

	data, err := ingest.LoadAll(cfg)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("data load failed: %v", err)), nil
	}

	alerts := algo.GenerateAlertsForOrganization(data, cfg.ReferenceDate)
	if cfg.MinSeverity != "" {
		minRank := schema.SeverityRank(cfg.MinSeverity)
		kept := make([]schema.GeneratedAlert, 0, len(alerts))
		for _, a := range alerts {
			if schema.SeverityRank(a.Severity) >= minRank {
				kept = append(kept, a)
			}
		}
		alerts = kept
	}

	out := struct {
		Alerts  []schema.GeneratedAlert `json:"alerts"`
		Summary schema.AlertSummary     `json:"summary"`
	}{Alerts: alerts, Summary: algo.GetAlertSummary(alerts)}

	jsonData, _ := json.MarshalIndent(out, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetPortfolioBalance(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.resolveConfig(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	data, err := ingest.LoadAll(cfg)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("data load failed: %v", err)), nil
	}

	analysis := algo.AnalyzePortfolio(data, cfg.ReferenceDate)

	jsonData, _ := json.MarshalIndent(analysis, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}
