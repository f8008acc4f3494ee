// internal/server/tools.go
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/ThinkInAIXYZ/go-mcp/protocol"
	"github.com/ThinkInAIXYZ/go-mcp/server"
	"github.com/go-logr/logr"
	"github.com/google/uuid"

	"mcp-menu-gacha/internal/gacha"
	"mcp-menu-gacha/internal/models"
)

// Tool names
const (
	ToolPullGacha     = "pull_gacha"
	ToolListMenu      = "list_menu"
	ToolListAllergens = "list_allergens"
)

// PullGachaParams leaves every field optional; omitted fields fall back
// to the configured gacha defaults.
type PullGachaParams struct {
	MinBudget         *int  `json:"min_budget,omitempty" description:"Lowest acceptable total, in the menu's smallest currency unit"`
	MaxBudget         *int  `json:"max_budget,omitempty" description:"Highest acceptable total, in the menu's smallest currency unit"`
	AllowDuplicates   *bool `json:"allow_duplicates,omitempty" description:"Whether the same item may be picked more than once"`
	RequireStapleFood *bool `json:"require_staple_food,omitempty" description:"Whether the pull must contain a staple food item"`
}

// extractParams safely extracts parameters from the request arguments
func extractParams(req *protocol.CallToolRequest, target interface{}) error {
	// Convert the Arguments map to JSON bytes, then unmarshal to target
	jsonBytes, err := json.Marshal(req.Arguments)
	if err != nil {
		return fmt.Errorf("failed to marshal arguments: %w", err)
	}

	if err := json.Unmarshal(jsonBytes, target); err != nil {
		return fmt.Errorf("%w: %v", errInvalidParams, err)
	}

	return nil
}

// resolve fills omitted parameters from the server configuration.
func (s *GachaServer) resolve(params PullGachaParams) (minBudget, maxBudget int, opts models.GachaOptions) {
	defaults := s.config.Gacha
	minBudget, maxBudget = defaults.MinBudget, defaults.MaxBudget
	opts = models.GachaOptions{
		AllowDuplicates:   defaults.AllowDuplicates,
		RequireStapleFood: defaults.RequireStapleFood,
	}

	if params.MaxBudget != nil {
		maxBudget = *params.MaxBudget
		// a lone max_budget narrows the band to that single amount
		if params.MinBudget == nil && minBudget > maxBudget {
			minBudget = maxBudget
		}
	}
	if params.MinBudget != nil {
		minBudget = *params.MinBudget
	}
	if params.AllowDuplicates != nil {
		opts.AllowDuplicates = *params.AllowDuplicates
	}
	if params.RequireStapleFood != nil {
		opts.RequireStapleFood = *params.RequireStapleFood
	}
	return minBudget, maxBudget, opts
}

// handlePullGacha draws a random combination of menu items within budget
func (s *GachaServer) handlePullGacha(ctx context.Context, req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params PullGachaParams
	if err := extractParams(req, &params); err != nil {
		s.recorder.ObserveInvalid()
		return nil, err
	}

	minBudget, maxBudget, opts := s.resolve(params)
	if limit := s.config.Gacha.BudgetLimit; maxBudget > limit {
		s.recorder.ObserveInvalid()
		return nil, fmt.Errorf("%w: max_budget %d exceeds limit %d", errInvalidParams, maxBudget, limit)
	}

	menu, err := s.source.ListMenuItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load menu: %w", err)
	}

	logger := s.logger.WithValues("pullID", uuid.NewString())
	result, err := gacha.Pull(logr.NewContext(ctx, logger), menu, minBudget, maxBudget, opts)
	if err != nil {
		if errors.Is(err, gacha.ErrInvalidBudget) {
			s.recorder.ObserveInvalid()
			return nil, fmt.Errorf("%w: %v", errInvalidParams, err)
		}
		return nil, fmt.Errorf("failed to pull gacha: %w", err)
	}

	s.recorder.ObserveResult(result)
	logger.Info("Gacha pulled",
		"success", result.Success,
		"totalAmount", result.TotalAmount,
		"items", len(result.Items),
		"relaxed", result.Relaxed)

	return s.createJSONResponse(result)
}

// handleListMenu returns the current menu
func (s *GachaServer) handleListMenu(ctx context.Context, req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	menu, err := s.source.ListMenuItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load menu: %w", err)
	}
	return s.createJSONResponse(menu)
}

// handleListAllergens returns the allergen types with their display labels
func (s *GachaServer) handleListAllergens(ctx context.Context, req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	allergens := make([]models.AllergenInfo, 0, len(models.AllergenMetadata))
	for _, info := range models.AllergenMetadata {
		allergens = append(allergens, info)
	}
	slices.SortFunc(allergens, func(a, b models.AllergenInfo) int {
		return strings.Compare(string(a.Value), string(b.Value))
	})
	return s.createJSONResponse(allergens)
}

func pullGachaTool() *protocol.Tool {
	return &protocol.Tool{
		Name:        ToolPullGacha,
		Description: "Draw a random combination of menu items whose total price falls within a budget",
		InputSchema: protocol.InputSchema{
			Type: protocol.Object,
			Properties: map[string]interface{}{
				"min_budget": map[string]string{
					"type":        "integer",
					"description": "Lowest acceptable total, in the menu's smallest currency unit",
				},
				"max_budget": map[string]string{
					"type":        "integer",
					"description": "Highest acceptable total, in the menu's smallest currency unit",
				},
				"allow_duplicates": map[string]string{
					"type":        "boolean",
					"description": "Whether the same item may be picked more than once",
				},
				"require_staple_food": map[string]string{
					"type":        "boolean",
					"description": "Whether the pull must contain a staple food item",
				},
			},
		},
	}
}

func noArgsTool(name, description string) *protocol.Tool {
	return &protocol.Tool{
		Name:        name,
		Description: description,
		InputSchema: protocol.InputSchema{Type: protocol.Object},
	}
}

// mcpHandler adapts a tool handler to go-mcp. Argument errors become tool
// results flagged IsError so the client sees the message; anything else is
// returned as a JSON-RPC error.
func (s *GachaServer) mcpHandler(name string, handle toolHandler) server.ToolHandlerFunc {
	return func(req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
		result, err := handle(context.Background(), req)
		if err == nil {
			return result, nil
		}
		if errors.Is(err, errInvalidParams) {
			s.logger.V(1).Info("Rejected tool call", "tool", name, "reason", err.Error())
			return &protocol.CallToolResult{
				Content: []protocol.Content{
					protocol.TextContent{Type: "text", Text: err.Error()},
				},
				IsError: true,
			}, nil
		}
		s.logger.Error(err, "Tool call failed", "tool", name)
		return nil, err
	}
}

func (s *GachaServer) registerTools() error {
	tools := []struct {
		tool   *protocol.Tool
		handle toolHandler
	}{
		{pullGachaTool(), s.handlePullGacha},
		{noArgsTool(ToolListMenu, "List every item on the menu"), s.handleListMenu},
		{noArgsTool(ToolListAllergens, "List allergen types with their display labels"), s.handleListAllergens},
	}

	s.tools = make(map[string]toolHandler, len(tools))
	for _, t := range tools {
		s.tools[t.tool.Name] = t.handle
		s.server.RegisterTool(t.tool, s.mcpHandler(t.tool.Name, t.handle))
		s.logger.V(1).Info("Registered tool", "tool", t.tool.Name)
	}

	return nil
}
