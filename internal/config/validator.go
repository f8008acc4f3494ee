package config

import (
	"fmt"
	"net/url"
	"slices"
	"strings"

	"mcp-menu-gacha/internal/logging"
)

// ValidationError represents a single validation failure
type ValidationError struct {
	Field   string // The config field path (e.g., "gacha.min_budget")
	Value   any    // The invalid value
	Message string // Human-readable error description
}

// Error implements the error interface for ValidationError
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for ValidationErrors
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for i, err := range e {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// Validate checks the Config for invalid values and returns all validation errors found
func (c *Config) Validate() []ValidationError {
	var errs []ValidationError

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, ValidationError{
			Field:   "server.port",
			Value:   c.Server.Port,
			Message: "must be between 1 and 65535",
		})
	}

	if c.Server.BaseURL != "" {
		if u, err := url.Parse(c.Server.BaseURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			errs = append(errs, ValidationError{
				Field:   "server.base_url",
				Value:   c.Server.BaseURL,
				Message: "must be an absolute http or https URL",
			})
		}
	}

	if c.Catalog.DBPath == "" && c.Catalog.MenuFile == "" {
		errs = append(errs, ValidationError{
			Field:   "catalog",
			Value:   "",
			Message: "either db_path or menu_file must be set",
		})
	}

	if c.Gacha.BudgetLimit < 0 {
		errs = append(errs, ValidationError{
			Field:   "gacha.budget_limit",
			Value:   c.Gacha.BudgetLimit,
			Message: "must be non-negative",
		})
	}
	if c.Gacha.MaxBudget < 0 {
		errs = append(errs, ValidationError{
			Field:   "gacha.max_budget",
			Value:   c.Gacha.MaxBudget,
			Message: "must be non-negative",
		})
	}
	if c.Gacha.MinBudget > c.Gacha.MaxBudget {
		errs = append(errs, ValidationError{
			Field:   "gacha.min_budget",
			Value:   c.Gacha.MinBudget,
			Message: fmt.Sprintf("must not exceed gacha.max_budget (%d)", c.Gacha.MaxBudget),
		})
	}
	if c.Gacha.MaxBudget > c.Gacha.BudgetLimit {
		errs = append(errs, ValidationError{
			Field:   "gacha.max_budget",
			Value:   c.Gacha.MaxBudget,
			Message: fmt.Sprintf("must not exceed gacha.budget_limit (%d)", c.Gacha.BudgetLimit),
		})
	}

	if !slices.Contains(logging.ValidLevels(), strings.ToLower(c.Logging.Level)) {
		errs = append(errs, ValidationError{
			Field:   "logging.level",
			Value:   c.Logging.Level,
			Message: fmt.Sprintf("must be one of %v", logging.ValidLevels()),
		})
	}

	return errs
}
