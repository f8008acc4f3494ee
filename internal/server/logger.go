package server

import (
	"fmt"

	"github.com/ThinkInAIXYZ/go-mcp/pkg"
	"github.com/go-logr/logr"
)

// mcpLogger routes go-mcp's printf-style logging into logr.
type mcpLogger struct {
	logger logr.Logger
}

var _ pkg.Logger = mcpLogger{}

func newMCPLogger(logger logr.Logger) mcpLogger {
	return mcpLogger{logger: logger.WithName("mcp")}
}

func (l mcpLogger) Debugf(format string, a ...any) {
	l.logger.V(1).Info(fmt.Sprintf(format, a...))
}

func (l mcpLogger) Infof(format string, a ...any) {
	l.logger.Info(fmt.Sprintf(format, a...))
}

func (l mcpLogger) Warnf(format string, a ...any) {
	l.logger.Info(fmt.Sprintf(format, a...), "level", "warn")
}

func (l mcpLogger) Errorf(format string, a ...any) {
	l.logger.Error(nil, fmt.Sprintf(format, a...))
}
