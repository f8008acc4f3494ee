package server

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"testing"
	"time"

	"github.com/ThinkInAIXYZ/go-mcp/protocol"
	"github.com/ThinkInAIXYZ/go-mcp/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mcp-menu-gacha/internal/catalog"
	"mcp-menu-gacha/internal/config"
	"mcp-menu-gacha/internal/logging"
	"mcp-menu-gacha/internal/models"
)

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type callResult struct {
	toolResponse
	IsError bool `json:"isError"`
}

// mcpSession talks JSON-RPC to a GachaServer over in-memory pipes.
type mcpSession struct {
	t      *testing.T
	in     io.Writer
	out    *bufio.Scanner
	nextID int
}

func newMCPSession(t *testing.T) *mcpSession {
	t.Helper()
	inR, inW := io.Pipe()
	outR, outW := io.Pipe()

	srv, err := newGachaServer(
		config.Default(),
		catalog.NewStatic(testMenu()),
		logging.NewTestLogger(),
		transport.NewMockServerTransport(inR, outW),
		nil,
	)
	require.NoError(t, err)
	go srv.runMCP()

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.server.Shutdown(ctx)
		_ = outW.Close()
	})

	s := &mcpSession{t: t, in: inW, out: bufio.NewScanner(outR)}
	s.out.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	resp := s.request(protocol.Initialize, protocol.InitializeRequest{ProtocolVersion: protocol.Version})
	require.Nil(t, resp.Error)
	s.send(protocol.NewJSONRPCNotification(protocol.NotificationInitialized, nil))
	return s
}

func (s *mcpSession) send(msg any) {
	s.t.Helper()
	data, err := json.Marshal(msg)
	require.NoError(s.t, err)
	_, err = s.in.Write(append(data, '\n'))
	require.NoError(s.t, err)
}

func (s *mcpSession) request(method protocol.Method, params any) rpcResponse {
	s.t.Helper()
	s.nextID++
	s.send(protocol.NewJSONRPCRequest(s.nextID, method, params))

	require.True(s.t, s.out.Scan(), "no response to %s", method)
	var resp rpcResponse
	require.NoError(s.t, json.Unmarshal(s.out.Bytes(), &resp))
	return resp
}

func (s *mcpSession) callTool(name string, args map[string]interface{}) callResult {
	s.t.Helper()
	resp := s.request(protocol.ToolsCall, protocol.CallToolRequest{Name: name, Arguments: args})
	require.Nil(s.t, resp.Error)

	var result callResult
	require.NoError(s.t, json.Unmarshal(resp.Result, &result))
	require.Len(s.t, result.Content, 1)
	return result
}

func TestMCPListTools(t *testing.T) {
	s := newMCPSession(t)

	resp := s.request(protocol.ToolsList, protocol.ListToolsRequest{})
	require.Nil(t, resp.Error)

	var list struct {
		Tools []protocol.Tool `json:"tools"`
	}
	require.NoError(t, json.Unmarshal(resp.Result, &list))

	names := make([]string, 0, len(list.Tools))
	for _, tool := range list.Tools {
		names = append(names, tool.Name)
		assert.Equal(t, protocol.Object, tool.InputSchema.Type)
		if tool.Name == ToolPullGacha {
			assert.Contains(t, tool.InputSchema.Properties, "min_budget")
			assert.Contains(t, tool.InputSchema.Properties, "require_staple_food")
		}
	}
	assert.ElementsMatch(t, []string{ToolPullGacha, ToolListMenu, ToolListAllergens}, names)
}

func TestMCPCallTool(t *testing.T) {
	s := newMCPSession(t)

	result := s.callTool(ToolPullGacha, map[string]interface{}{
		"allow_duplicates":    false,
		"require_staple_food": true,
	})
	assert.False(t, result.IsError)

	var pull models.GachaResult
	require.NoError(t, json.Unmarshal([]byte(result.Content[0].Text), &pull))
	assert.True(t, pull.Success)
	assert.Equal(t, 800, pull.TotalAmount)
	require.Len(t, pull.Items, 2)
	assert.Equal(t, "onigiri", pull.Items[0].ItemID)

	result = s.callTool(ToolListMenu, nil)
	var menu []models.MenuItem
	require.NoError(t, json.Unmarshal([]byte(result.Content[0].Text), &menu))
	assert.Len(t, menu, 3)
}

func TestMCPCallToolInvalidArguments(t *testing.T) {
	s := newMCPSession(t)

	result := s.callTool(ToolPullGacha, map[string]interface{}{"min_budget": 900, "max_budget": 800})
	assert.True(t, result.IsError)
	assert.Contains(t, result.Content[0].Text, "invalid")

	resp := s.request(protocol.ToolsCall, protocol.CallToolRequest{Name: "order_drink"})
	require.NotNil(t, resp.Error)
	assert.Contains(t, resp.Error.Message, "order_drink")
}
