// Package mcp serves the survey aggregates to MCP clients over a
// line-delimited JSON-RPC 2.0 stdio transport.
package mcp

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/blackwell-systems/artawatch/internal/suggest"
	"github.com/blackwell-systems/artawatch/internal/survey"
)

const protocolVersion = "2024-11-05"

// JSON-RPC error codes.
const (
	codeParseError     = -32700
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
)

// Source loads the current record collection.
type Source interface {
	Load() ([]survey.Record, error)
}

// Server answers MCP requests against a Source.
type Server struct {
	tools      []toolDef
	methods    map[string]method
	source     Source
	thresholds suggest.Thresholds
	version    string
	logger     *zap.Logger
}

type toolDef struct {
	Name        string
	Description string
	InputSchema json.RawMessage
	Handler     func(args json.RawMessage) (any, error)
}

type method func(params json.RawMessage) (any, *rpcError)

type rpcRequest struct {
	JSONRPC string           `json:"jsonrpc"`
	ID      *json.RawMessage `json:"id,omitempty"`
	Method  string           `json:"method"`
	Params  json.RawMessage  `json:"params,omitempty"`
}

type rpcResponse struct {
	JSONRPC string           `json:"jsonrpc"`
	ID      *json.RawMessage `json:"id,omitempty"`
	Result  any              `json:"result,omitempty"`
	Error   *rpcError        `json:"error,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// toolsCallResult is the MCP content envelope for a tool result.
type toolsCallResult struct {
	Content []mcpContent `json:"content"`
	IsError bool         `json:"isError"`
}

type mcpContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

func textResult(text string, isError bool) toolsCallResult {
	return toolsCallResult{Content: []mcpContent{{Type: "text", Text: text}}, IsError: isError}
}

// NewServer constructs a Server answering from source. th tunes the
// recommendation rules. A nil logger discards output.
func NewServer(source Source, th suggest.Thresholds, version string, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		source:     source,
		thresholds: th,
		version:    version,
		logger:     logger,
	}
	s.methods = map[string]method{
		"initialize": s.initialize,
		"tools/list": s.listTools,
		"tools/call": s.callTool,
	}
	addTools(s)
	return s
}

func (s *Server) registerTool(def toolDef) {
	s.tools = append(s.tools, def)
}

// Run reads one request per line from r and writes one response per line
// to w. It returns nil when ctx is cancelled or r reaches EOF, and the
// read or write error otherwise.
func (s *Server) Run(ctx context.Context, r io.Reader, w io.Writer) error {
	lines := make(chan []byte)
	readErr := make(chan error, 1)

	go func() {
		defer close(lines)
		sc := bufio.NewScanner(r)
		sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
		for sc.Scan() {
			line := append([]byte(nil), sc.Bytes()...)
			select {
			case lines <- line:
			case <-ctx.Done():
				readErr <- nil
				return
			}
		}
		readErr <- sc.Err()
	}()

	out := bufio.NewWriter(w)
	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				return <-readErr
			}
			resp := s.handle(line)
			if resp == nil {
				continue
			}
			if err := write(out, resp); err != nil {
				return err
			}
		}
	}
}

// handle returns the response for one request line, or nil for a
// notification.
func (s *Server) handle(line []byte) *rpcResponse {
	var req rpcRequest
	if err := json.Unmarshal(line, &req); err != nil {
		return &rpcResponse{JSONRPC: "2.0", Error: &rpcError{Code: codeParseError, Message: "Parse error"}}
	}
	if req.ID == nil {
		s.logger.Debug("notification", zap.String("method", req.Method))
		return nil
	}

	resp := &rpcResponse{JSONRPC: "2.0", ID: req.ID}
	m, ok := s.methods[req.Method]
	if !ok {
		resp.Error = &rpcError{Code: codeMethodNotFound, Message: "Method not found"}
		return resp
	}
	resp.Result, resp.Error = m(req.Params)
	return resp
}

func write(out *bufio.Writer, resp *rpcResponse) error {
	data, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("encoding response: %w", err)
	}
	data = append(data, '\n')
	if _, err := out.Write(data); err != nil {
		return err
	}
	return out.Flush()
}

func (s *Server) initialize(json.RawMessage) (any, *rpcError) {
	return map[string]any{
		"protocolVersion": protocolVersion,
		"capabilities":    map[string]any{"tools": map[string]any{}},
		"serverInfo":      map[string]any{"name": "artawatch", "version": s.version},
	}, nil
}

func (s *Server) listTools(json.RawMessage) (any, *rpcError) {
	type entry struct {
		Name        string          `json:"name"`
		Description string          `json:"description"`
		InputSchema json.RawMessage `json:"inputSchema"`
	}
	entries := make([]entry, len(s.tools))
	for i, t := range s.tools {
		entries[i] = entry{t.Name, t.Description, t.InputSchema}
	}
	return map[string]any{"tools": entries}, nil
}

// callTool runs a registered tool. Tool failures are reported inside the
// result with isError set, not as JSON-RPC errors.
func (s *Server) callTool(params json.RawMessage) (any, *rpcError) {
	var p struct {
		Name      string          `json:"name"`
		Arguments json.RawMessage `json:"arguments,omitempty"`
	}
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, &rpcError{Code: codeInvalidParams, Message: "Invalid params"}
	}

	idx := -1
	for i, t := range s.tools {
		if t.Name == p.Name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return textResult("unknown tool: "+p.Name, true), nil
	}

	args := p.Arguments
	if len(args) == 0 {
		args = json.RawMessage(`{}`)
	}
	result, err := s.tools[idx].Handler(args)
	if err != nil {
		s.logger.Warn("tool call failed", zap.String("tool", p.Name), zap.Error(err))
		return textResult(err.Error(), true), nil
	}
	data, err := json.Marshal(result)
	if err != nil {
		return textResult(err.Error(), true), nil
	}
	return textResult(string(data), false), nil
}
