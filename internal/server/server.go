package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"

	"github.com/golovatskygroup/mcp-crmfields/pkg/mcp"
)

// ToolHandler lists and executes tools
type ToolHandler interface {
	Tools() []mcp.Tool
	Handle(ctx context.Context, name string, args json.RawMessage) (*mcp.CallToolResult, error)
}

type Info struct {
	Name    string
	Version string
}

// Server is the stdio MCP server
type Server struct {
	transport *mcp.Transport
	handler   ToolHandler
	info      Info
	log       zerolog.Logger
}

func New(handler ToolHandler, transport *mcp.Transport, info Info, log zerolog.Logger) *Server {
	if info.Name == "" {
		info.Name = "mcp-crmfields"
	}
	if info.Version == "" {
		info.Version = "dev"
	}
	return &Server{
		transport: transport,
		handler:   handler,
		info:      info,
		log:       log,
	}
}

// Run serves requests until the input ends or ctx is cancelled. Messages are
// handled one at a time.
func (s *Server) Run(ctx context.Context) error {
	s.log.Info().Int("tools", len(s.handler.Tools())).Msg("serving MCP on stdio")

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		req, err := s.transport.ReadMessage()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			if errors.Is(err, mcp.ErrMalformed) {
				s.log.Warn().Err(err).Msg("dropping malformed message")
				s.write(mcp.NewErrorResponse(nil, mcp.ParseError, "Parse error"))
				continue
			}
			return fmt.Errorf("failed to read message: %w", err)
		}

		if resp := s.handleRequest(ctx, req); resp != nil {
			s.write(resp)
		}
	}
}

func (s *Server) write(resp *mcp.Response) {
	if err := s.transport.WriteResponse(resp); err != nil {
		s.log.Error().Err(err).Msg("failed to write response")
	}
}

func (s *Server) handleRequest(ctx context.Context, req *mcp.Request) *mcp.Response {
	switch req.Method {
	case "initialize":
		return s.handleInitialize(req)
	case "notifications/initialized", "notifications/cancelled":
		return nil
	case "tools/list":
		return s.handleListTools(req)
	case "tools/call":
		return s.handleCallTool(ctx, req)
	case "ping":
		return s.handlePing(req)
	default:
		if req.IsNotification() {
			return nil
		}
		return mcp.NewErrorResponse(req.ID, mcp.MethodNotFound, fmt.Sprintf("Method not found: %s", req.Method))
	}
}

func (s *Server) handleInitialize(req *mcp.Request) *mcp.Response {
	if len(req.Params) > 0 {
		var params mcp.InitializeParams
		if err := json.Unmarshal(req.Params, &params); err != nil {
			return mcp.NewErrorResponse(req.ID, mcp.InvalidParams, "Invalid params: "+err.Error())
		}
		s.log.Info().
			Str("client", params.ClientInfo.Name).
			Str("client_version", params.ClientInfo.Version).
			Str("protocol_version", params.ProtocolVersion).
			Msg("client connected")
	}

	result := mcp.InitializeResult{
		ProtocolVersion: mcp.ProtocolVersion,
		Capabilities: mcp.ServerCapabilities{
			Tools: &mcp.ToolsCapability{},
		},
		ServerInfo: mcp.ServerInfo{
			Name:    s.info.Name,
			Version: s.info.Version,
		},
		Instructions: s.buildInstructions(),
	}

	resp, err := mcp.NewResponse(req.ID, result)
	if err != nil {
		return mcp.NewErrorResponse(req.ID, mcp.InternalError, err.Error())
	}
	return resp
}

func (s *Server) handleListTools(req *mcp.Request) *mcp.Response {
	resp, err := mcp.NewResponse(req.ID, mcp.ListToolsResult{Tools: s.handler.Tools()})
	if err != nil {
		return mcp.NewErrorResponse(req.ID, mcp.InternalError, err.Error())
	}
	return resp
}

func (s *Server) handleCallTool(ctx context.Context, req *mcp.Request) *mcp.Response {
	var params mcp.CallToolParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return mcp.NewErrorResponse(req.ID, mcp.InvalidParams, "Invalid params: "+err.Error())
	}
	if strings.TrimSpace(params.Name) == "" {
		return mcp.NewErrorResponse(req.ID, mcp.InvalidParams, "Invalid params: tool name is required")
	}

	result, err := s.handler.Handle(ctx, params.Name, params.Arguments)
	if err != nil {
		return mcp.NewErrorResponse(req.ID, mcp.InvalidParams, err.Error())
	}

	resp, err := mcp.NewResponse(req.ID, result)
	if err != nil {
		return mcp.NewErrorResponse(req.ID, mcp.InternalError, err.Error())
	}
	return resp
}

func (s *Server) handlePing(req *mcp.Request) *mcp.Response {
	resp, _ := mcp.NewResponse(req.ID, map[string]any{})
	return resp
}

func (s *Server) buildInstructions() string {
	var sb strings.Builder
	sb.WriteString("HighLevel custom fields and custom values administration.\n\n")
	sb.WriteString("Every tool that talks to HighLevel takes an optional locationId. Without it the registered default location is used, then GHL_LOCATION_ID.\n")
	sb.WriteString("Use register_location to store a location token, set_default_location to pick the default and get_active_location to check what a call would use.\n")
	sb.WriteString("bulk_create_custom_fields creates many fields at once and reports each item separately.\n\n")
	sb.WriteString(fmt.Sprintf("Total available tools: %d\n", len(s.handler.Tools())))
	return sb.String()
}
