package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/golovatskygroup/mcp-crmfields/internal/highlevel"
	"github.com/golovatskygroup/mcp-crmfields/internal/locations"
	"github.com/golovatskygroup/mcp-crmfields/internal/metrics"
	"github.com/golovatskygroup/mcp-crmfields/pkg/mcp"
)

// Options wires a Handler. Metrics may be nil.
type Options struct {
	Store           *locations.Store
	Resolver        *locations.Resolver
	Client          *highlevel.Client
	Metrics         *metrics.Metrics
	Logger          zerolog.Logger
	BulkConcurrency int
}

// Handler validates and executes tool calls.
type Handler struct {
	store    *locations.Store
	resolver *locations.Resolver
	client   *highlevel.Client
	metrics  *metrics.Metrics
	log      zerolog.Logger
	bulk     int

	tools  []mcp.Tool
	byName map[string]mcp.Tool
}

func NewHandler(opts Options) *Handler {
	bulk := opts.BulkConcurrency
	if bulk < 1 {
		bulk = 1
	}
	h := &Handler{
		store:    opts.Store,
		resolver: opts.Resolver,
		client:   opts.Client,
		metrics:  opts.Metrics,
		log:      opts.Logger,
		bulk:     bulk,
		tools:    allTools(),
		byName:   map[string]mcp.Tool{},
	}
	for _, t := range h.tools {
		h.byName[t.Name] = t
	}
	return h
}

// Tools returns every tool definition in a stable order.
func (h *Handler) Tools() []mcp.Tool {
	out := make([]mcp.Tool, len(h.tools))
	copy(out, h.tools)
	return out
}

// Handle runs one tool. Tool failures come back as an error result; the
// returned error is reserved for unknown tools.
func (h *Handler) Handle(ctx context.Context, name string, args json.RawMessage) (*mcp.CallToolResult, error) {
	tool, ok := h.byName[name]
	if !ok {
		return nil, fmt.Errorf("unknown tool: %s", name)
	}

	start := time.Now()
	log := h.log.With().Str("tool", name).Str("call_id", uuid.NewString()).Logger()
	ctx = log.WithContext(ctx)

	var res *mcp.CallToolResult
	if err := validateArgs(name, tool.InputSchema, args); err != nil {
		res = errorResult(err.Error())
	} else {
		if len(args) == 0 || string(args) == "null" {
			args = json.RawMessage(`{}`)
		}
		res = h.dispatch(ctx, name, args)
	}

	if h.metrics != nil {
		h.metrics.ObserveTool(name, res.IsError, start)
	}
	log.Debug().Dur("duration", time.Since(start)).Bool("is_error", res.IsError).Msg("tool call finished")
	return res, nil
}

func (h *Handler) dispatch(ctx context.Context, name string, args json.RawMessage) *mcp.CallToolResult {
	switch name {
	case "register_location":
		return h.registerLocation(ctx, args)
	case "list_locations":
		return h.listLocations(ctx, args)
	case "set_default_location":
		return h.setDefaultLocation(ctx, args)
	case "remove_location":
		return h.removeLocation(ctx, args)
	case "rotate_location_token":
		return h.rotateLocationToken(ctx, args)
	case "get_active_location":
		return h.getActiveLocation(ctx, args)
	case "list_custom_fields":
		return h.listCustomFields(ctx, args)
	case "get_custom_field":
		return h.getCustomField(ctx, args)
	case "create_custom_field":
		return h.createCustomField(ctx, args)
	case "update_custom_field":
		return h.updateCustomField(ctx, args)
	case "delete_custom_field":
		return h.deleteCustomField(ctx, args)
	case "create_object_custom_field":
		return h.createObjectField(ctx, args)
	case "get_object_custom_field":
		return h.getObjectField(ctx, args)
	case "list_object_custom_fields":
		return h.listObjectFields(ctx, args)
	case "update_object_custom_field":
		return h.updateObjectField(ctx, args)
	case "delete_object_custom_field":
		return h.deleteObjectField(ctx, args)
	case "create_custom_field_folder":
		return h.createFolder(ctx, args)
	case "update_custom_field_folder":
		return h.updateFolder(ctx, args)
	case "delete_custom_field_folder":
		return h.deleteFolder(ctx, args)
	case "list_custom_values":
		return h.listCustomValues(ctx, args)
	case "get_custom_value":
		return h.getCustomValue(ctx, args)
	case "create_custom_value":
		return h.createCustomValue(ctx, args)
	case "update_custom_value":
		return h.updateCustomValue(ctx, args)
	case "delete_custom_value":
		return h.deleteCustomValue(ctx, args)
	case "bulk_create_custom_fields":
		return h.bulkCreateCustomFields(ctx, args)
	default:
		return errorResult("no handler for tool " + name)
	}
}

// locationInput is embedded by every tenant-scoped tool input
type locationInput struct {
	LocationID string `json:"locationId,omitempty"`
}

// clientFor resolves credentials and returns a client bound to them
func (h *Handler) clientFor(ctx context.Context, locationID string) (*highlevel.Client, locations.Credentials, error) {
	creds, err := h.resolver.Resolve(ctx, locationID)
	if err != nil {
		return nil, locations.Credentials{}, err
	}
	if h.metrics != nil {
		h.metrics.ObserveResolution(string(creds.Source))
	}
	zerolog.Ctx(ctx).Debug().
		Str("location_id", creds.LocationID).
		Str("source", string(creds.Source)).
		Msg("resolved credentials")
	return h.client.WithToken(creds.Token), creds, nil
}

func decode(args json.RawMessage, v any) *mcp.CallToolResult {
	if err := json.Unmarshal(args, v); err != nil {
		return errorResult("Invalid input: " + err.Error())
	}
	return nil
}

// failure renders err for the calling agent. Upstream errors keep the
// status and raw body.
func failure(err error) *mcp.CallToolResult {
	return errorResult(describeError(err))
}

func describeError(err error) string {
	var apiErr *highlevel.APIError
	if errors.As(err, &apiErr) {
		return fmt.Sprintf("HighLevel API error (%d %s): %s", apiErr.StatusCode, apiErr.Status, apiErr.Body)
	}
	return err.Error()
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{Content: []mcp.ContentBlock{{Type: "text", Text: text}}}
}

func errorResult(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{Content: []mcp.ContentBlock{{Type: "text", Text: "Error: " + msg}}, IsError: true}
}

func jsonResult(v any) *mcp.CallToolResult {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errorResult(err.Error())
	}
	return textResult(string(b))
}
