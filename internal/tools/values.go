package tools

import (
	"context"
	"encoding/json"

	"github.com/golovatskygroup/mcp-crmfields/internal/highlevel"
	"github.com/golovatskygroup/mcp-crmfields/pkg/mcp"
)

func (h *Handler) listCustomValues(ctx context.Context, args json.RawMessage) *mcp.CallToolResult {
	var in locationInput
	if res := decode(args, &in); res != nil {
		return res
	}
	c, creds, err := h.clientFor(ctx, in.LocationID)
	if err != nil {
		return failure(err)
	}
	out, err := c.ListCustomValues(ctx, creds.LocationID)
	if err != nil {
		return failure(err)
	}
	return jsonResult(map[string]any{
		"locationId":   creds.LocationID,
		"count":        len(out.CustomValues),
		"customValues": out.CustomValues,
	})
}

type customValueInput struct {
	locationInput
	ValueID string `json:"valueId,omitempty"`
	highlevel.CustomValueInput
}

func (h *Handler) getCustomValue(ctx context.Context, args json.RawMessage) *mcp.CallToolResult {
	var in customValueInput
	if res := decode(args, &in); res != nil {
		return res
	}
	c, creds, err := h.clientFor(ctx, in.LocationID)
	if err != nil {
		return failure(err)
	}
	v, err := c.GetCustomValue(ctx, creds.LocationID, in.ValueID)
	if err != nil {
		return failure(err)
	}
	return jsonResult(map[string]any{
		"locationId":  creds.LocationID,
		"customValue": v,
	})
}

func (h *Handler) createCustomValue(ctx context.Context, args json.RawMessage) *mcp.CallToolResult {
	var in customValueInput
	if res := decode(args, &in); res != nil {
		return res
	}
	c, creds, err := h.clientFor(ctx, in.LocationID)
	if err != nil {
		return failure(err)
	}
	v, err := c.CreateCustomValue(ctx, creds.LocationID, in.CustomValueInput)
	if err != nil {
		return failure(err)
	}
	return jsonResult(map[string]any{
		"locationId":  creds.LocationID,
		"customValue": v,
	})
}

func (h *Handler) updateCustomValue(ctx context.Context, args json.RawMessage) *mcp.CallToolResult {
	var in customValueInput
	if res := decode(args, &in); res != nil {
		return res
	}
	c, creds, err := h.clientFor(ctx, in.LocationID)
	if err != nil {
		return failure(err)
	}
	v, err := c.UpdateCustomValue(ctx, creds.LocationID, in.ValueID, in.CustomValueInput)
	if err != nil {
		return failure(err)
	}
	return jsonResult(map[string]any{
		"locationId":  creds.LocationID,
		"customValue": v,
	})
}

func (h *Handler) deleteCustomValue(ctx context.Context, args json.RawMessage) *mcp.CallToolResult {
	var in customValueInput
	if res := decode(args, &in); res != nil {
		return res
	}
	c, creds, err := h.clientFor(ctx, in.LocationID)
	if err != nil {
		return failure(err)
	}
	res, err := c.DeleteCustomValue(ctx, creds.LocationID, in.ValueID)
	if err != nil {
		return failure(err)
	}
	return deleted(res, creds.LocationID, "valueId", in.ValueID)
}
