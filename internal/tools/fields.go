package tools

import (
	"context"
	"encoding/json"

	"github.com/golovatskygroup/mcp-crmfields/internal/highlevel"
	"github.com/golovatskygroup/mcp-crmfields/pkg/mcp"
)

type listCustomFieldsInput struct {
	locationInput
	Model string `json:"model,omitempty"`
}

func (h *Handler) listCustomFields(ctx context.Context, args json.RawMessage) *mcp.CallToolResult {
	var in listCustomFieldsInput
	if res := decode(args, &in); res != nil {
		return res
	}
	c, creds, err := h.clientFor(ctx, in.LocationID)
	if err != nil {
		return failure(err)
	}
	out, err := c.ListCustomFields(ctx, creds.LocationID, in.Model)
	if err != nil {
		return failure(err)
	}
	return jsonResult(map[string]any{
		"locationId":   creds.LocationID,
		"count":        len(out.CustomFields),
		"customFields": out.CustomFields,
	})
}

type fieldIDInput struct {
	locationInput
	FieldID string `json:"fieldId"`
}

func (h *Handler) getCustomField(ctx context.Context, args json.RawMessage) *mcp.CallToolResult {
	var in fieldIDInput
	if res := decode(args, &in); res != nil {
		return res
	}
	c, creds, err := h.clientFor(ctx, in.LocationID)
	if err != nil {
		return failure(err)
	}
	field, err := c.GetCustomField(ctx, creds.LocationID, in.FieldID)
	if err != nil {
		return failure(err)
	}
	return jsonResult(map[string]any{
		"locationId":  creds.LocationID,
		"customField": field,
	})
}

type customFieldInput struct {
	locationInput
	FieldID string `json:"fieldId,omitempty"`
	highlevel.CustomFieldInput
}

func (h *Handler) createCustomField(ctx context.Context, args json.RawMessage) *mcp.CallToolResult {
	var in customFieldInput
	if res := decode(args, &in); res != nil {
		return res
	}
	c, creds, err := h.clientFor(ctx, in.LocationID)
	if err != nil {
		return failure(err)
	}
	if in.Model == "" {
		in.Model = "contact"
	}
	field, err := c.CreateCustomField(ctx, creds.LocationID, in.CustomFieldInput)
	if err != nil {
		return failure(err)
	}
	return jsonResult(map[string]any{
		"locationId":  creds.LocationID,
		"customField": field,
	})
}

func (h *Handler) updateCustomField(ctx context.Context, args json.RawMessage) *mcp.CallToolResult {
	var in customFieldInput
	if res := decode(args, &in); res != nil {
		return res
	}
	c, creds, err := h.clientFor(ctx, in.LocationID)
	if err != nil {
		return failure(err)
	}
	field, err := c.UpdateCustomField(ctx, creds.LocationID, in.FieldID, in.CustomFieldInput)
	if err != nil {
		return failure(err)
	}
	return jsonResult(map[string]any{
		"locationId":  creds.LocationID,
		"customField": field,
	})
}

func (h *Handler) deleteCustomField(ctx context.Context, args json.RawMessage) *mcp.CallToolResult {
	var in fieldIDInput
	if res := decode(args, &in); res != nil {
		return res
	}
	c, creds, err := h.clientFor(ctx, in.LocationID)
	if err != nil {
		return failure(err)
	}
	res, err := c.DeleteCustomField(ctx, creds.LocationID, in.FieldID)
	if err != nil {
		return failure(err)
	}
	return deleted(res, creds.LocationID, "fieldId", in.FieldID)
}

// deleted reports a delete outcome; an explicit false from the API is a failure
func deleted(res *highlevel.DeleteResult, locationID, idKey, id string) *mcp.CallToolResult {
	if !res.OK() {
		return errorResult("HighLevel did not confirm the delete of " + idKey + " " + id)
	}
	return jsonResult(map[string]any{
		"locationId": locationID,
		idKey:        id,
		"deleted":    true,
	})
}
