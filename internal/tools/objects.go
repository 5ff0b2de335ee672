package tools

import (
	"context"
	"encoding/json"

	"github.com/golovatskygroup/mcp-crmfields/internal/highlevel"
	"github.com/golovatskygroup/mcp-crmfields/pkg/mcp"
)

type objectFieldInput struct {
	FieldID string `json:"fieldId,omitempty"`
	highlevel.ObjectFieldInput
}

func (h *Handler) createObjectField(ctx context.Context, args json.RawMessage) *mcp.CallToolResult {
	var in objectFieldInput
	if res := decode(args, &in); res != nil {
		return res
	}
	c, creds, err := h.clientFor(ctx, in.LocationID)
	if err != nil {
		return failure(err)
	}
	in.LocationID = creds.LocationID
	field, err := c.CreateObjectField(ctx, in.ObjectFieldInput)
	if err != nil {
		return failure(err)
	}
	return jsonResult(map[string]any{
		"locationId": creds.LocationID,
		"field":      field,
	})
}

func (h *Handler) getObjectField(ctx context.Context, args json.RawMessage) *mcp.CallToolResult {
	var in fieldIDInput
	if res := decode(args, &in); res != nil {
		return res
	}
	c, creds, err := h.clientFor(ctx, in.LocationID)
	if err != nil {
		return failure(err)
	}
	field, err := c.GetObjectField(ctx, in.FieldID)
	if err != nil {
		return failure(err)
	}
	return jsonResult(map[string]any{
		"locationId": creds.LocationID,
		"field":      field,
	})
}

type listObjectFieldsInput struct {
	locationInput
	ObjectKey string `json:"objectKey"`
}

func (h *Handler) listObjectFields(ctx context.Context, args json.RawMessage) *mcp.CallToolResult {
	var in listObjectFieldsInput
	if res := decode(args, &in); res != nil {
		return res
	}
	c, creds, err := h.clientFor(ctx, in.LocationID)
	if err != nil {
		return failure(err)
	}
	out, err := c.ListObjectFields(ctx, creds.LocationID, in.ObjectKey)
	if err != nil {
		return failure(err)
	}
	return jsonResult(map[string]any{
		"locationId": creds.LocationID,
		"objectKey":  in.ObjectKey,
		"fields":     out.Fields,
		"folders":    out.Folders,
	})
}

func (h *Handler) updateObjectField(ctx context.Context, args json.RawMessage) *mcp.CallToolResult {
	var in objectFieldInput
	if res := decode(args, &in); res != nil {
		return res
	}
	c, creds, err := h.clientFor(ctx, in.LocationID)
	if err != nil {
		return failure(err)
	}
	in.LocationID = creds.LocationID
	field, err := c.UpdateObjectField(ctx, in.FieldID, in.ObjectFieldInput)
	if err != nil {
		return failure(err)
	}
	return jsonResult(map[string]any{
		"locationId": creds.LocationID,
		"field":      field,
	})
}

func (h *Handler) deleteObjectField(ctx context.Context, args json.RawMessage) *mcp.CallToolResult {
	var in fieldIDInput
	if res := decode(args, &in); res != nil {
		return res
	}
	c, creds, err := h.clientFor(ctx, in.LocationID)
	if err != nil {
		return failure(err)
	}
	res, err := c.DeleteObjectField(ctx, in.FieldID)
	if err != nil {
		return failure(err)
	}
	return deleted(res, creds.LocationID, "fieldId", in.FieldID)
}

type folderInput struct {
	FolderID string `json:"folderId,omitempty"`
	highlevel.FolderInput
}

func (h *Handler) createFolder(ctx context.Context, args json.RawMessage) *mcp.CallToolResult {
	var in folderInput
	if res := decode(args, &in); res != nil {
		return res
	}
	c, creds, err := h.clientFor(ctx, in.LocationID)
	if err != nil {
		return failure(err)
	}
	in.LocationID = creds.LocationID
	folder, err := c.CreateFolder(ctx, in.FolderInput)
	if err != nil {
		return failure(err)
	}
	return jsonResult(map[string]any{
		"locationId": creds.LocationID,
		"folder":     folder,
	})
}

func (h *Handler) updateFolder(ctx context.Context, args json.RawMessage) *mcp.CallToolResult {
	var in folderInput
	if res := decode(args, &in); res != nil {
		return res
	}
	c, creds, err := h.clientFor(ctx, in.LocationID)
	if err != nil {
		return failure(err)
	}
	in.LocationID = creds.LocationID
	folder, err := c.UpdateFolder(ctx, in.FolderID, in.FolderInput)
	if err != nil {
		return failure(err)
	}
	return jsonResult(map[string]any{
		"locationId": creds.LocationID,
		"folder":     folder,
	})
}

func (h *Handler) deleteFolder(ctx context.Context, args json.RawMessage) *mcp.CallToolResult {
	var in folderInput
	if res := decode(args, &in); res != nil {
		return res
	}
	c, creds, err := h.clientFor(ctx, in.LocationID)
	if err != nil {
		return failure(err)
	}
	res, err := c.DeleteFolder(ctx, creds.LocationID, in.FolderID)
	if err != nil {
		return failure(err)
	}
	return deleted(res, creds.LocationID, "folderId", in.FolderID)
}
