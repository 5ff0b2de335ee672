package tools

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/golovatskygroup/mcp-crmfields/internal/locations"
	"github.com/golovatskygroup/mcp-crmfields/pkg/mcp"
)

// locationView is how a registration is shown to the agent. The token is
// always masked.
type locationView struct {
	LocationID string    `json:"locationId"`
	Name       string    `json:"name"`
	Kind       string    `json:"kind"`
	Default    string    `json:"default"`
	Token      string    `json:"token"`
	Notes      string    `json:"notes,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func viewLocation(loc *locations.Location) locationView {
	def := "NO"
	if loc.IsDefault {
		def = "YES"
	}
	return locationView{
		LocationID: loc.ID,
		Name:       loc.Name,
		Kind:       string(loc.Kind),
		Default:    def,
		Token:      locations.MaskToken(loc.Token),
		Notes:      loc.Notes,
		CreatedAt:  loc.CreatedAt,
		UpdatedAt:  loc.UpdatedAt,
	}
}

type registerLocationInput struct {
	LocationID string `json:"locationId"`
	Name       string `json:"name"`
	Token      string `json:"token"`
	Kind       string `json:"kind,omitempty"`
	Notes      string `json:"notes,omitempty"`
	IsDefault  bool   `json:"isDefault,omitempty"`
}

func (h *Handler) registerLocation(ctx context.Context, args json.RawMessage) *mcp.CallToolResult {
	var in registerLocationInput
	if res := decode(args, &in); res != nil {
		return res
	}
	loc, err := h.store.Register(ctx, locations.Registration{
		ID:        in.LocationID,
		Name:      in.Name,
		Token:     in.Token,
		Kind:      locations.Kind(strings.TrimSpace(in.Kind)),
		Notes:     in.Notes,
		IsDefault: in.IsDefault,
	})
	if err != nil {
		return failure(err)
	}
	return jsonResult(map[string]any{
		"registered": true,
		"location":   viewLocation(loc),
	})
}

func (h *Handler) listLocations(ctx context.Context, _ json.RawMessage) *mcp.CallToolResult {
	locs, err := h.store.List(ctx)
	if err != nil {
		return failure(err)
	}
	views := make([]locationView, 0, len(locs))
	for _, loc := range locs {
		views = append(views, viewLocation(loc))
	}
	return jsonResult(map[string]any{
		"count":     len(views),
		"locations": views,
	})
}

type setDefaultInput struct {
	LocationID string `json:"locationId,omitempty"`
	Name       string `json:"name,omitempty"`
}

func (h *Handler) setDefaultLocation(ctx context.Context, args json.RawMessage) *mcp.CallToolResult {
	var in setDefaultInput
	if res := decode(args, &in); res != nil {
		return res
	}
	id := strings.TrimSpace(in.LocationID)
	name := strings.TrimSpace(in.Name)
	switch {
	case id == "" && name == "":
		return errorResult("locationId or name is required")
	case id != "" && name != "":
		return errorResult("give either locationId or name, not both")
	}

	if id == "" {
		loc, err := h.store.FindByName(ctx, name)
		if err != nil {
			return failure(err)
		}
		id = loc.ID
	}

	loc, err := h.store.SetDefault(ctx, id)
	if err != nil {
		return failure(err)
	}
	return jsonResult(map[string]any{
		"default":  true,
		"location": viewLocation(loc),
	})
}

type removeLocationInput struct {
	LocationID string `json:"locationId"`
}

func (h *Handler) removeLocation(ctx context.Context, args json.RawMessage) *mcp.CallToolResult {
	var in removeLocationInput
	if res := decode(args, &in); res != nil {
		return res
	}
	loc, err := h.store.Remove(ctx, in.LocationID)
	if err != nil {
		return failure(err)
	}
	return jsonResult(map[string]any{
		"removed":    true,
		"locationId": loc.ID,
		"name":       loc.Name,
		"wasDefault": loc.IsDefault,
	})
}

type rotateTokenInput struct {
	LocationID string `json:"locationId"`
	Token      string `json:"token"`
}

func (h *Handler) rotateLocationToken(ctx context.Context, args json.RawMessage) *mcp.CallToolResult {
	var in rotateTokenInput
	if res := decode(args, &in); res != nil {
		return res
	}
	loc, err := h.store.RotateToken(ctx, in.LocationID, in.Token)
	if err != nil {
		return failure(err)
	}
	return jsonResult(map[string]any{
		"rotated":  true,
		"location": viewLocation(loc),
	})
}

func (h *Handler) getActiveLocation(ctx context.Context, args json.RawMessage) *mcp.CallToolResult {
	var in locationInput
	if res := decode(args, &in); res != nil {
		return res
	}
	creds, err := h.resolver.Lookup(ctx, in.LocationID)
	if err != nil {
		return failure(err)
	}

	out := map[string]any{
		"locationId": creds.LocationID,
		"source":     string(creds.Source),
		"token":      locations.MaskToken(creds.Token),
		"usable":     creds.Token != "" && creds.LocationID != "",
	}
	if creds.Source == locations.SourceRegistry || creds.Source == locations.SourceDefault {
		if loc, err := h.store.Get(ctx, creds.LocationID); err == nil {
			out["name"] = loc.Name
			out["kind"] = string(loc.Kind)
		}
	}
	return jsonResult(out)
}
