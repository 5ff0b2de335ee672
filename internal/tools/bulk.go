package tools

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/golovatskygroup/mcp-crmfields/internal/highlevel"
	"github.com/golovatskygroup/mcp-crmfields/pkg/mcp"
)

type bulkCreateInput struct {
	locationInput
	Model  string                       `json:"model,omitempty"`
	Fields []highlevel.CustomFieldInput `json:"fields"`
}

// BulkItem is the outcome of one bulk entry. Exactly one of Data and Error is set.
type BulkItem struct {
	Index int                    `json:"index"`
	Name  string                 `json:"name"`
	OK    bool                   `json:"ok"`
	Data  *highlevel.CustomField `json:"data,omitempty"`
	Error string                 `json:"error,omitempty"`
}

type BulkReport struct {
	BatchID    string     `json:"batchId"`
	LocationID string     `json:"locationId"`
	Total      int        `json:"total"`
	Succeeded  int        `json:"succeeded"`
	Failed     int        `json:"failed"`
	Results    []BulkItem `json:"results"`
}

func (h *Handler) bulkCreateCustomFields(ctx context.Context, args json.RawMessage) *mcp.CallToolResult {
	var in bulkCreateInput
	if res := decode(args, &in); res != nil {
		return res
	}
	c, creds, err := h.clientFor(ctx, in.LocationID)
	if err != nil {
		return failure(err)
	}

	report := BulkReport{
		BatchID:    uuid.NewString(),
		LocationID: creds.LocationID,
		Total:      len(in.Fields),
		Results:    make([]BulkItem, len(in.Fields)),
	}
	log := zerolog.Ctx(ctx).With().Str("batch_id", report.BatchID).Logger()

	// Every slot is written by exactly one goroutine, so results keep input order.
	var g errgroup.Group
	g.SetLimit(h.bulk)
	for i, field := range in.Fields {
		i, field := i, field // per-iteration copies (go directive < 1.22)
		if field.Model == "" {
			field.Model = in.Model
		}
		if field.Model == "" {
			field.Model = "contact"
		}
		g.Go(func() error {
			report.Results[i] = h.createOne(ctx, c, creds.LocationID, i, field)
			return nil
		})
	}
	// Item failures are recorded in Results; the group itself never errors.
	g.Wait()

	for _, item := range report.Results {
		if item.OK {
			report.Succeeded++
		} else {
			report.Failed++
		}
		if h.metrics != nil {
			h.metrics.ObserveBulkItem(item.OK)
		}
	}
	log.Info().Int("succeeded", report.Succeeded).Int("failed", report.Failed).Msg("bulk create finished")
	return jsonResult(report)
}

func (h *Handler) createOne(ctx context.Context, c *highlevel.Client, locationID string, index int, in highlevel.CustomFieldInput) BulkItem {
	item := BulkItem{Index: index, Name: in.Name}
	if err := ctx.Err(); err != nil {
		item.Error = err.Error()
		return item
	}
	field, err := c.CreateCustomField(ctx, locationID, in)
	if err != nil {
		item.Error = describeError(err)
		return item
	}
	item.OK = true
	item.Data = field
	return item
}
