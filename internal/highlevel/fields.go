package highlevel

import (
	"context"
	"net/http"
	"net/url"
	"strings"
)

const (
	routeLocationFields = "/locations/{locationId}/customFields"
	routeLocationField  = "/locations/{locationId}/customFields/{id}"
)

func locationFieldsPath(locationID string) string {
	return "/locations/" + url.PathEscape(locationID) + "/customFields"
}

// ListCustomFields lists location custom fields. model is contact,
// opportunity or all; empty means the API default.
func (c *Client) ListCustomFields(ctx context.Context, locationID, model string) (*CustomFieldList, error) {
	if err := requireID("locationId", locationID); err != nil {
		return nil, err
	}
	q := url.Values{}
	if m := strings.TrimSpace(model); m != "" {
		q.Set("model", m)
	}
	var out CustomFieldList
	if err := c.Do(ctx, c.versioned(http.MethodGet, routeLocationFields, locationFieldsPath(locationID), q, nil), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetCustomField(ctx context.Context, locationID, fieldID string) (*CustomField, error) {
	if err := requireID("locationId", locationID); err != nil {
		return nil, err
	}
	if err := requireID("fieldId", fieldID); err != nil {
		return nil, err
	}
	var out customFieldEnvelope
	path := locationFieldsPath(locationID) + "/" + url.PathEscape(fieldID)
	if err := c.Do(ctx, c.versioned(http.MethodGet, routeLocationField, path, nil, nil), &out); err != nil {
		return nil, err
	}
	return &out.CustomField, nil
}

func (c *Client) CreateCustomField(ctx context.Context, locationID string, in CustomFieldInput) (*CustomField, error) {
	if err := requireID("locationId", locationID); err != nil {
		return nil, err
	}
	var out customFieldEnvelope
	if err := c.Do(ctx, c.versioned(http.MethodPost, routeLocationFields, locationFieldsPath(locationID), nil, in), &out); err != nil {
		return nil, err
	}
	return &out.CustomField, nil
}

func (c *Client) UpdateCustomField(ctx context.Context, locationID, fieldID string, in CustomFieldInput) (*CustomField, error) {
	if err := requireID("locationId", locationID); err != nil {
		return nil, err
	}
	if err := requireID("fieldId", fieldID); err != nil {
		return nil, err
	}
	var out customFieldEnvelope
	path := locationFieldsPath(locationID) + "/" + url.PathEscape(fieldID)
	if err := c.Do(ctx, c.versioned(http.MethodPut, routeLocationField, path, nil, in), &out); err != nil {
		return nil, err
	}
	return &out.CustomField, nil
}

func (c *Client) DeleteCustomField(ctx context.Context, locationID, fieldID string) (*DeleteResult, error) {
	if err := requireID("locationId", locationID); err != nil {
		return nil, err
	}
	if err := requireID("fieldId", fieldID); err != nil {
		return nil, err
	}
	var out DeleteResult
	path := locationFieldsPath(locationID) + "/" + url.PathEscape(fieldID)
	if err := c.Do(ctx, c.versioned(http.MethodDelete, routeLocationField, path, nil, nil), &out); err != nil {
		return nil, err
	}
	return &out, nil
}
