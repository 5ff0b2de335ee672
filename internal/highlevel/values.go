package highlevel

import (
	"context"
	"net/http"
	"net/url"
)

const (
	routeLocationValues = "/locations/{locationId}/customValues"
	routeLocationValue  = "/locations/{locationId}/customValues/{id}"
)

func locationValuesPath(locationID string) string {
	return "/locations/" + url.PathEscape(locationID) + "/customValues"
}

func (c *Client) ListCustomValues(ctx context.Context, locationID string) (*CustomValueList, error) {
	if err := requireID("locationId", locationID); err != nil {
		return nil, err
	}
	var out CustomValueList
	if err := c.Do(ctx, c.versioned(http.MethodGet, routeLocationValues, locationValuesPath(locationID), nil, nil), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetCustomValue(ctx context.Context, locationID, valueID string) (*CustomValue, error) {
	if err := requireID("locationId", locationID); err != nil {
		return nil, err
	}
	if err := requireID("valueId", valueID); err != nil {
		return nil, err
	}
	var out customValueEnvelope
	path := locationValuesPath(locationID) + "/" + url.PathEscape(valueID)
	if err := c.Do(ctx, c.versioned(http.MethodGet, routeLocationValue, path, nil, nil), &out); err != nil {
		return nil, err
	}
	return &out.CustomValue, nil
}

func (c *Client) CreateCustomValue(ctx context.Context, locationID string, in CustomValueInput) (*CustomValue, error) {
	if err := requireID("locationId", locationID); err != nil {
		return nil, err
	}
	var out customValueEnvelope
	if err := c.Do(ctx, c.versioned(http.MethodPost, routeLocationValues, locationValuesPath(locationID), nil, in), &out); err != nil {
		return nil, err
	}
	return &out.CustomValue, nil
}

func (c *Client) UpdateCustomValue(ctx context.Context, locationID, valueID string, in CustomValueInput) (*CustomValue, error) {
	if err := requireID("locationId", locationID); err != nil {
		return nil, err
	}
	if err := requireID("valueId", valueID); err != nil {
		return nil, err
	}
	var out customValueEnvelope
	path := locationValuesPath(locationID) + "/" + url.PathEscape(valueID)
	if err := c.Do(ctx, c.versioned(http.MethodPut, routeLocationValue, path, nil, in), &out); err != nil {
		return nil, err
	}
	return &out.CustomValue, nil
}

func (c *Client) DeleteCustomValue(ctx context.Context, locationID, valueID string) (*DeleteResult, error) {
	if err := requireID("locationId", locationID); err != nil {
		return nil, err
	}
	if err := requireID("valueId", valueID); err != nil {
		return nil, err
	}
	var out DeleteResult
	path := locationValuesPath(locationID) + "/" + url.PathEscape(valueID)
	if err := c.Do(ctx, c.versioned(http.MethodDelete, routeLocationValue, path, nil, nil), &out); err != nil {
		return nil, err
	}
	return &out, nil
}
