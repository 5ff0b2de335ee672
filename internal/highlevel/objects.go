package highlevel

import (
	"context"
	"net/http"
	"net/url"
)

// Custom object fields and folders live under the v2 /custom-fields API,
// which takes the location as a body field or query parameter.
const (
	routeObjectFields      = "/custom-fields/"
	routeObjectField       = "/custom-fields/{id}"
	routeObjectFieldsByKey = "/custom-fields/object-key/{objectKey}"
	routeFolders           = "/custom-fields/folder"
	routeFolder            = "/custom-fields/folder/{id}"
)

func (c *Client) CreateObjectField(ctx context.Context, in ObjectFieldInput) (*ObjectField, error) {
	if err := requireID("locationId", in.LocationID); err != nil {
		return nil, err
	}
	var out objectFieldEnvelope
	if err := c.Do(ctx, c.versioned(http.MethodPost, routeObjectFields, routeObjectFields, nil, in), &out); err != nil {
		return nil, err
	}
	return &out.Field, nil
}

func (c *Client) GetObjectField(ctx context.Context, fieldID string) (*ObjectField, error) {
	if err := requireID("fieldId", fieldID); err != nil {
		return nil, err
	}
	var out objectFieldEnvelope
	if err := c.Do(ctx, c.versioned(http.MethodGet, routeObjectField, "/custom-fields/"+url.PathEscape(fieldID), nil, nil), &out); err != nil {
		return nil, err
	}
	return &out.Field, nil
}

// ListObjectFields returns the fields and folders of an object, e.g.
// "custom_objects.pets" or "contact".
func (c *Client) ListObjectFields(ctx context.Context, locationID, objectKey string) (*ObjectFieldList, error) {
	if err := requireID("locationId", locationID); err != nil {
		return nil, err
	}
	if err := requireID("objectKey", objectKey); err != nil {
		return nil, err
	}
	q := url.Values{}
	q.Set("locationId", locationID)
	var out ObjectFieldList
	path := "/custom-fields/object-key/" + url.PathEscape(objectKey)
	if err := c.Do(ctx, c.versioned(http.MethodGet, routeObjectFieldsByKey, path, q, nil), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateObjectField(ctx context.Context, fieldID string, in ObjectFieldInput) (*ObjectField, error) {
	if err := requireID("fieldId", fieldID); err != nil {
		return nil, err
	}
	if err := requireID("locationId", in.LocationID); err != nil {
		return nil, err
	}
	var out objectFieldEnvelope
	if err := c.Do(ctx, c.versioned(http.MethodPut, routeObjectField, "/custom-fields/"+url.PathEscape(fieldID), nil, in), &out); err != nil {
		return nil, err
	}
	return &out.Field, nil
}

func (c *Client) DeleteObjectField(ctx context.Context, fieldID string) (*DeleteResult, error) {
	if err := requireID("fieldId", fieldID); err != nil {
		return nil, err
	}
	var out DeleteResult
	if err := c.Do(ctx, c.versioned(http.MethodDelete, routeObjectField, "/custom-fields/"+url.PathEscape(fieldID), nil, nil), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateFolder(ctx context.Context, in FolderInput) (*Folder, error) {
	if err := requireID("locationId", in.LocationID); err != nil {
		return nil, err
	}
	if err := requireID("objectKey", in.ObjectKey); err != nil {
		return nil, err
	}
	var out Folder
	if err := c.Do(ctx, c.versioned(http.MethodPost, routeFolders, routeFolders, nil, in), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateFolder(ctx context.Context, folderID string, in FolderInput) (*Folder, error) {
	if err := requireID("folderId", folderID); err != nil {
		return nil, err
	}
	if err := requireID("locationId", in.LocationID); err != nil {
		return nil, err
	}
	var out Folder
	if err := c.Do(ctx, c.versioned(http.MethodPut, routeFolder, routeFolders+"/"+url.PathEscape(folderID), nil, in), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteFolder(ctx context.Context, locationID, folderID string) (*DeleteResult, error) {
	if err := requireID("folderId", folderID); err != nil {
		return nil, err
	}
	if err := requireID("locationId", locationID); err != nil {
		return nil, err
	}
	q := url.Values{}
	q.Set("locationId", locationID)
	var out DeleteResult
	if err := c.Do(ctx, c.versioned(http.MethodDelete, routeFolder, routeFolders+"/"+url.PathEscape(folderID), q, nil), &out); err != nil {
		return nil, err
	}
	return &out, nil
}
