package tools

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/golovatskygroup/mcp-crmfields/internal/highlevel"
	"github.com/golovatskygroup/mcp-crmfields/pkg/mcp"
)

var (
	dataTypeEnum = enumJSON(highlevel.DataTypes)
	modelEnum    = enumJSON(highlevel.Models)
)

func enumJSON(values []string) string {
	b, _ := json.Marshal(values)
	return string(b)
}

// schema fills the shared placeholders of a tool inputSchema literal
func schema(s string) json.RawMessage {
	r := strings.NewReplacer(
		"$LOCATION", `"locationId": {"type": "string", "description": "HighLevel location (sub-account) id. Optional: defaults to the registered default location, then GHL_LOCATION_ID."}`,
		"$DATA_TYPES", dataTypeEnum,
		"$MODELS", modelEnum,
	)
	return json.RawMessage(r.Replace(s))
}

const customFieldProps = `
	"name": {"type": "string", "minLength": 1, "description": "Field display name"},
	"dataType": {"type": "string", "enum": $DATA_TYPES, "description": "Field data type"},
	"placeholder": {"type": "string"},
	"fieldKey": {"type": "string", "description": "Unique key, e.g. contact.shoe_size"},
	"position": {"type": "integer", "minimum": 0},
	"model": {"type": "string", "enum": $MODELS, "default": "contact"},
	"options": {"type": "array", "items": {"type": "string"}, "description": "Choices for option fields (SINGLE_OPTIONS, MULTIPLE_OPTIONS, CHECKBOX)"},
	"acceptedFormat": {"type": "array", "items": {"type": "string"}, "description": "Accepted file extensions for FILE_UPLOAD"},
	"isMultipleFile": {"type": "boolean"},
	"maxNumberOfFiles": {"type": "integer", "minimum": 1},
	"textBoxListOptions": {
		"type": "array",
		"items": {
			"type": "object",
			"properties": {"label": {"type": "string"}, "prefillValue": {"type": "string"}},
			"required": ["label"],
			"additionalProperties": false
		}
	}`

const objectFieldProps = `
	"name": {"type": "string", "minLength": 1},
	"description": {"type": "string"},
	"placeholder": {"type": "string"},
	"showInForms": {"type": "boolean"},
	"options": {
		"type": "array",
		"items": {
			"type": "object",
			"properties": {"key": {"type": "string"}, "label": {"type": "string"}, "url": {"type": "string"}},
			"required": ["key", "label"],
			"additionalProperties": false
		}
	},
	"acceptedFormats": {"type": "string", "description": "Comma separated file extensions for FILE_UPLOAD"},
	"maxFileLimit": {"type": "integer", "minimum": 1},
	"allowCustomOption": {"type": "boolean"}`

func registryTools() []mcp.Tool {
	return []mcp.Tool{
		{
			Name:        "register_location",
			Description: "Register (or overwrite) a HighLevel location and its private integration token in the local registry. Set isDefault to make it the location used when no locationId is given.",
			InputSchema: schema(`{
				"type": "object",
				"properties": {
					"locationId": {"type": "string", "minLength": 1},
					"name": {"type": "string", "minLength": 1, "description": "Display name used for lookups"},
					"token": {"type": "string", "minLength": 1, "description": "Private integration token or API key"},
					"kind": {"type": "string", "enum": ["sub_account", "agency"], "default": "sub_account"},
					"notes": {"type": "string"},
					"isDefault": {"type": "boolean", "default": false}
				},
				"required": ["locationId", "name", "token"],
				"additionalProperties": false
			}`),
		},
		{
			Name:        "list_locations",
			Description: "List registered locations with masked tokens and which one is the default.",
			InputSchema: schema(`{"type": "object", "properties": {}, "additionalProperties": false}`),
		},
		{
			Name:        "set_default_location",
			Description: "Make a registered location the default, by exact locationId or by (partial, case-insensitive, fuzzy) name.",
			InputSchema: schema(`{
				"type": "object",
				"properties": {
					"locationId": {"type": "string", "minLength": 1},
					"name": {"type": "string", "minLength": 1}
				},
				"additionalProperties": false
			}`),
		},
		{
			Name:        "remove_location",
			Description: "Forget a registered location and its token. Nothing is changed in HighLevel.",
			InputSchema: schema(`{
				"type": "object",
				"properties": {"locationId": {"type": "string", "minLength": 1}},
				"required": ["locationId"],
				"additionalProperties": false
			}`),
		},
		{
			Name:        "rotate_location_token",
			Description: "Replace the stored token of a registered location.",
			InputSchema: schema(`{
				"type": "object",
				"properties": {
					"locationId": {"type": "string", "minLength": 1},
					"token": {"type": "string", "minLength": 1}
				},
				"required": ["locationId", "token"],
				"additionalProperties": false
			}`),
		},
		{
			Name:        "get_active_location",
			Description: "Show which location and (masked) token a call would use, and why.",
			InputSchema: schema(`{
				"type": "object",
				"properties": {$LOCATION},
				"additionalProperties": false
			}`),
		},
	}
}

func fieldTools() []mcp.Tool {
	return []mcp.Tool{
		{
			Name:        "list_custom_fields",
			Description: "List custom fields of a location (contact and/or opportunity).",
			InputSchema: schema(`{
				"type": "object",
				"properties": {
					$LOCATION,
					"model": {"type": "string", "enum": ["contact", "opportunity", "all"], "default": "all"}
				},
				"additionalProperties": false
			}`),
		},
		{
			Name:        "get_custom_field",
			Description: "Get one custom field by id.",
			InputSchema: schema(`{
				"type": "object",
				"properties": {$LOCATION, "fieldId": {"type": "string", "minLength": 1}},
				"required": ["fieldId"],
				"additionalProperties": false
			}`),
		},
		{
			Name:        "create_custom_field",
			Description: "Create a contact or opportunity custom field.",
			InputSchema: schema(`{
				"type": "object",
				"properties": {$LOCATION, ` + customFieldProps + `},
				"required": ["name", "dataType"],
				"additionalProperties": false
			}`),
		},
		{
			Name:        "update_custom_field",
			Description: "Update a custom field. Only the given properties change.",
			InputSchema: schema(`{
				"type": "object",
				"properties": {$LOCATION, "fieldId": {"type": "string", "minLength": 1}, ` + customFieldProps + `},
				"required": ["fieldId"],
				"additionalProperties": false
			}`),
		},
		{
			Name:        "delete_custom_field",
			Description: "Delete a custom field.",
			InputSchema: schema(`{
				"type": "object",
				"properties": {$LOCATION, "fieldId": {"type": "string", "minLength": 1}},
				"required": ["fieldId"],
				"additionalProperties": false
			}`),
		},
	}
}

func objectTools() []mcp.Tool {
	return []mcp.Tool{
		{
			Name:        "create_object_custom_field",
			Description: "Create a field on a custom object (e.g. custom_objects.pets) or standard object.",
			InputSchema: schema(`{
				"type": "object",
				"properties": {
					$LOCATION,
					"objectKey": {"type": "string", "minLength": 1, "description": "e.g. custom_objects.pets"},
					"fieldKey": {"type": "string", "minLength": 1, "description": "e.g. custom_objects.pets.breed"},
					"dataType": {"type": "string", "enum": $DATA_TYPES},
					"parentId": {"type": "string", "description": "Folder id"},
					` + objectFieldProps + `
				},
				"required": ["objectKey", "fieldKey", "dataType", "name"],
				"additionalProperties": false
			}`),
		},
		{
			Name:        "get_object_custom_field",
			Description: "Get a custom object field by id.",
			InputSchema: schema(`{
				"type": "object",
				"properties": {$LOCATION, "fieldId": {"type": "string", "minLength": 1}},
				"required": ["fieldId"],
				"additionalProperties": false
			}`),
		},
		{
			Name:        "list_object_custom_fields",
			Description: "List the fields and folders of an object.",
			InputSchema: schema(`{
				"type": "object",
				"properties": {$LOCATION, "objectKey": {"type": "string", "minLength": 1}},
				"required": ["objectKey"],
				"additionalProperties": false
			}`),
		},
		{
			Name:        "update_object_custom_field",
			Description: "Update a custom object field. Only the given properties change.",
			InputSchema: schema(`{
				"type": "object",
				"properties": {$LOCATION, "fieldId": {"type": "string", "minLength": 1}, ` + objectFieldProps + `},
				"required": ["fieldId"],
				"additionalProperties": false
			}`),
		},
		{
			Name:        "delete_object_custom_field",
			Description: "Delete a custom object field.",
			InputSchema: schema(`{
				"type": "object",
				"properties": {$LOCATION, "fieldId": {"type": "string", "minLength": 1}},
				"required": ["fieldId"],
				"additionalProperties": false
			}`),
		},
		{
			Name:        "create_custom_field_folder",
			Description: "Create a folder that groups fields of an object.",
			InputSchema: schema(`{
				"type": "object",
				"properties": {
					$LOCATION,
					"objectKey": {"type": "string", "minLength": 1},
					"name": {"type": "string", "minLength": 1}
				},
				"required": ["objectKey", "name"],
				"additionalProperties": false
			}`),
		},
		{
			Name:        "update_custom_field_folder",
			Description: "Rename a custom field folder.",
			InputSchema: schema(`{
				"type": "object",
				"properties": {
					$LOCATION,
					"folderId": {"type": "string", "minLength": 1},
					"name": {"type": "string", "minLength": 1}
				},
				"required": ["folderId", "name"],
				"additionalProperties": false
			}`),
		},
		{
			Name:        "delete_custom_field_folder",
			Description: "Delete a custom field folder.",
			InputSchema: schema(`{
				"type": "object",
				"properties": {$LOCATION, "folderId": {"type": "string", "minLength": 1}},
				"required": ["folderId"],
				"additionalProperties": false
			}`),
		},
	}
}

func valueTools() []mcp.Tool {
	return []mcp.Tool{
		{
			Name:        "list_custom_values",
			Description: "List custom values of a location.",
			InputSchema: schema(`{"type": "object", "properties": {$LOCATION}, "additionalProperties": false}`),
		},
		{
			Name:        "get_custom_value",
			Description: "Get one custom value by id.",
			InputSchema: schema(`{
				"type": "object",
				"properties": {$LOCATION, "valueId": {"type": "string", "minLength": 1}},
				"required": ["valueId"],
				"additionalProperties": false
			}`),
		},
		{
			Name:        "create_custom_value",
			Description: "Create a custom value (a named, location-wide template value).",
			InputSchema: schema(`{
				"type": "object",
				"properties": {
					$LOCATION,
					"name": {"type": "string", "minLength": 1},
					"value": {"type": "string"}
				},
				"required": ["name", "value"],
				"additionalProperties": false
			}`),
		},
		{
			Name:        "update_custom_value",
			Description: "Update the name and value of a custom value.",
			InputSchema: schema(`{
				"type": "object",
				"properties": {
					$LOCATION,
					"valueId": {"type": "string", "minLength": 1},
					"name": {"type": "string", "minLength": 1},
					"value": {"type": "string"}
				},
				"required": ["valueId", "name", "value"],
				"additionalProperties": false
			}`),
		},
		{
			Name:        "delete_custom_value",
			Description: "Delete a custom value.",
			InputSchema: schema(`{
				"type": "object",
				"properties": {$LOCATION, "valueId": {"type": "string", "minLength": 1}},
				"required": ["valueId"],
				"additionalProperties": false
			}`),
		},
	}
}

func bulkTools() []mcp.Tool {
	item := strings.ReplaceAll(customFieldProps, "\n", "\n\t\t")
	return []mcp.Tool{
		{
			Name:        "bulk_create_custom_fields",
			Description: "Create many custom fields in one call. Each item succeeds or fails on its own; the result lists every item in input order with succeeded/failed totals.",
			InputSchema: schema(fmt.Sprintf(`{
				"type": "object",
				"properties": {
					$LOCATION,
					"model": {"type": "string", "enum": $MODELS, "description": "Model applied to items that do not set one"},
					"fields": {
						"type": "array",
						"minItems": 1,
						"items": {
							"type": "object",
							"properties": {%s},
							"required": ["name", "dataType"],
							"additionalProperties": false
						}
					}
				},
				"required": ["fields"],
				"additionalProperties": false
			}`, item)),
		},
	}
}

func allTools() []mcp.Tool {
	var out []mcp.Tool
	out = append(out, registryTools()...)
	out = append(out, fieldTools()...)
	out = append(out, objectTools()...)
	out = append(out, valueTools()...)
	out = append(out, bulkTools()...)
	return out
}
