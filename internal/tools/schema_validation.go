package tools

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

type compiledSchema struct {
	raw    string
	schema *jsonschema.Schema
}

// schemas caches compiled input schemas by tool name. An entry is rebuilt
// when the raw schema it was compiled from differs.
var schemas sync.Map

func toolSchema(name string, raw json.RawMessage) (*jsonschema.Schema, error) {
	if v, ok := schemas.Load(name); ok {
		if c := v.(compiledSchema); c.raw == string(raw) {
			return c.schema, nil
		}
	}
	s, err := jsonschema.CompileString(name+".json", string(raw))
	if err != nil {
		return nil, err
	}
	schemas.Store(name, compiledSchema{raw: string(raw), schema: s})
	return s, nil
}

// validateArgs checks tool arguments against the tool's inputSchema and
// reports the innermost failing keyword. Missing or null arguments count as {}.
func validateArgs(name string, schema, args json.RawMessage) error {
	if len(schema) == 0 {
		return nil
	}
	s, err := toolSchema(name, schema)
	if err != nil {
		return fmt.Errorf("invalid inputSchema for %s: %w", name, err)
	}

	var doc any = map[string]any{}
	if len(args) > 0 && string(args) != "null" {
		if err := json.Unmarshal(args, &doc); err != nil {
			return fmt.Errorf("arguments for %s are not valid JSON: %w", name, err)
		}
	}

	err = s.Validate(doc)
	if err == nil {
		return nil
	}
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return fmt.Errorf("invalid arguments for %s: %v", name, err)
	}
	for len(ve.Causes) > 0 && ve.Causes[0] != nil {
		ve = ve.Causes[0]
	}

	at := ve.InstanceLocation
	if at == "" {
		at = "/"
	}
	reason := ve.Message
	if reason == "" {
		reason = ve.Error()
	}
	return fmt.Errorf("invalid arguments for %s at %s: %s", name, at, reason)
}
