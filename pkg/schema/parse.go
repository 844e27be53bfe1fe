package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Parse decodes a form definition from JSON or YAML, normalises aliases, and
// validates the result. JSON documents are detected by their first structural
// byte; everything else goes through the YAML decoder.
func Parse(data []byte) (FormDefinition, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return FormDefinition{}, errors.New("schema: definition payload is empty")
	}

	var def FormDefinition
	if trimmed[0] == '{' {
		if err := json.Unmarshal(trimmed, &def); err != nil {
			return FormDefinition{}, fmt.Errorf("schema: decode definition json: %w", err)
		}
	} else {
		if err := yaml.Unmarshal(trimmed, &def); err != nil {
			return FormDefinition{}, fmt.Errorf("schema: decode definition yaml: %w", err)
		}
	}

	def.Normalize()
	if err := def.Validate(); err != nil {
		return FormDefinition{}, err
	}
	return def, nil
}
