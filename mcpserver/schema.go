package mcpserver

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

// ArgumentError lists every way a tool call's arguments break its input schema.
type ArgumentError struct {
	Tool   string
	Issues []string
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("invalid arguments for %s: %s", e.Tool, strings.Join(e.Issues, "; "))
}

func compileTools(tools []Tool) (map[string]*jsonschema.Schema, error) {
	compiled := make(map[string]*jsonschema.Schema, len(tools))
	for _, tool := range tools {
		schema, err := compileSchema(tool.Name, tool.InputSchema)
		if err != nil {
			return nil, fmt.Errorf("compile %s schema: %w", tool.Name, err)
		}
		compiled[tool.Name] = schema
	}
	return compiled, nil
}

func compileSchema(name string, schema map[string]interface{}) (*jsonschema.Schema, error) {
	encoded, err := json.Marshal(schema)
	if err != nil {
		return nil, err
	}
	url := name + ".json"
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource(url, bytes.NewReader(encoded)); err != nil {
		return nil, err
	}
	return compiler.Compile(url)
}

// schema returns the compiled input schema of the named tool, or nil when no
// such tool exists.
func (s *Server) schema(name string) (*jsonschema.Schema, error) {
	s.schemaOnce.Do(func() {
		s.schemas, s.schemaErr = compileTools(s.Tools())
	})
	if s.schemaErr != nil {
		return nil, s.schemaErr
	}
	return s.schemas[name], nil
}

func validateArguments(schema *jsonschema.Schema, tool string, input map[string]interface{}) error {
	err := schema.Validate(input)
	if err == nil {
		return nil
	}
	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		return err
	}
	return &ArgumentError{Tool: tool, Issues: collectIssues(verr)}
}

func collectIssues(err *jsonschema.ValidationError) []string {
	var issues []string
	var walk func(*jsonschema.ValidationError)
	walk = func(node *jsonschema.ValidationError) {
		if len(node.Causes) == 0 {
			msg := strings.TrimSpace(node.Message)
			if loc := strings.TrimSpace(node.InstanceLocation); loc != "" {
				msg = loc + ": " + msg
			}
			issues = append(issues, msg)
			return
		}
		for _, cause := range node.Causes {
			walk(cause)
		}
	}
	walk(err)
	return issues
}
