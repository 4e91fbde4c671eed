package analyzer

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"path"

	"github.com/lexandro/codesearch-mcp/index"
)

// JSONAnalyzer records the top-level keys of a JSON document. Files named
// package.json also get their package name and dependency names.
type JSONAnalyzer struct{}

func NewJSONAnalyzer() *JSONAnalyzer {
	return &JSONAnalyzer{}
}

func (a *JSONAnalyzer) Analyze(relativePath string, content []byte) (Result, error) {
	if !json.Valid(content) {
		return Result{}, errors.New("invalid JSON")
	}

	keys, values, err := objectFields(content)
	if err != nil {
		return Result{}, err
	}

	info := &index.JSONInfo{Keys: keys}
	if info.Keys == nil {
		info.Keys = []string{}
	}
	if path.Base(relativePath) == "package.json" {
		readPackageManifest(info, values)
	}
	return Result{JSON: info, Keywords: keys}, nil
}

func readPackageManifest(info *index.JSONInfo, values map[string]json.RawMessage) {
	if raw, ok := values["name"]; ok {
		var name string
		if json.Unmarshal(raw, &name) == nil {
			info.PackageName = name
		}
	}
	info.Dependencies = dependencyNames(values["dependencies"])
	info.DevDependencies = dependencyNames(values["devDependencies"])
}

func dependencyNames(raw json.RawMessage) []string {
	names := []string{}
	if raw == nil {
		return names
	}
	if keys, _, err := objectFields(raw); err == nil && keys != nil {
		names = keys
	}
	return names
}

// objectFields decodes a JSON object keeping the order in which its keys first
// appear. A document whose top level is not an object yields no keys.
func objectFields(data []byte) ([]string, map[string]json.RawMessage, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))
	token, err := decoder.Token()
	if err != nil {
		return nil, nil, fmt.Errorf("reading JSON: %w", err)
	}
	if delim, ok := token.(json.Delim); !ok || delim != '{' {
		return nil, nil, nil
	}

	var keys []string
	values := make(map[string]json.RawMessage)
	for decoder.More() {
		token, err := decoder.Token()
		if err != nil {
			return keys, values, fmt.Errorf("reading JSON key: %w", err)
		}
		key, ok := token.(string)
		if !ok {
			return keys, values, fmt.Errorf("unexpected JSON token %v", token)
		}
		var value json.RawMessage
		if err := decoder.Decode(&value); err != nil {
			return keys, values, fmt.Errorf("reading value of %q: %w", key, err)
		}
		if _, seen := values[key]; !seen {
			keys = append(keys, key)
		}
		values[key] = value
	}
	return keys, values, nil
}
