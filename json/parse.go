// Package json parses the configuration files, JSON, JSONC and YAML are supported
package json

import (
	"path/filepath"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/kaptinlin/jsonrepair"
	"gopkg.in/yaml.v3"
)

// Format the format of the data
type Format string

const (
	// FormatJSON plain json, repaired when it is broken
	FormatJSON Format = "json"
	// FormatJSONC json with comments
	FormatJSONC Format = "jsonc"
	// FormatYAML yaml
	FormatYAML Format = "yaml"
)

// DetectFormat detect the format by the file extension, then by the content
func DetectFormat(name string, data string) Format {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".jsonc":
		return FormatJSONC
	case ".json":
		return FormatJSON
	}

	trimmed := strings.TrimSpace(data)
	if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
		if strings.Contains(trimmed, "//") || strings.Contains(trimmed, "/*") {
			return FormatJSONC
		}
		return FormatJSON
	}
	return FormatYAML
}

// Parse parse the data to a generic value
func Parse(data string, format Format) (interface{}, error) {
	var res interface{}
	err := ParseTyped(data, &res, format)
	if err != nil {
		return nil, err
	}
	return normalize(res), nil
}

// ParseTyped parse the data into v
// JSON and JSONC fall back to jsonrepair, so trailing commas and other small breakages are accepted
func ParseTyped(data string, v interface{}, format Format) error {
	if format == FormatYAML {
		return yaml.Unmarshal([]byte(data), v)
	}

	if format != FormatJSONC {
		if err := jsoniter.UnmarshalFromString(data, v); err == nil {
			return nil
		}
	}

	trimmed, err := trimComments([]byte(data))
	if err != nil {
		return err
	}

	err = jsoniter.Unmarshal(trimmed, v)
	if err == nil {
		return nil
	}

	repaired, errRepair := jsonrepair.JSONRepair(string(trimmed))
	if errRepair != nil {
		return err
	}
	return jsoniter.UnmarshalFromString(repaired, v)
}

// ParseFile parse the file content into v, the format is detected by the file name
func ParseFile(name string, data []byte, v interface{}) error {
	return ParseTyped(string(data), v, DetectFormat(name, string(data)))
}

// Repair repair the broken JSON
func Repair(data string) (string, error) {
	return jsonrepair.JSONRepair(data)
}

// normalize the yaml maps map[string]interface{} only
func normalize(value interface{}) interface{} {
	switch v := value.(type) {
	case map[string]interface{}:
		for key, item := range v {
			v[key] = normalize(item)
		}
		return v

	case map[interface{}]interface{}:
		res := make(map[string]interface{}, len(v))
		for key, item := range v {
			res[toString(key)] = normalize(item)
		}
		return res

	case []interface{}:
		for i, item := range v {
			v[i] = normalize(item)
		}
		return v
	}
	return value
}

func toString(key interface{}) string {
	if s, ok := key.(string); ok {
		return s
	}
	data, _ := jsoniter.MarshalToString(key)
	return data
}
