package jsbind

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/yaoapp/jsbind/json"
	"github.com/yaoapp/jsbind/runtime"
	"github.com/yaoapp/kun/log"
)

// Option the host option
type Option struct {
	Engine         string                       `json:"engine,omitempty" yaml:"engine,omitempty"`                 // v8, goja. the default value is v8
	Mode           string                       `json:"mode,omitempty" yaml:"mode,omitempty"`                     // production, development
	Debug          bool                         `json:"debug,omitempty" yaml:"debug,omitempty"`                   // remap the stack traces of the script errors to the sources
	Timeout        int                          `json:"timeout,omitempty" yaml:"timeout,omitempty"`               // the script execution timeout (ms), 0 means never
	ProcessTimeout int                          `json:"processTimeout,omitempty" yaml:"processTimeout,omitempty"` // the timeout of the process methods (ms), the default value is 30000
	CacheSize      int                          `json:"cacheSize,omitempty" yaml:"cacheSize,omitempty"`           // the number of analysed types kept in the cache, the default value is 256
	Attributes     []string                     `json:"attributes,omitempty" yaml:"attributes,omitempty"`         // the attributes of the bound members, the default value is ["dontdelete"]
	LogLevel       string                       `json:"logLevel,omitempty" yaml:"logLevel,omitempty"`             // trace, debug, info, warn, error. keep the current level when empty
	Processes      map[string]map[string]string `json:"processes,omitempty" yaml:"processes,omitempty"`           // {"Object": {"method": "group.process"}}
	attr           runtime.Attribute
}

// optionSchema the JSON Schema of the option file
const optionSchema = `{
	"type": "object",
	"properties": {
		"engine": {"type": "string", "enum": ["v8", "goja"]},
		"mode": {"type": "string", "enum": ["production", "development"]},
		"debug": {"type": "boolean"},
		"timeout": {"type": "integer", "minimum": 0},
		"processTimeout": {"type": "integer", "minimum": 0},
		"cacheSize": {"type": "integer", "minimum": 0},
		"attributes": {"type": "array", "items": {"type": "string", "enum": ["none", "readonly", "dontenum", "dontdelete"]}},
		"logLevel": {"type": "string", "enum": ["trace", "debug", "info", "warn", "error"]},
		"processes": {"type": "object", "additionalProperties": {"type": "object", "additionalProperties": {"type": "string"}}}
	},
	"additionalProperties": false
}`

// LoadOption load the option from a YAML, JSON or JSONC file
func LoadOption(file string) (*Option, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	return ParseOption(file, data)
}

// ParseOption parse the option, the format is detected by the file name
func ParseOption(file string, data []byte) (*Option, error) {
	var raw interface{}
	err := json.ParseFile(file, data, &raw)
	if err != nil {
		return nil, fmt.Errorf("%s %w", file, err)
	}

	err = json.Validate(normalize(raw), optionSchema)
	if err != nil {
		return nil, fmt.Errorf("%s %w", file, err)
	}

	option := &Option{}
	err = json.ParseFile(file, data, option)
	if err != nil {
		return nil, fmt.Errorf("%s %w", file, err)
	}

	option.Validate()
	return option, nil
}

// Validate set the default values and fix the invalid ones
func (option *Option) Validate() {
	option.Engine = strings.ToLower(option.Engine)
	switch option.Engine {
	case "v8", "goja":
	case "":
		option.Engine = "v8"
	default:
		log.Warn("[jsbind] the engine %s is not supported, use v8", option.Engine)
		option.Engine = "v8"
	}

	if option.Mode != "development" {
		option.Mode = "production"
	}

	if option.Timeout < 0 {
		log.Warn("[jsbind] the timeout should not be negative, the execution will never be terminated")
		option.Timeout = 0
	}

	if option.ProcessTimeout <= 0 {
		option.ProcessTimeout = 30000
	}

	if option.CacheSize <= 0 {
		option.CacheSize = 256
	}

	option.attr = runtime.DontDelete
	if len(option.Attributes) > 0 {
		attr, err := runtime.ParseAttribute(option.Attributes)
		if err != nil {
			log.Warn("[jsbind] %s, use dontdelete", err.Error())
		} else {
			option.attr = attr
		}
	}

	if option.LogLevel != "" {
		level, has := logLevels[strings.ToLower(option.LogLevel)]
		if !has {
			log.Warn("[jsbind] the log level %s is not supported", option.LogLevel)
		} else {
			log.SetLevel(level)
		}
	}
}

// Attribute the attribute of the bound members
func (option *Option) Attribute() runtime.Attribute {
	return option.attr
}

// TimeoutDuration the script execution timeout
func (option *Option) TimeoutDuration() time.Duration {
	return time.Duration(option.Timeout) * time.Millisecond
}

// ProcessTimeoutDuration the timeout of the process methods
func (option *Option) ProcessTimeoutDuration() time.Duration {
	return time.Duration(option.ProcessTimeout) * time.Millisecond
}

var logLevels = map[string]log.Level{
	"trace": log.TraceLevel,
	"debug": log.DebugLevel,
	"info":  log.InfoLevel,
	"warn":  log.WarnLevel,
	"error": log.ErrorLevel,
}

// normalize the yaml values to the JSON types the schema validator expects
func normalize(value interface{}) interface{} {
	switch v := value.(type) {
	case map[string]interface{}:
		for key, item := range v {
			v[key] = normalize(item)
		}
		return v
	case []interface{}:
		for i, item := range v {
			v[i] = normalize(item)
		}
		return v
	case int:
		return float64(v)
	}
	return value
}
