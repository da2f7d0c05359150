package jsbind

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yaoapp/jsbind/runtime"
	"github.com/yaoapp/kun/log"
)

func TestOptionValidate(t *testing.T) {
	option := &Option{}
	option.Validate()
	assert.Equal(t, "v8", option.Engine)
	assert.Equal(t, "production", option.Mode)
	assert.Equal(t, 30000, option.ProcessTimeout)
	assert.Equal(t, 30*time.Second, option.ProcessTimeoutDuration())
	assert.Equal(t, 256, option.CacheSize)
	assert.Equal(t, runtime.DontDelete, option.Attribute())

	option = &Option{Engine: "GOJA", Timeout: 100, Attributes: []string{"readonly", "dontenum"}}
	option.Validate()
	assert.Equal(t, "goja", option.Engine)
	assert.Equal(t, 100*time.Millisecond, option.TimeoutDuration())
	assert.Equal(t, runtime.ReadOnly|runtime.DontEnum, option.Attribute())

	option = &Option{Engine: "rhino", Timeout: -1, Attributes: []string{"sealed"}}
	option.Validate()
	assert.Equal(t, "v8", option.Engine)
	assert.Equal(t, 0, option.Timeout)
	assert.Equal(t, runtime.DontDelete, option.Attribute())

	option = &Option{LogLevel: "TRACE"}
	option.Validate()
	assert.Equal(t, log.TraceLevel, logLevels[strings.ToLower(option.LogLevel)])

	option = &Option{LogLevel: "verbose"}
	option.Validate()
	assert.Equal(t, "verbose", option.LogLevel)
}

func TestLoadOption(t *testing.T) {
	dir := t.TempDir()

	yamlFile := filepath.Join(dir, "app.yaml")
	require.Nil(t, os.WriteFile(yamlFile, []byte(`
engine: goja
mode: development
timeout: 100
attributes: [dontenum, dontdelete]
processes:
  Codec:
    parse: json.parse
`), 0644))

	option, err := LoadOption(yamlFile)
	require.Nil(t, err)
	assert.Equal(t, "goja", option.Engine)
	assert.Equal(t, "development", option.Mode)
	assert.Equal(t, 100, option.Timeout)
	assert.Equal(t, runtime.DontEnum|runtime.DontDelete, option.Attribute())
	assert.Equal(t, map[string]map[string]string{"Codec": {"parse": "json.parse"}}, option.Processes)

	jsoncFile := filepath.Join(dir, "app.jsonc")
	require.Nil(t, os.WriteFile(jsoncFile, []byte(`{
	// the engine
	"engine": "v8",
	"debug": true,
	"cacheSize": 16, // trailing comma
}`), 0644))

	option, err = LoadOption(jsoncFile)
	require.Nil(t, err)
	assert.Equal(t, "v8", option.Engine)
	assert.True(t, option.Debug)
	assert.Equal(t, 16, option.CacheSize)

	option, err = ParseOption("app.json", []byte(`{"engine": "goja", "timeout": 10,}`))
	require.Nil(t, err)
	assert.Equal(t, 10, option.Timeout)

	_, err = ParseOption("app.json", []byte(`{"engine": "rhino"}`))
	assert.NotNil(t, err)

	_, err = ParseOption("app.yaml", []byte("unknown: true"))
	assert.NotNil(t, err)

	_, err = ParseOption("app.yaml", []byte("timeout: -1"))
	assert.NotNil(t, err)

	_, err = LoadOption(filepath.Join(dir, "missing.yaml"))
	assert.NotNil(t, err)
}

func TestWatchOption(t *testing.T) {
	file := filepath.Join(t.TempDir(), "app.yaml")
	require.Nil(t, os.WriteFile(file, []byte("engine: v8\n"), 0644))

	changes := make(chan *Option, 10)
	stop, err := WatchOption(file, func(option *Option, err error) {
		if err == nil {
			changes <- option
		}
	})
	require.Nil(t, err)
	defer stop()

	require.Nil(t, os.WriteFile(file, []byte("engine: goja\n"), 0644))

	timeout := time.After(5 * time.Second)
	for {
		select {
		case option := <-changes:
			if option.Engine == "goja" {
				return
			}
		case <-timeout:
			t.Fatal("the option is not reloaded")
		}
	}
}
