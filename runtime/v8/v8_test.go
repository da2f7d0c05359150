package v8

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yaoapp/jsbind/runtime/enginetest"
)

func TestEngine(t *testing.T) {
	engine := New(nil)
	assert.Equal(t, "v8", engine.Name())
	enginetest.Run(t, engine)
}

func TestTimeout(t *testing.T) {
	ctx := enginetest.Context(t, New(&Option{Timeout: 50 * time.Millisecond}))

	_, err := ctx.Run("while(true){}", "timeout.js")
	assert.NotNil(t, err)
}

func TestOptionValidate(t *testing.T) {
	option := &Option{Timeout: -1}
	option.Validate()
	assert.Equal(t, time.Duration(0), option.Timeout)

	option = &Option{Timeout: time.Microsecond}
	option.Validate()
	assert.Equal(t, time.Millisecond, option.Timeout)
}

func TestFunctionV8(t *testing.T) {
	ctx := enginetest.Context(t, New(nil))
	global, err := ctx.Global()
	require.Nil(t, err)

	obj, err := ctx.NewObject()
	require.Nil(t, err)
	require.Nil(t, global.Set("obj", obj, 0))

	value, err := global.Get("obj")
	require.Nil(t, err)
	assert.Equal(t, map[string]interface{}{}, value)

	assert.NotNil(t, ctx.(*Context).V8())
	assert.NotNil(t, obj.(*Object).V8())
}
