package binding

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/yaoapp/jsbind/process"
	"github.com/yaoapp/jsbind/repository"
	"github.com/yaoapp/jsbind/runtime"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		err  error
		kind Kind
		code int
	}{
		{&repository.MemberError{Member: "Missing", Kind: "method"}, InvocationResolution, 404},
		{&repository.ArityError{Method: "Add", Want: 2}, InvocationResolution, 404},
		{runtime.NewMarshalError(errors.New("bad"), "argument 0"), MarshalingFailure, 500},
		{&repository.CallError{Method: "Deny", Code: 403, Err: errors.New("denied")}, InvocationFailure, 403},
		{&repository.ReadOnlyError{Property: "Version"}, InvocationFailure, 403},
		{&process.Error{Code: 418, Message: "teapot"}, InvocationFailure, 418},
		{fmt.Errorf("wrapped: %w", &repository.ArityError{Method: "Add"}), InvocationResolution, 404},
		{errors.New("unknown"), InvocationFailure, 500},
	}

	for _, test := range tests {
		err := classify(test.err)
		assert.Equal(t, test.kind, err.Kind, test.err.Error())
		assert.Equal(t, test.code, err.Code(), test.err.Error())
		assert.True(t, errors.Is(err, test.err))
	}

	bindErr := precondition(ErrAlreadyBound, "add")
	assert.Same(t, bindErr, classify(bindErr))
}

func TestError(t *testing.T) {
	err := precondition(ErrAlreadyBound, "add")
	assert.Equal(t, "add: the wrapper has been bound", err.Error())
	assert.Equal(t, "BindingPrecondition", runtime.ErrorName(err))
	assert.Equal(t, 400, runtime.ErrorCode(err))
	assert.True(t, errors.Is(err, ErrAlreadyBound))
	assert.False(t, errors.Is(err, ErrNotBound))

	err = resolution(ErrOwnerNotFound, "add object %d", 1)
	assert.Equal(t, "add object 1: the owner object is not found", err.Error())
	assert.True(t, Is(err, InvocationResolution))
	assert.False(t, Is(errors.New("plain"), InvocationResolution))

	assert.Equal(t, "InvocationFailure", (&Error{Kind: InvocationFailure}).Error())
	assert.Equal(t, "bound", Bound.String())
	assert.Equal(t, "unbound", Unbound.String())
}
