package reltree

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotSingularError(t *testing.T) {
	t.Parallel()

	err := NewNotSingularError(3)
	assert.Equal(t, "reltree: node not singular (got 3 matches, expected 1)", err.Error())
	assert.Equal(t, 3, err.Count())
	assert.True(t, errors.Is(err, ErrNotSingular))
	assert.True(t, IsNotSingular(err))

	unknown := &NotSingularError{count: -1}
	assert.Equal(t, "reltree: node not singular", unknown.Error())
	assert.Equal(t, -1, unknown.Count())

	wrapped := fmt.Errorf("looking up node: %w", err)
	assert.True(t, IsNotSingular(wrapped))

	assert.False(t, IsNotSingular(nil))
	assert.False(t, IsNotSingular(errors.New("other")))
}

func TestConfigError(t *testing.T) {
	t.Parallel()

	err := NewConfigError("MaxDepth", "depth cannot be negative (got -1)")
	assert.Equal(t, "reltree: invalid configuration MaxDepth: depth cannot be negative (got -1)", err.Error())

	var ce *ConfigError
	assert.True(t, errors.As(fmt.Errorf("building tree: %w", err), &ce))
	assert.Equal(t, "MaxDepth", ce.Option)
}

func TestFetchErrorUnwrap(t *testing.T) {
	t.Parallel()

	cause := errors.New("connection refused")
	err := &FetchError{Path: "model_two", Err: cause}
	assert.Equal(t, `reltree: fetching records for node "model_two": connection refused`, err.Error())
	assert.True(t, errors.Is(err, cause))
}
