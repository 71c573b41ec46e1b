package types

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorIsMatchesByKind(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		target error
		want   bool
	}{
		{"not found matches sentinel", NewNotFoundError("dashboard", "d1"), ErrNotFound, true},
		{"not found does not match conflict", NewNotFoundError("dashboard", "d1"), ErrConflict, false},
		{"conflict matches sentinel", NewConflictError("dashboard", "d1"), ErrConflict, true},
		{"resolvable conflict is not unresolvable", NewConflictError("dashboard", "d1"), ErrUnresolvableConflict, false},
		{"unresolvable conflict matches both", NewUnresolvableConflictError("dashboard", "d1"), ErrUnresolvableConflict, true},
		{"unresolvable conflict is still a conflict", NewUnresolvableConflictError("dashboard", "d1"), ErrConflict, true},
		{"wrapped error still matches", fmt.Errorf("outer: %w", NewBadRequestError("nope")), ErrBadRequest, true},
		{"invalid argument is not bad request", NewInvalidArgumentError("empty"), ErrBadRequest, false},
		{"plain error matches nothing", errors.New("boom"), ErrUnavailable, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, errors.Is(tt.err, tt.target))
		})
	}
}

func TestErrorPredicates(t *testing.T) {
	assert.True(t, IsNotFound(NewNotFoundError("a", "b")))
	assert.True(t, IsConflict(NewConflictError("a", "b")))
	assert.True(t, IsConflict(NewUnresolvableConflictError("a", "b")))
	assert.True(t, IsUnresolvableConflict(NewUnresolvableConflictError("a", "b")))
	assert.False(t, IsUnresolvableConflict(NewConflictError("a", "b")))
	assert.True(t, IsBadRequest(NewUnsupportedTypeError("a")))
	assert.True(t, IsInvalidArgument(NewInvalidArgumentError("x")))
	assert.True(t, IsForbidden(NewForbiddenError("a", "b")))
	assert.True(t, IsUnavailable(NewUnavailableError(errors.New("disk"))))
}

func TestAsErrorWrapsForeignErrors(t *testing.T) {
	cause := errors.New("disk on fire")
	e := AsError(cause)
	require.NotNil(t, e)
	assert.Equal(t, KindUnavailable, e.Kind)
	assert.ErrorIs(t, e, cause)
	assert.Nil(t, AsError(nil))
	assert.Equal(t, ErrorKind(""), KindOf(nil))
}

func TestCanceledError(t *testing.T) {
	e := NewCanceledError(context.Canceled)
	assert.True(t, IsUnavailable(e))
	assert.ErrorIs(t, e, context.Canceled)
	assert.Equal(t, "request canceled", e.Message)
	assert.NotContains(t, e.Error(), "storage unavailable")

	e = NewCanceledError(fmt.Errorf("query: %w", context.DeadlineExceeded))
	assert.Equal(t, "request deadline exceeded", e.Message)
	assert.True(t, IsContextError(e))
	assert.False(t, IsContextError(errors.New("disk")))
}

func TestErrorStatusCode(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, NewNotFoundError("a", "b").StatusCode())
	assert.Equal(t, http.StatusConflict, NewConflictError("a", "b").StatusCode())
	assert.Equal(t, http.StatusBadRequest, NewInvalidArgumentError("x").StatusCode())
	assert.Equal(t, http.StatusForbidden, NewForbiddenError("a", "b").StatusCode())
	assert.Equal(t, http.StatusServiceUnavailable, NewUnavailableError(nil).StatusCode())
}

func TestErrorJSONCarriesKindAndObject(t *testing.T) {
	data, err := json.Marshal(NewUnresolvableConflictError("dashboard", "d1"))
	require.NoError(t, err)

	var wire map[string]any
	require.NoError(t, json.Unmarshal(data, &wire))
	assert.Equal(t, float64(http.StatusConflict), wire["statusCode"])
	assert.Equal(t, "Conflict", wire["error"])
	assert.Equal(t, "Conflict", wire["kind"])
	assert.Equal(t, "dashboard", wire["type"])
	assert.Equal(t, map[string]any{"isNotOverwritable": true}, wire["metadata"])

	var back Error
	require.NoError(t, json.Unmarshal(data, &back))
	assert.True(t, IsUnresolvableConflict(&back))
	assert.Equal(t, "d1", back.ID)
}

func TestWithObjectCopies(t *testing.T) {
	base := NewBadRequestError("bad")
	tagged := base.WithObject("dashboard", "d1")
	assert.Equal(t, "dashboard", tagged.Type)
	assert.Empty(t, base.Type)
}
