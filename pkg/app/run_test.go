package app

import (
	"context"
	"testing"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

type mockServer struct {
	err    error
	called bool
}

func (m *mockServer) Shutdown(ctx context.Context) error {
	m.called = true
	_, ok := ctx.Deadline()
	if !ok {
		return errors.New("no deadline")
	}
	return m.err
}

func TestShutdown(t *testing.T) {
	first := &mockServer{err: errors.New("first")}
	second := &mockServer{}
	third := &mockServer{err: errors.New("third")}

	err := Shutdown(first, second, third)
	require.True(t, first.called)
	require.True(t, second.called)
	require.True(t, third.called)
	require.Len(t, multierr.Errors(err), 2)
	require.Nil(t, Shutdown(second))
}

func TestLogger(t *testing.T) {
	require.NotNil(t, Logger("DEBUG"))
	require.Panics(t, func() { Logger("LOUD") })
}
