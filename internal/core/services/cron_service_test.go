package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingSweeper struct {
	calls int
	err   error
}

func (c *countingSweeper) SweepExpired(context.Context) (int64, error) {
	c.calls++
	return 2, c.err
}

func TestCronServiceRejectsBadSpec(t *testing.T) {
	_, err := NewCronService(&countingSweeper{}, "every tuesday-ish")
	assert.Error(t, err)
}

func TestCronServiceSweep(t *testing.T) {
	sw := &countingSweeper{}
	svc, err := NewCronService(sw, "@every 1h")
	require.NoError(t, err)

	svc.Start()
	svc.SweepSessions()
	sw.err = errors.New("db down")
	svc.SweepSessions()
	svc.Stop()

	assert.Equal(t, 2, sw.calls)
}
