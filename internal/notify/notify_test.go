package notify

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConn struct {
	subject  string
	data     []byte
	flushed  int
	drained  bool
	pubErr   error
	flushErr error
}

func (f *fakeConn) Publish(subject string, data []byte) error {
	if f.pubErr != nil {
		return f.pubErr
	}
	f.subject, f.data = subject, data
	return nil
}

func (f *fakeConn) FlushWithContext(context.Context) error {
	f.flushed++
	return f.flushErr
}

func (f *fakeConn) Drain() error {
	f.drained = true
	return nil
}

func TestNATSPublisher_Publish(t *testing.T) {
	fc := &fakeConn{}
	p := newNATSPublisher(fc, "")

	require.NoError(t, p.Publish(context.Background(), IndexEvent{ID: "1", Trigger: "watch", Hash: "abc", Pages: 3}))
	assert.Equal(t, DefaultSubject, fc.subject)
	assert.Equal(t, 1, fc.flushed)

	var got IndexEvent
	require.NoError(t, json.Unmarshal(fc.data, &got))
	assert.Equal(t, "abc", got.Hash)
	assert.Equal(t, 3, got.Pages)
	assert.False(t, got.Timestamp.IsZero())

	require.NoError(t, p.Close())
	assert.True(t, fc.drained)
}

func TestNATSPublisher_Errors(t *testing.T) {
	boom := errors.New("boom")

	p := newNATSPublisher(&fakeConn{pubErr: boom}, "custom.subject")
	require.ErrorIs(t, p.Publish(context.Background(), IndexEvent{}), boom)

	p = newNATSPublisher(&fakeConn{flushErr: boom}, "custom.subject")
	require.ErrorIs(t, p.Publish(context.Background(), IndexEvent{}), boom)
}

func TestNew(t *testing.T) {
	p, err := New(Options{})
	require.NoError(t, err)
	assert.IsType(t, Noop{}, p)
	require.NoError(t, p.Publish(context.Background(), IndexEvent{}))

	_, err = New(Options{URL: "nats://127.0.0.1:1", Timeout: 200 * time.Millisecond})
	require.Error(t, err)
}
