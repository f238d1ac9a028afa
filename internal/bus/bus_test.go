package bus

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBus_CallRegisteredAction(t *testing.T) {
	b := New()
	require.NoError(t, b.RegisterAction("echo", func(ctx context.Context, payload any) (any, error) {
		return payload, nil
	}))

	got, err := b.Call(context.Background(), "echo", "hello")
	require.NoError(t, err)
	require.Equal(t, "hello", got)
}

func TestBus_CallUnknownAction(t *testing.T) {
	b := New()
	_, err := b.Call(context.Background(), "missing", nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "missing")
}

func TestBus_RegisterDuplicateActionFails(t *testing.T) {
	b := New()
	fn := func(ctx context.Context, payload any) (any, error) { return nil, nil }
	require.NoError(t, b.RegisterAction("dup", fn))
	require.Error(t, b.RegisterAction("dup", fn))
}

func TestBus_ActionErrorPropagates(t *testing.T) {
	b := New()
	wantErr := errors.New("boom")
	require.NoError(t, b.RegisterAction("fail", func(ctx context.Context, payload any) (any, error) {
		return nil, wantErr
	}))

	_, err := b.Call(context.Background(), "fail", nil)
	require.ErrorIs(t, err, wantErr)
}

func TestBus_PublishDeliversInSubscriptionOrder(t *testing.T) {
	b := New()

	var order []int
	b.Subscribe("ev", func(any) { order = append(order, 1) })
	b.Subscribe("ev", func(any) { order = append(order, 2) })

	b.Publish("ev", "payload")
	require.Equal(t, []int{1, 2}, order)
}

func TestBus_PublishWithoutSubscribersIsNoop(t *testing.T) {
	b := New()
	b.Publish("nobody-listens", 42)
}

func TestBus_PublishCarriesPayload(t *testing.T) {
	b := New()

	var got any
	b.Subscribe("ev", func(payload any) { got = payload })

	type snap struct{ V int }
	b.Publish("ev", snap{V: 7})
	require.Equal(t, snap{V: 7}, got)
}
