package clients

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"GoSpamGuard/app/moderation"
)

type fakeClient struct {
	subscribed *moderation.Hub
	closed     bool
}

func (f *fakeClient) Subscribe(hub *moderation.Hub) { f.subscribed = hub }
func (f *fakeClient) Close() error                  { f.closed = true; return nil }

func TestRegistryRegisterAndClose(t *testing.T) {
	r := NewRegistry()
	hub := &moderation.Hub{}
	fc := &fakeClient{}

	require.NoError(t, r.Register(fc, hub))
	assert.Same(t, hub, fc.subscribed)
	assert.Len(t, r.GetAll(), 1)

	r.CloseAll()
	assert.True(t, fc.closed)
	assert.Empty(t, r.GetAll())
}

func TestCreateClient(t *testing.T) {
	_, err := CreateClient(Config{Type: "telegram", Enabled: false})
	require.Error(t, err)

	_, err = CreateClient(Config{Type: "carrier-pigeon", Enabled: true})
	require.Error(t, err)

	c, err := CreateClient(Config{Type: "telegram", Enabled: true, Config: map[string]string{"token": "TEST"}})
	require.NoError(t, err)
	assert.IsType(t, &TelegramClient{}, c)
}
