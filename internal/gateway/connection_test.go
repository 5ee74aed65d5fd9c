package gateway

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnection_TrySend(t *testing.T) {
	conn := NewConnection("conn-1", nil, 2)

	assert.True(t, conn.TrySend(PartnerLeftMessage()))

	data := <-conn.send
	var msg ServerMessage
	require.NoError(t, json.Unmarshal(data, &msg))
	assert.Equal(t, MessageTypePartnerLeft, msg.Type)
}

func TestConnection_TrySendDropsWhenFull(t *testing.T) {
	conn := NewConnection("conn-1", nil, 1)

	assert.True(t, conn.TrySend(PartnerLeftMessage()))
	// Buffer is full now; the next message is dropped, not blocked on.
	assert.False(t, conn.TrySend(PartnerLeftMessage()))
	assert.Len(t, conn.send, 1)
}

func TestConnection_CloseIsIdempotent(t *testing.T) {
	conn := NewConnection("conn-1", nil, 1)

	conn.Close()
	assert.NotPanics(t, func() { conn.Close() })

	_, open := <-conn.send
	assert.False(t, open)
}

func TestServerMessage_CounterSerialization(t *testing.T) {
	data, err := json.Marshal(OnlineCountMessage(0))
	require.NoError(t, err)
	// A zero count must still appear on the wire.
	assert.JSONEq(t, `{"type":"onlineCount","count":0}`, string(data))

	data, err = json.Marshal(RoomsCountMessage(3))
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"roomsCount","roomsCount":3}`, string(data))
}

func TestClientMessage_PrefsDefaulting(t *testing.T) {
	var msg ClientMessage
	require.NoError(t, json.Unmarshal([]byte(`{"type":"joinQueue"}`), &msg))
	prefs := msg.MatchPrefs()
	assert.Equal(t, "any", prefs.Language)
	assert.Equal(t, "any", prefs.Country)
	assert.Equal(t, "any", prefs.Gender)

	require.NoError(t, json.Unmarshal([]byte(`{"type":"joinQueue","prefs":{"language":"en"}}`), &msg))
	prefs = msg.MatchPrefs()
	assert.Equal(t, "en", prefs.Language)
	assert.Equal(t, "any", prefs.Country)
}
