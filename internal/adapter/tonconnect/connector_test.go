package tonconnect

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnector_Connect(t *testing.T) {
	c := New("tc://connect", zerolog.Nop())

	link, err := c.Connect(context.Background(), "sess-1")
	require.NoError(t, err)
	assert.Contains(t, link, "tc://connect?session=sess-1&key=")

	// Reconnecting the same session keeps the same link.
	again, err := c.Connect(context.Background(), "sess-1")
	require.NoError(t, err)
	assert.Equal(t, link, again)
}

func TestConnector_Connect_EmptySession(t *testing.T) {
	c := New("tc://connect", zerolog.Nop())

	_, err := c.Connect(context.Background(), "")
	assert.Error(t, err)
}

func TestConnector_StatusCallbacks(t *testing.T) {
	c := New("tc://connect", zerolog.Nop())

	_, err := c.Connect(context.Background(), "sess-1")
	require.NoError(t, err)

	var got []string
	c.OnStatusChange("sess-1", func(status string) {
		got = append(got, status)
	})

	c.SetStatus("sess-1", StatusConnected)
	c.SetStatus("sess-1", StatusExpired)

	assert.Equal(t, []string{StatusConnected, StatusExpired}, got)
}

func TestConnector_UnknownSessionIsNoop(t *testing.T) {
	c := New("tc://connect", zerolog.Nop())

	c.OnStatusChange("ghost", func(string) { t.Fatal("must not fire") })
	c.SetStatus("ghost", StatusConnected)
}
