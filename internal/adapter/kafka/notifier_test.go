package kafka

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/nri-explorer/internal/dataset"
)

func TestSerializeToMessage(t *testing.T) {
	loadedAt := time.Date(2026, time.August, 23, 9, 30, 0, 0, time.UTC)
	event := dataset.RefreshEvent{
		Source:   dataset.SourceNetwork,
		Rows:     3231,
		LoadedAt: loadedAt,
	}

	msg, err := serializeToMessage(event)
	require.NoError(t, err)

	assert.Equal(t, []byte("2026-08-23T09:30:00Z"), msg.Key)
	assert.JSONEq(t, `{"source":"network","rows":3231,"loaded_at":"2026-08-23T09:30:00Z"}`, string(msg.Value))
	require.Len(t, msg.Headers, 2)
	assert.Equal(t, "event_type", msg.Headers[0].Key)
	assert.Equal(t, []byte("dataset-refresh"), msg.Headers[0].Value)
	assert.Equal(t, "source", msg.Headers[1].Key)
	assert.Equal(t, []byte("network"), msg.Headers[1].Value)
}
