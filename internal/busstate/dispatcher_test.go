package busstate

import (
	"encoding/json"
	"testing"
	"time"

	"bus-tracker-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcher_Routing(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name       string
		event      Event
		wantRoom   bool
		wantGlobal bool
	}{
		{"местоположение в комнату", LocationUpdate{BusID: 1, Timestamp: now}, true, false},
		{"заполненность в комнату", CrowdUpdate{BusID: 1, Timestamp: now}, true, false},
		{"сводка заполненности всем", CapacityUpdate{BusID: 1, Timestamp: now}, false, true},
		{"начало рейса всем", JourneyStarted{BusID: 1, BusNumber: "BUS-1"}, false, true},
		{"конец рейса всем", JourneyEnded{BusID: 1, BusNumber: "BUS-1"}, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			publisher := newFakePublisher()
			dispatcher := NewDispatcher(publisher)

			dispatcher.Dispatch(tt.event)

			if tt.wantRoom {
				require.Len(t, publisher.room[1], 1)
			} else {
				assert.Empty(t, publisher.room[1])
			}
			if tt.wantGlobal {
				require.Len(t, publisher.global, 1)
			} else {
				assert.Empty(t, publisher.global)
			}
		})
	}
}

func TestDispatcher_EnvelopeFormat(t *testing.T) {
	publisher := newFakePublisher()
	dispatcher := NewDispatcher(publisher)

	dispatcher.Dispatch(LocationUpdate{
		BusID: 7,
		Location: models.Location{
			Latitude:  12.9716,
			Longitude: 77.5946,
			Address:   "Центральный вокзал",
		},
		CrowdCount: 3,
		Timestamp:  time.Now(),
	})

	require.Len(t, publisher.room[7], 1)

	var env struct {
		Type    string `json:"type"`
		Payload struct {
			BusID      uint `json:"busId"`
			CrowdCount int  `json:"crowdCount"`
			Location   struct {
				Address string `json:"address"`
			} `json:"location"`
		} `json:"payload"`
	}
	require.NoError(t, json.Unmarshal(publisher.room[7][0], &env))

	assert.Equal(t, LocationUpdateType, env.Type)
	assert.Equal(t, uint(7), env.Payload.BusID)
	assert.Equal(t, 3, env.Payload.CrowdCount)
	assert.Equal(t, "Центральный вокзал", env.Payload.Location.Address)
}

func TestDispatcher_NilPublisher(t *testing.T) {
	dispatcher := NewDispatcher(nil)

	// Диспетчер без приемника молча игнорирует события
	assert.NotPanics(t, func() {
		dispatcher.Dispatch(JourneyEnded{BusID: 1})
	})
}
