package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBus_CrowdPercentage(t *testing.T) {
	tests := []struct {
		name            string
		currentCapacity int
		maxCapacity     int
		want            int
	}{
		{"пустой автобус", 0, 40, 0},
		{"половина мест", 1, 2, 50},
		{"полный автобус", 2, 2, 100},
		{"округление вверх", 1, 3, 33},
		{"округление до целого", 2, 3, 67},
		{"нулевая вместимость не делит на ноль", 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bus := Bus{CurrentCapacity: tt.currentCapacity, MaxCapacity: tt.maxCapacity}
			assert.Equal(t, tt.want, bus.CrowdPercentage())
		})
	}
}

func TestBus_CrowdStatus(t *testing.T) {
	tests := []struct {
		name            string
		currentCapacity int
		maxCapacity     int
		want            string
	}{
		{"0 процентов", 0, 100, CrowdStatusLow},
		{"29 процентов", 29, 100, CrowdStatusLow},
		{"граница 30 процентов", 30, 100, CrowdStatusMedium},
		{"50 процентов", 50, 100, CrowdStatusMedium},
		{"69 процентов", 69, 100, CrowdStatusMedium},
		{"граница 70 процентов", 70, 100, CrowdStatusHigh},
		{"100 процентов", 100, 100, CrowdStatusHigh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bus := Bus{CurrentCapacity: tt.currentCapacity, MaxCapacity: tt.maxCapacity}
			assert.Equal(t, tt.want, bus.CrowdStatus())
		})
	}
}

func TestBus_ToResponse(t *testing.T) {
	bus := Bus{
		ID:              7,
		BusNumber:       "KA-01-1234",
		MaxCapacity:     2,
		CurrentCapacity: 1,
	}

	resp := bus.ToResponse()
	assert.Equal(t, 50, resp.CrowdPercentage)
	assert.Equal(t, CrowdStatusMedium, resp.CrowdStatus)
	// Местоположение не включается, пока оператор его не прислал
	assert.Nil(t, resp.CurrentLocation)

	bus.HasLocation = true
	bus.CurrentLocation = Location{Latitude: 12.97, Longitude: 77.59, Address: "Центральный вокзал"}
	resp = bus.ToResponse()
	assert.NotNil(t, resp.CurrentLocation)
	assert.Equal(t, "Центральный вокзал", resp.CurrentLocation.Address)
}
