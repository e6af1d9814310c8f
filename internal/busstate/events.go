package busstate

import (
	"time"

	"bus-tracker-backend/internal/models"
)

// Имена событий реального времени, отправляемых клиентам
const (
	LocationUpdateType = "location-update"
	CrowdUpdateType    = "crowd-update"
	CapacityUpdateType = "bus-capacity-update"
	JourneyStartedType = "journey-started"
	JourneyEndedType   = "journey-ended"
)

// Event закрытое множество событий изменения состояния автобуса.
// Каждая успешная мутация порождает один или два варианта из этого набора;
// произвольных событий в системе нет.
type Event interface {
	EventType() string
	EventBusID() uint
}

// LocationUpdate новое местоположение автобуса, для подписчиков комнаты
type LocationUpdate struct {
	BusID      uint            `json:"busId"`
	Location   models.Location `json:"location"`
	CrowdCount int             `json:"crowdCount"`
	Timestamp  time.Time       `json:"timestamp"`
}

// CrowdUpdate изменение заполненности, для подписчиков комнаты
type CrowdUpdate struct {
	BusID           uint      `json:"busId"`
	CrowdCount      int       `json:"crowdCount"`
	CrowdPercentage int       `json:"crowdPercentage"`
	CrowdStatus     string    `json:"crowdStatus"`
	Timestamp       time.Time `json:"timestamp"`
}

// CapacityUpdate изменение заполненности, рассылается всем подключенным
// клиентам, чтобы пассажиры видели загруженность до входа в комнату автобуса
type CapacityUpdate struct {
	BusID           uint      `json:"busId"`
	BusNumber       string    `json:"busNumber"`
	CurrentCapacity int       `json:"currentCapacity"`
	MaxCapacity     int       `json:"maxCapacity"`
	CrowdPercentage int       `json:"crowdPercentage"`
	CrowdStatus     string    `json:"crowdStatus"`
	Timestamp       time.Time `json:"timestamp"`
}

// JourneyStarted автобус вышел на маршрут, рассылается всем клиентам
type JourneyStarted struct {
	BusID     uint         `json:"busId"`
	BusNumber string       `json:"busNumber"`
	Route     models.Route `json:"route"`
}

// JourneyEnded автобус завершил рейс, рассылается всем клиентам
type JourneyEnded struct {
	BusID     uint   `json:"busId"`
	BusNumber string `json:"busNumber"`
}

func (e LocationUpdate) EventType() string { return LocationUpdateType }
func (e LocationUpdate) EventBusID() uint  { return e.BusID }

func (e CrowdUpdate) EventType() string { return CrowdUpdateType }
func (e CrowdUpdate) EventBusID() uint  { return e.BusID }

func (e CapacityUpdate) EventType() string { return CapacityUpdateType }
func (e CapacityUpdate) EventBusID() uint  { return e.BusID }

func (e JourneyStarted) EventType() string { return JourneyStartedType }
func (e JourneyStarted) EventBusID() uint  { return e.BusID }

func (e JourneyEnded) EventType() string { return JourneyEndedType }
func (e JourneyEnded) EventBusID() uint  { return e.BusID }
