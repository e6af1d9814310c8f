package busstate

import (
	"encoding/json"
	"log"
)

// Publisher приемник рассылок в реальном времени. Реализуется хабом
// WebSocket; методы не блокируются и не возвращают ошибок доставки.
type Publisher interface {
	// PublishToRoom доставляет сообщение подписчикам комнаты автобуса
	PublishToRoom(busID uint, message []byte)
	// PublishGlobal доставляет сообщение всем подключенным клиентам
	PublishGlobal(message []byte)
}

// envelope формат сообщения WebSocket: тип события плюс полезная нагрузка
type envelope struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// Dispatcher отображает события мутатора на каналы доставки.
// События местоположения и заполненности уходят в комнату автобуса,
// события рейса и общая сводка заполненности — всем клиентам.
type Dispatcher struct {
	publisher Publisher
}

func NewDispatcher(publisher Publisher) *Dispatcher {
	return &Dispatcher{publisher: publisher}
}

// Dispatch публикует событие. Вызывается только после успешной записи
// в хранилище; сбой доставки отдельному подписчику не влияет на запрос.
func (d *Dispatcher) Dispatch(event Event) {
	if d == nil || d.publisher == nil {
		return
	}

	message, err := json.Marshal(envelope{Type: event.EventType(), Payload: event})
	if err != nil {
		log.Printf("Dispatcher: ошибка сериализации события %s: %v", event.EventType(), err)
		return
	}

	switch event.(type) {
	case LocationUpdate, CrowdUpdate:
		d.publisher.PublishToRoom(event.EventBusID(), message)
	case CapacityUpdate, JourneyStarted, JourneyEnded:
		d.publisher.PublishGlobal(message)
	default:
		log.Printf("Dispatcher: неизвестный тип события %s", event.EventType())
	}
}
