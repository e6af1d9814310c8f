package realtime

import (
	"log"
	"sync"

	"bus-tracker-backend/internal/middleware"
)

// Hub управляет всеми подключениями WebSocket и комнатами автобусов.
// Комната содержит клиентов, подписанных на обновления одного автобуса;
// глобальная рассылка достигает каждого подключенного клиента независимо
// от подписок. Множества подписчиков меняются только методами хаба,
// вызываемыми из сессии соединения.
type Hub struct {
	mutex   sync.RWMutex
	clients map[*Client]bool
	rooms   map[uint]map[*Client]bool
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[*Client]bool),
		rooms:   make(map[uint]map[*Client]bool),
	}
}

// Register добавляет клиента в глобальное множество
func (h *Hub) Register(client *Client) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	h.clients[client] = true
	middleware.WebSocketConnections.Inc()
	log.Printf("Клиент %s подключен", client.ID)
}

// Unregister удаляет клиента из глобального множества и из каждой комнаты,
// в которой он состоял, и закрывает его очередь отправки. Вызывается ровно
// один раз на отключение, повторный вызов ничего не делает.
func (h *Hub) Unregister(client *Client) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if _, ok := h.clients[client]; !ok {
		return
	}
	delete(h.clients, client)
	close(client.send)
	middleware.WebSocketConnections.Dec()

	for busID, room := range h.rooms {
		if _, ok := room[client]; ok {
			delete(room, client)
			if len(room) == 0 {
				delete(h.rooms, busID)
				middleware.WebSocketRooms.Dec()
			}
		}
	}
	log.Printf("Клиент %s отключен, подписки очищены", client.ID)
}

// Join подписывает клиента на комнату автобуса. Повторный вход не ошибка.
func (h *Hub) Join(client *Client, busID uint) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if _, ok := h.clients[client]; !ok {
		// Сессия уже завершилась, подписка после отключения не создается
		return
	}
	if _, ok := h.rooms[busID]; !ok {
		h.rooms[busID] = make(map[*Client]bool)
		middleware.WebSocketRooms.Inc()
	}
	h.rooms[busID][client] = true
	log.Printf("Клиент %s вошел в комнату автобуса %d", client.ID, busID)
}

// Leave отписывает клиента от комнаты автобуса. Повторный выход не ошибка.
func (h *Hub) Leave(client *Client, busID uint) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	room, ok := h.rooms[busID]
	if !ok {
		return
	}
	delete(room, client)
	if len(room) == 0 {
		delete(h.rooms, busID)
		middleware.WebSocketRooms.Dec()
	}
	log.Printf("Клиент %s покинул комнату автобуса %d", client.ID, busID)
}

// PublishToRoom отправляет сообщение подписчикам комнаты автобуса.
// Переполненная очередь подписчика означает потерю сообщения для него,
// но не блокирует отправителя.
func (h *Hub) PublishToRoom(busID uint, message []byte) {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	room, ok := h.rooms[busID]
	if !ok {
		return
	}
	for client := range room {
		select {
		case client.send <- message:
			middleware.WebSocketBroadcasts.WithLabelValues("room").Inc()
		default:
			log.Printf("Клиент %s не успевает читать, сообщение комнаты %d пропущено", client.ID, busID)
		}
	}
}

// PublishGlobal отправляет сообщение всем подключенным клиентам
func (h *Hub) PublishGlobal(message []byte) {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	for client := range h.clients {
		select {
		case client.send <- message:
			middleware.WebSocketBroadcasts.WithLabelValues("global").Inc()
		default:
			log.Printf("Клиент %s не успевает читать, глобальное сообщение пропущено", client.ID)
		}
	}
}

// RoomSubscribers возвращает количество подписчиков комнаты автобуса
func (h *Hub) RoomSubscribers(busID uint) int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.rooms[busID])
}

// ClientCount возвращает количество подключенных клиентов
func (h *Hub) ClientCount() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}

// InRoom сообщает, подписан ли клиент на комнату автобуса
func (h *Hub) InRoom(client *Client, busID uint) bool {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	room, ok := h.rooms[busID]
	if !ok {
		return false
	}
	return room[client]
}
