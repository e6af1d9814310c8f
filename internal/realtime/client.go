package realtime

import (
	"encoding/json"
	"log"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// Интервал ping и допустимое время ожидания pong
	pingPeriod = 45 * time.Second
	pongWait   = 60 * time.Second
	writeWait  = 10 * time.Second

	maxMessageSize = 1024

	// Размер очереди исходящих сообщений клиента
	sendBufferSize = 64
)

// clientMessage входящее сообщение клиента: вход или выход из комнаты
// автобуса либо прикладной ping
type clientMessage struct {
	Type  string `json:"type"`
	BusID uint   `json:"busId,omitempty"`
}

// Типы входящих сообщений клиента
const (
	joinBusMessage  = "join-bus"
	leaveBusMessage = "leave-bus"
	pingMessage     = "ping"
)

// Client одна сессия WebSocket. Жизненный цикл: регистрация в хабе,
// произвольное число входов и выходов из комнат, затем ровно одна
// отмена регистрации при разрыве соединения.
type Client struct {
	ID   string
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

func NewClient(id string, hub *Hub, conn *websocket.Conn) *Client {
	return &Client{
		ID:   id,
		hub:  hub,
		conn: conn,
		send: make(chan []byte, sendBufferSize),
	}
}

// readPump читает команды клиента до разрыва соединения. Завершение
// читающей горутины — единственный путь очистки подписок.
func (c *Client) readPump() {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("Ошибка чтения от клиента %s: %v", c.ID, err)
			}
			return
		}

		var msg clientMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			log.Printf("Клиент %s прислал некорректный JSON: %v", c.ID, err)
			continue
		}

		switch msg.Type {
		case joinBusMessage:
			if msg.BusID > 0 {
				c.hub.Join(c, msg.BusID)
			}
		case leaveBusMessage:
			if msg.BusID > 0 {
				c.hub.Leave(c, msg.BusID)
			}
		case pingMessage:
			pong, _ := json.Marshal(map[string]any{"type": "pong", "time": time.Now().Unix()})
			select {
			case c.send <- pong:
			default:
			}
		default:
			log.Printf("Клиент %s прислал неизвестный тип сообщения: %q", c.ID, msg.Type)
		}
	}
}

// writePump пишет сообщения из очереди клиента и поддерживает соединение
// периодическими ping
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Хаб закрыл очередь при отключении
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Printf("Ошибка отправки клиенту %s: %v", c.ID, err)
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
