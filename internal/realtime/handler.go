package realtime

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Разрешаем подключения с любых источников
	},
}

// Handler обрабатывает подключения WebSocket: обновляет соединение,
// регистрирует сессию в хабе и запускает горутины чтения и записи
func Handler(hub *Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Upgrade") != "websocket" {
			c.String(http.StatusBadRequest, "Требуется WebSocket соединение")
			return
		}

		clientID := c.Query("client_id")
		if clientID == "" {
			clientID = uuid.NewString()
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Printf("Ошибка обновления соединения до WebSocket: %v", err)
			return
		}

		client := NewClient(clientID, hub, conn)
		hub.Register(client)

		go client.writePump()
		go client.readPump()
	}
}
