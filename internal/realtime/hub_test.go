package realtime

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(hub *Hub, id string) *Client {
	client := NewClient(id, hub, nil)
	hub.Register(client)
	return client
}

// drain вычитывает все сообщения из очереди клиента
func drain(client *Client) [][]byte {
	var messages [][]byte
	for {
		select {
		case message, ok := <-client.send:
			if !ok {
				return messages
			}
			messages = append(messages, message)
		default:
			return messages
		}
	}
}

func TestHub_JoinLeave(t *testing.T) {
	hub := NewHub()
	client := newTestClient(hub, "c1")

	hub.Join(client, 1)
	assert.Equal(t, 1, hub.RoomSubscribers(1))
	assert.True(t, hub.InRoom(client, 1))

	// Повторный вход не дублирует подписку
	hub.Join(client, 1)
	assert.Equal(t, 1, hub.RoomSubscribers(1))

	hub.Leave(client, 1)
	assert.Equal(t, 0, hub.RoomSubscribers(1))
	assert.False(t, hub.InRoom(client, 1))

	// Повторный выход не ошибка
	hub.Leave(client, 1)
	assert.Equal(t, 0, hub.RoomSubscribers(1))
}

func TestHub_UnregisterCleansAllRooms(t *testing.T) {
	hub := NewHub()
	client := newTestClient(hub, "c1")
	other := newTestClient(hub, "c2")

	hub.Join(client, 1)
	hub.Join(client, 2)
	hub.Join(other, 1)

	// Отключение без leave-bus не оставляет подписок
	hub.Unregister(client)

	assert.Equal(t, 1, hub.RoomSubscribers(1))
	assert.Equal(t, 0, hub.RoomSubscribers(2))
	assert.False(t, hub.InRoom(client, 1))
	assert.Equal(t, 1, hub.ClientCount())

	// Повторная отмена регистрации безопасна
	assert.NotPanics(t, func() { hub.Unregister(client) })
}

func TestHub_JoinAfterUnregister(t *testing.T) {
	hub := NewHub()
	client := newTestClient(hub, "c1")
	hub.Unregister(client)

	// Подписка завершенной сессии не создается
	hub.Join(client, 1)
	assert.Equal(t, 0, hub.RoomSubscribers(1))
}

func TestHub_PublishToRoom(t *testing.T) {
	hub := NewHub()
	subscriber := newTestClient(hub, "watcher")
	bystander := newTestClient(hub, "bystander")

	hub.Join(subscriber, 5)

	hub.PublishToRoom(5, []byte(`{"type":"location-update"}`))
	hub.PublishToRoom(7, []byte(`{"type":"location-update"}`))

	// Сообщение получает только подписчик комнаты 5
	require.Len(t, drain(subscriber), 1)
	assert.Empty(t, drain(bystander))
}

func TestHub_PublishGlobal(t *testing.T) {
	hub := NewHub()
	first := newTestClient(hub, "c1")
	second := newTestClient(hub, "c2")
	hub.Join(first, 3)

	hub.PublishGlobal([]byte(`{"type":"journey-started"}`))

	// Глобальная рассылка не зависит от подписок
	require.Len(t, drain(first), 1)
	require.Len(t, drain(second), 1)
}

func TestHub_SlowSubscriberDoesNotBlock(t *testing.T) {
	hub := NewHub()
	slow := newTestClient(hub, "slow")
	hub.Join(slow, 1)

	// Переполняем очередь клиента и продолжаем публиковать:
	// отправитель не должен блокироваться
	for i := 0; i < sendBufferSize+10; i++ {
		hub.PublishToRoom(1, []byte(fmt.Sprintf(`{"n":%d}`, i)))
	}

	// Лишние сообщения потеряны, очередь заполнена ровно до предела
	assert.Len(t, drain(slow), sendBufferSize)
}

func TestHub_PublishToEmptyRoom(t *testing.T) {
	hub := NewHub()

	assert.NotPanics(t, func() {
		hub.PublishToRoom(42, []byte(`{}`))
		hub.PublishGlobal([]byte(`{}`))
	})
}
