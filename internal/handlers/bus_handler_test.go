package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"bus-tracker-backend/internal/busstate"
	"bus-tracker-backend/internal/cache"
	"bus-tracker-backend/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStore минимальное хранилище автобусов в памяти для тестов обработчиков
type memStore struct {
	mu     sync.Mutex
	nextID uint
	buses  map[uint]*models.Bus
}

func newMemStore() *memStore {
	return &memStore{nextID: 1, buses: make(map[uint]*models.Bus)}
}

func (s *memStore) GetBus(_ context.Context, busID uint) (*models.Bus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	bus, ok := s.buses[busID]
	if !ok {
		return nil, busstate.ErrBusNotFound
	}
	snapshot := *bus
	return &snapshot, nil
}

func (s *memStore) CreateBus(_ context.Context, bus *models.Bus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	bus.ID = s.nextID
	s.nextID++
	snapshot := *bus
	s.buses[bus.ID] = &snapshot
	return nil
}

func (s *memStore) SaveBus(_ context.Context, bus *models.Bus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := *bus
	s.buses[bus.ID] = &snapshot
	return nil
}

func (s *memStore) IssueTicket(_ context.Context, ticket *models.Ticket) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	bus := s.buses[ticket.BusID]
	if bus.CurrentCapacity >= bus.MaxCapacity {
		return 0, busstate.ErrAtCapacity
	}
	bus.CurrentCapacity++
	return bus.CurrentCapacity, nil
}

func (s *memStore) FinishJourney(_ context.Context, bus *models.Bus) error {
	return s.SaveBus(context.Background(), bus)
}

func (s *memStore) ListActive(_ context.Context) ([]models.Bus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var buses []models.Bus
	for _, bus := range s.buses {
		if bus.IsActive && bus.IsOnRoute {
			buses = append(buses, *bus)
		}
	}
	return buses, nil
}

func (s *memStore) SearchByStops(_ context.Context, _, _ string) ([]models.Bus, error) {
	return nil, nil
}

func (s *memStore) ListByOperator(_ context.Context, operatorID uint) ([]models.Bus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var buses []models.Bus
	for _, bus := range s.buses {
		if bus.OperatorID == operatorID {
			buses = append(buses, *bus)
		}
	}
	return buses, nil
}

// setupBusRouter собирает роутер с заглушкой аутентификации: user_id
// берется из заголовка тестов
func setupBusRouter(store *memStore, operatorID uint) *gin.Engine {
	gin.SetMode(gin.TestMode)

	service := busstate.NewService(store, busstate.NewDispatcher(nil))
	listCache := cache.NewService(nil)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("user_id", operatorID)
		c.Set("role", models.RoleBusOperator)
	})
	r.POST("/bus/create", BusCreate(service))
	r.POST("/bus/:busId/start-journey", BusStartJourney(service, listCache))
	r.POST("/bus/:busId/update-location", BusUpdateLocation(service, listCache))
	r.GET("/bus/active", BusGetActive(service, listCache))
	return r
}

func seedBus(t *testing.T, store *memStore, operatorID uint) *models.Bus {
	t.Helper()
	bus := &models.Bus{
		OperatorID:  operatorID,
		BusNumber:   "BUS-42",
		MaxCapacity: 30,
		Route:       models.Route{Stops: []string{"Вокзал", "Рынок"}},
	}
	require.NoError(t, store.CreateBus(context.Background(), bus))
	return bus
}

func TestBusUpdateLocation_NonNumericLatitude(t *testing.T) {
	store := newMemStore()
	bus := seedBus(t, store, 1)
	r := setupBusRouter(store, 1)

	w := httptest.NewRecorder()
	body := `{"latitude":"abc","longitude":77.59,"address":"Вокзал"}`
	req := httptest.NewRequest(http.MethodPost, "/bus/1/update-location", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Запись автобуса не изменилась
	stored, err := store.GetBus(context.Background(), bus.ID)
	require.NoError(t, err)
	assert.False(t, stored.HasLocation)
}

func TestBusUpdateLocation_Success(t *testing.T) {
	store := newMemStore()
	bus := seedBus(t, store, 1)
	r := setupBusRouter(store, 1)

	w := httptest.NewRecorder()
	body := `{"latitude":12.9716,"longitude":77.5946,"address":"Центральный вокзал"}`
	req := httptest.NewRequest(http.MethodPost, "/bus/1/update-location", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Центральный вокзал")

	stored, err := store.GetBus(context.Background(), bus.ID)
	require.NoError(t, err)
	assert.True(t, stored.HasLocation)
}

func TestBusStartJourney_ForeignBus(t *testing.T) {
	store := newMemStore()
	bus := seedBus(t, store, 2)
	// Запросы идут от оператора 1, автобус принадлежит оператору 2
	r := setupBusRouter(store, 1)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/bus/1/start-journey", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)

	stored, err := store.GetBus(context.Background(), bus.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsActive)
}

func TestBusGetActive_OnlyOnRoute(t *testing.T) {
	store := newMemStore()
	seedBus(t, store, 1)
	r := setupBusRouter(store, 1)

	// Без начатого рейса активных автобусов нет
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/bus/active", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", strings.TrimSpace(w.Body.String()))

	// После начала рейса автобус виден пассажирам
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/bus/1/start-journey", nil)
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/bus/active", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "BUS-42")
}
