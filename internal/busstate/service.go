package busstate

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"bus-tracker-backend/internal/models"
	"bus-tracker-backend/internal/utils"
)

// Service применяет операции, меняющие состояние автобуса, и рассылает
// события об успешных изменениях. Мутации одного автобуса сериализуются
// блокировкой по его идентификатору, поэтому два параллельных запроса не
// могут прочитать одну и ту же заполненность и оба записать инкремент.
type Service struct {
	store      BusStore
	dispatcher *Dispatcher

	mu       sync.Mutex
	busLocks map[uint]*sync.Mutex
}

func NewService(store BusStore, dispatcher *Dispatcher) *Service {
	return &Service{
		store:      store,
		dispatcher: dispatcher,
		busLocks:   make(map[uint]*sync.Mutex),
	}
}

// lockBus возвращает блокировку конкретного автобуса. Записи не удаляются:
// их количество ограничено размером парка.
func (s *Service) lockBus(busID uint) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, ok := s.busLocks[busID]
	if !ok {
		lock = &sync.Mutex{}
		s.busLocks[busID] = lock
	}
	return lock
}

// ownedBus читает автобус и проверяет, что им владеет указанный оператор
func (s *Service) ownedBus(ctx context.Context, busID, operatorID uint) (*models.Bus, error) {
	bus, err := s.store.GetBus(ctx, busID)
	if err != nil {
		return nil, err
	}
	if bus.OperatorID != operatorID {
		return nil, ErrForbidden
	}
	return bus, nil
}

// CreateBus регистрирует новый автобус оператора
func (s *Service) CreateBus(ctx context.Context, bus *models.Bus) error {
	if strings.TrimSpace(bus.BusNumber) == "" {
		return fmt.Errorf("%w: не указан номер автобуса", ErrInvalidInput)
	}
	if bus.MaxCapacity <= 0 {
		return fmt.Errorf("%w: вместимость должна быть положительной", ErrInvalidInput)
	}
	bus.CurrentCapacity = 0
	bus.IsActive = false
	bus.IsOnRoute = false
	return s.store.CreateBus(ctx, bus)
}

// StartJourney выводит автобус на маршрут и оповещает всех клиентов
func (s *Service) StartJourney(ctx context.Context, busID, operatorID uint) (*models.Bus, error) {
	lock := s.lockBus(busID)
	lock.Lock()
	defer lock.Unlock()

	bus, err := s.ownedBus(ctx, busID, operatorID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	bus.IsActive = true
	bus.IsOnRoute = true
	bus.Journey.StartTime = &now
	bus.Journey.EndTime = nil
	bus.Journey.CurrentStop = ""
	bus.Journey.NextStop = ""
	// Текущая и следующая остановки определены только при двух и более
	// остановках на маршруте
	if len(bus.Route.Stops) >= 2 {
		bus.Journey.CurrentStop = bus.Route.Stops[0]
		bus.Journey.NextStop = bus.Route.Stops[1]
	}

	if err := s.store.SaveBus(ctx, bus); err != nil {
		return nil, err
	}

	s.dispatcher.Dispatch(JourneyStarted{
		BusID:     bus.ID,
		BusNumber: bus.BusNumber,
		Route:     bus.Route,
	})
	return bus, nil
}

// EndJourney завершает рейс: снимает автобус с маршрута, обнуляет
// заполненность и закрывает билеты рейса
func (s *Service) EndJourney(ctx context.Context, busID, operatorID uint) (*models.Bus, error) {
	lock := s.lockBus(busID)
	lock.Lock()
	defer lock.Unlock()

	bus, err := s.ownedBus(ctx, busID, operatorID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	bus.IsActive = false
	bus.IsOnRoute = false
	bus.Journey.EndTime = &now
	bus.CurrentCapacity = 0

	if err := s.store.FinishJourney(ctx, bus); err != nil {
		return nil, err
	}

	s.dispatcher.Dispatch(JourneyEnded{
		BusID:     bus.ID,
		BusNumber: bus.BusNumber,
	})
	return bus, nil
}

// UpdateLocation перезаписывает местоположение автобуса и оповещает
// подписчиков его комнаты
func (s *Service) UpdateLocation(ctx context.Context, busID, operatorID uint, latitude, longitude float64, address string) (*models.Bus, error) {
	if strings.TrimSpace(address) == "" {
		return nil, fmt.Errorf("%w: не указан адрес", ErrInvalidInput)
	}
	if math.IsNaN(latitude) || math.IsNaN(longitude) || math.IsInf(latitude, 0) || math.IsInf(longitude, 0) {
		return nil, fmt.Errorf("%w: координаты должны быть числами", ErrInvalidInput)
	}
	if latitude < -90 || latitude > 90 || longitude < -180 || longitude > 180 {
		return nil, fmt.Errorf("%w: координаты вне допустимого диапазона", ErrInvalidInput)
	}

	lock := s.lockBus(busID)
	lock.Lock()
	defer lock.Unlock()

	bus, err := s.ownedBus(ctx, busID, operatorID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	bus.CurrentLocation = models.Location{
		Latitude:    latitude,
		Longitude:   longitude,
		Address:     address,
		LastUpdated: now,
	}
	bus.HasLocation = true

	if err := s.store.SaveBus(ctx, bus); err != nil {
		return nil, err
	}

	s.dispatcher.Dispatch(LocationUpdate{
		BusID:      bus.ID,
		Location:   bus.CurrentLocation,
		CrowdCount: bus.CurrentCapacity,
		Timestamp:  now,
	})
	return bus, nil
}

// IssueTicket выдает билет пассажиру. Успешная выдача увеличивает
// заполненность и порождает два события: для комнаты автобуса и общее.
func (s *Service) IssueTicket(ctx context.Context, busID, operatorID uint, passengerName string) (*models.Ticket, *models.Bus, error) {
	passengerName = strings.TrimSpace(passengerName)
	if passengerName == "" {
		return nil, nil, fmt.Errorf("%w: не указано имя пассажира", ErrInvalidInput)
	}

	lock := s.lockBus(busID)
	lock.Lock()
	defer lock.Unlock()

	bus, err := s.ownedBus(ctx, busID, operatorID)
	if err != nil {
		return nil, nil, err
	}
	if !bus.IsActive || !bus.IsOnRoute {
		return nil, nil, ErrNotOnRoute
	}
	if bus.CurrentCapacity >= bus.MaxCapacity {
		return nil, nil, ErrAtCapacity
	}

	now := time.Now()
	ticket := &models.Ticket{
		TicketID:      utils.NewTicketID(),
		BusID:         bus.ID,
		PassengerName: passengerName,
		IssuedBy:      operatorID,
		IssuedAt:      now,
		Status:        models.TicketStatusActive,
		Price:         models.DefaultTicketPrice,
	}

	newCapacity, err := s.store.IssueTicket(ctx, ticket)
	if err != nil {
		return nil, nil, err
	}
	bus.CurrentCapacity = newCapacity

	s.dispatcher.Dispatch(CrowdUpdate{
		BusID:           bus.ID,
		CrowdCount:      bus.CurrentCapacity,
		CrowdPercentage: bus.CrowdPercentage(),
		CrowdStatus:     bus.CrowdStatus(),
		Timestamp:       now,
	})
	s.dispatcher.Dispatch(CapacityUpdate{
		BusID:           bus.ID,
		BusNumber:       bus.BusNumber,
		CurrentCapacity: bus.CurrentCapacity,
		MaxCapacity:     bus.MaxCapacity,
		CrowdPercentage: bus.CrowdPercentage(),
		CrowdStatus:     bus.CrowdStatus(),
		Timestamp:       now,
	})
	return ticket, bus, nil
}

// GetBusForOperator возвращает автобус после проверки владения
func (s *Service) GetBusForOperator(ctx context.Context, busID, operatorID uint) (*models.Bus, error) {
	return s.ownedBus(ctx, busID, operatorID)
}

// ActiveBuses возвращает автобусы, видимые пассажирам
func (s *Service) ActiveBuses(ctx context.Context) ([]models.Bus, error) {
	return s.store.ListActive(ctx)
}

// SearchBuses ищет активные автобусы, проходящие через обе остановки
func (s *Service) SearchBuses(ctx context.Context, startLocation, endLocation string) ([]models.Bus, error) {
	if strings.TrimSpace(startLocation) == "" || strings.TrimSpace(endLocation) == "" {
		return nil, fmt.Errorf("%w: требуются начальная и конечная остановки", ErrInvalidInput)
	}
	return s.store.SearchByStops(ctx, startLocation, endLocation)
}

// BusesByOperator возвращает парк оператора
func (s *Service) BusesByOperator(ctx context.Context, operatorID uint) ([]models.Bus, error) {
	return s.store.ListByOperator(ctx, operatorID)
}
