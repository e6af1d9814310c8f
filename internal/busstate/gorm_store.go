package busstate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"bus-tracker-backend/internal/models"

	"gorm.io/gorm"
)

// GormBusStore реализация BusStore поверх PostgreSQL через gorm
type GormBusStore struct {
	db *gorm.DB
}

func NewGormBusStore(db *gorm.DB) *GormBusStore {
	return &GormBusStore{db: db}
}

func (s *GormBusStore) GetBus(ctx context.Context, busID uint) (*models.Bus, error) {
	var bus models.Bus
	if err := s.db.WithContext(ctx).First(&bus, busID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBusNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return &bus, nil
}

func (s *GormBusStore) CreateBus(ctx context.Context, bus *models.Bus) error {
	if err := s.db.WithContext(ctx).Create(bus).Error; err != nil {
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return nil
}

func (s *GormBusStore) SaveBus(ctx context.Context, bus *models.Bus) error {
	if err := s.db.WithContext(ctx).Save(bus).Error; err != nil {
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return nil
}

// IssueTicket выполняет условный инкремент заполненности одним запросом,
// поэтому два параллельных процесса сервера не могут продать мест больше
// вместимости даже без общей блокировки.
func (s *GormBusStore) IssueTicket(ctx context.Context, ticket *models.Ticket) (int, error) {
	var newCapacity int

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Bus{}).
			Where("id = ? AND current_capacity < max_capacity", ticket.BusID).
			UpdateColumn("current_capacity", gorm.Expr("current_capacity + 1"))
		if result.Error != nil {
			return fmt.Errorf("%w: %v", ErrStorage, result.Error)
		}
		if result.RowsAffected == 0 {
			// Автобусы не удаляются, значит место закончилось
			return ErrAtCapacity
		}

		if err := tx.Create(ticket).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrStorage, err)
		}

		var bus models.Bus
		if err := tx.Select("current_capacity").First(&bus, ticket.BusID).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrStorage, err)
		}
		newCapacity = bus.CurrentCapacity
		return nil
	})
	if err != nil {
		return 0, err
	}
	return newCapacity, nil
}

// FinishJourney сохраняет сброшенное состояние автобуса и в той же
// транзакции помечает билеты завершенного рейса использованными
func (s *GormBusStore) FinishJourney(ctx context.Context, bus *models.Bus) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(bus).Error; err != nil {
			return err
		}
		return tx.Model(&models.Ticket{}).
			Where("bus_id = ? AND status = ?", bus.ID, models.TicketStatusActive).
			Update("status", models.TicketStatusUsed).Error
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return nil
}

func (s *GormBusStore) ListActive(ctx context.Context) ([]models.Bus, error) {
	var buses []models.Bus
	if err := s.db.WithContext(ctx).
		Where("is_active = ? AND is_on_route = ?", true, true).
		Order("bus_number").
		Find(&buses).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return buses, nil
}

func (s *GormBusStore) SearchByStops(ctx context.Context, startLocation, endLocation string) ([]models.Bus, error) {
	// Остановки хранятся как jsonb-массив, поиск через оператор вхождения
	startJSON, err := json.Marshal([]string{startLocation})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	endJSON, err := json.Marshal([]string{endLocation})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	var buses []models.Bus
	if err := s.db.WithContext(ctx).
		Where("is_active = ? AND is_on_route = ?", true, true).
		Where("route_stops @> ?::jsonb AND route_stops @> ?::jsonb", string(startJSON), string(endJSON)).
		Order("bus_number").
		Find(&buses).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return buses, nil
}

func (s *GormBusStore) ListByOperator(ctx context.Context, operatorID uint) ([]models.Bus, error) {
	var buses []models.Bus
	if err := s.db.WithContext(ctx).
		Where("operator_id = ?", operatorID).
		Order("created_at DESC").
		Find(&buses).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return buses, nil
}
