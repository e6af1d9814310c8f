package busstate

import (
	"context"

	"bus-tracker-backend/internal/models"
)

// BusStore доступ к долговременному состоянию автобусов и билетов.
// Запись в базе является единственным источником истины; объекты в памяти
// лишь снимки на момент чтения.
type BusStore interface {
	// GetBus возвращает автобус по идентификатору или ErrBusNotFound
	GetBus(ctx context.Context, busID uint) (*models.Bus, error)

	// CreateBus сохраняет новый автобус
	CreateBus(ctx context.Context, bus *models.Bus) error

	// SaveBus перезаписывает поля рейса и местоположения автобуса
	SaveBus(ctx context.Context, bus *models.Bus) error

	// IssueTicket атомарно увеличивает заполненность, если она ниже
	// вместимости, и создает запись билета в той же транзакции.
	// Возвращает новую заполненность или ErrAtCapacity, если мест нет.
	IssueTicket(ctx context.Context, ticket *models.Ticket) (int, error)

	// FinishJourney сбрасывает рейс: сохраняет автобус с нулевой
	// заполненностью и помечает билеты текущего рейса использованными
	// в одной транзакции
	FinishJourney(ctx context.Context, bus *models.Bus) error

	// ListActive возвращает автобусы, находящиеся на маршруте
	ListActive(ctx context.Context) ([]models.Bus, error)

	// SearchByStops возвращает активные автобусы, маршрут которых содержит
	// обе указанные остановки
	SearchByStops(ctx context.Context, startLocation, endLocation string) ([]models.Bus, error)

	// ListByOperator возвращает все автобусы оператора
	ListByOperator(ctx context.Context, operatorID uint) ([]models.Bus, error)
}
