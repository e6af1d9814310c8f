package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
)

// Ключи кэша списков автобусов
const (
	ActiveBusesKey  = "buses:active"
	searchKeyPrefix = "buses:search:"
)

// Service кэширует публичные списки автобусов в Redis. При недоступном
// Redis сервис отключен и все чтения идут напрямую в базу.
type Service struct {
	client  *redis.Client
	ttl     time.Duration
	enabled bool
}

// NewRedisClient устанавливает соединение с Redis
func NewRedisClient() (*redis.Client, error) {
	redisHost := os.Getenv("REDIS_HOST")
	redisPort := os.Getenv("REDIS_PORT")
	if redisHost == "" {
		redisHost = "localhost"
	}
	if redisPort == "" {
		redisPort = "6379"
	}

	client := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%s", redisHost, redisPort),
		Password:     os.Getenv("REDIS_PASSWORD"),
		DB:           0,
		PoolSize:     50,
		MinIdleConns: 10,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ошибка подключения к Redis: %w", err)
	}
	return client, nil
}

// NewService создает сервис кэширования. Клиент nil означает работу без кэша.
func NewService(client *redis.Client) *Service {
	if client == nil {
		return &Service{enabled: false}
	}

	// TTL кэша списков в секундах
	ttl := 30
	if val, err := strconv.Atoi(os.Getenv("BUS_CACHE_TTL_SECONDS")); err == nil && val > 0 {
		ttl = val
	}

	return &Service{
		client:  client,
		ttl:     time.Duration(ttl) * time.Second,
		enabled: true,
	}
}

// SearchKey строит ключ кэша для поиска по паре остановок
func SearchKey(startLocation, endLocation string) string {
	return searchKeyPrefix + startLocation + ":" + endLocation
}

// Get читает значение из кэша. Возвращает false, если ключа нет или кэш
// отключен.
func (s *Service) Get(ctx context.Context, key string, result interface{}) (bool, error) {
	if !s.enabled {
		return false, nil
	}

	val, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return false, nil
	} else if err != nil {
		return false, fmt.Errorf("ошибка при получении данных из кэша: %w", err)
	}

	if err := json.Unmarshal([]byte(val), result); err != nil {
		return false, fmt.Errorf("ошибка при десериализации данных из кэша: %w", err)
	}
	return true, nil
}

// Set сохраняет значение в кэш с настроенным TTL
func (s *Service) Set(ctx context.Context, key string, value interface{}) error {
	if !s.enabled {
		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("ошибка при сериализации данных для кэша: %w", err)
	}

	if err := s.client.Set(ctx, key, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("ошибка при сохранении данных в кэш: %w", err)
	}
	return nil
}

// InvalidateBusLists сбрасывает кэшированные списки автобусов. Вызывается
// после любой мутации состояния автобуса; ошибки только логируются, кэш
// доживет до истечения TTL.
func (s *Service) InvalidateBusLists(ctx context.Context) {
	if !s.enabled {
		return
	}

	if err := s.client.Del(ctx, ActiveBusesKey).Err(); err != nil {
		log.Printf("Ошибка сброса кэша активных автобусов: %v", err)
	}

	iter := s.client.Scan(ctx, 0, searchKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := s.client.Del(ctx, iter.Val()).Err(); err != nil {
			log.Printf("Ошибка сброса кэша поиска %s: %v", iter.Val(), err)
		}
	}
	if err := iter.Err(); err != nil {
		log.Printf("Ошибка обхода ключей кэша поиска: %v", err)
	}
}
