package catalogservice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Client клиент каталога услуг
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает клиент каталога
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// GetService получает услугу каталога по id
func (c *Client) GetService(ctx context.Context, serviceID int64) (*Service, error) {
	url := fmt.Sprintf("%s/internal/services/%d", c.baseURL, serviceID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// Продолжаем обработку
	case http.StatusNotFound:
		return nil, ErrServiceNotFound
	default:
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	var service Service
	if err := json.NewDecoder(resp.Body).Decode(&service); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	return &service, nil
}

// GetServiceWithGracefulDegradation получает услугу с graceful degradation
// При недоступности каталога возвращает ErrServiceDegraded - вызывающий код
// подставляет длительность по умолчанию и помечает это в ответе оператору
func (c *Client) GetServiceWithGracefulDegradation(ctx context.Context, serviceID int64) (*Service, error) {
	service, err := c.GetService(ctx, serviceID)
	if err != nil {
		// Отсутствующая услуга - бизнес-ошибка, пробрасываем как есть:
		// запись ссылается на удалённую или неизвестную услугу
		if errors.Is(err, ErrServiceNotFound) {
			c.log.Warn("Service id=%d not found in catalog (stale reference?)", serviceID)
			return nil, err
		}

		// Для остальных ошибок (недоступность, timeout, парсинг) применяем
		// graceful degradation; уровень ERROR, чтобы проблему заметили быстро
		c.log.Error("CatalogService unavailable, applying graceful degradation for service_id=%d: %v", serviceID, err)
		return nil, fmt.Errorf("%w: service_id=%d, error=%v", ErrServiceDegraded, serviceID, err)
	}

	return service, nil
}
