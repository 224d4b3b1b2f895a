package changefeed

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/redis/go-redis/v9"
)

// Каналы уведомлений. Сообщение - это только id барбершопа: подписчик
// узнаёт, ЧТО что-то изменилось, но не получает изменённые строки
// и обязан перечитать данные из хранилища.
const (
	ChannelAppointments = "brb.schedule.appointments"
	ChannelAvailability = "brb.schedule.availability"
)

var (
	// ErrPublish возвращается при ошибке публикации события
	ErrPublish = errors.New("changefeed: failed to publish event")
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Metrics интерфейс счётчиков change feed
type Metrics interface {
	ChangefeedEvent(channel, direction string)
}

// Publisher публикует уведомления об изменениях через Redis pub/sub
type Publisher struct {
	rdb     *redis.Client
	log     Logger
	metrics Metrics
}

// NewPublisher создает publisher
func NewPublisher(rdb *redis.Client, log Logger, metrics Metrics) *Publisher {
	return &Publisher{rdb: rdb, log: log, metrics: metrics}
}

// AppointmentsChanged сигнализирует об изменении записей барбершопа
func (p *Publisher) AppointmentsChanged(ctx context.Context, barbershopID int64) error {
	return p.publish(ctx, ChannelAppointments, barbershopID)
}

// AvailabilityChanged сигнализирует об изменении доступности (исключения, перерывы)
func (p *Publisher) AvailabilityChanged(ctx context.Context, barbershopID int64) error {
	return p.publish(ctx, ChannelAvailability, barbershopID)
}

func (p *Publisher) publish(ctx context.Context, channel string, barbershopID int64) error {
	if err := p.rdb.Publish(ctx, channel, strconv.FormatInt(barbershopID, 10)).Err(); err != nil {
		// Недоставленное уведомление не откатывает уже выполненную запись:
		// подписчики просто узнают об изменении при следующем перечитывании
		p.log.Error("changefeed: publish to %s failed for barbershop=%d: %v", channel, barbershopID, err)
		return fmt.Errorf("%w: channel=%s: %v", ErrPublish, channel, err)
	}

	if p.metrics != nil {
		p.metrics.ChangefeedEvent(channel, "out")
	}

	return nil
}

// Subscriber слушает каналы изменений и копит счётчики необработанных
// обновлений по барбершопам. UI опрашивает счётчик и сбрасывает его
// после перечитывания данных.
type Subscriber struct {
	rdb     *redis.Client
	log     Logger
	metrics Metrics

	mu      sync.Mutex
	pending map[int64]int64
}

// NewSubscriber создает subscriber
func NewSubscriber(rdb *redis.Client, log Logger, metrics Metrics) *Subscriber {
	return &Subscriber{
		rdb:     rdb,
		log:     log,
		metrics: metrics,
		pending: make(map[int64]int64),
	}
}

// Run подписывается на каналы и обрабатывает события до отмены контекста
// Запускается одной горутиной из main
func (s *Subscriber) Run(ctx context.Context) {
	pubsub := s.rdb.Subscribe(ctx, ChannelAppointments, ChannelAvailability)
	defer pubsub.Close()

	s.log.Info("changefeed: subscribed to %s", strings.Join([]string{ChannelAppointments, ChannelAvailability}, ", "))

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			s.log.Info("changefeed: subscriber stopped")
			return
		case msg, ok := <-ch:
			if !ok {
				s.log.Warn("changefeed: subscription channel closed")
				return
			}
			s.handle(msg)
		}
	}
}

func (s *Subscriber) handle(msg *redis.Message) {
	barbershopID, err := strconv.ParseInt(msg.Payload, 10, 64)
	if err != nil {
		s.log.Warn("changefeed: malformed payload %q on %s", msg.Payload, msg.Channel)
		return
	}

	s.mu.Lock()
	s.pending[barbershopID]++
	s.mu.Unlock()

	if s.metrics != nil {
		s.metrics.ChangefeedEvent(msg.Channel, "in")
	}
}

// PendingUpdates возвращает количество накопленных уведомлений для барбершопа
func (s *Subscriber) PendingUpdates(barbershopID int64) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending[barbershopID]
}

// Ack сбрасывает счётчик после того, как UI перечитал данные
func (s *Subscriber) Ack(barbershopID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pending, barbershopID)
}
