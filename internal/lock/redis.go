package lock

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	redisKeyPrefix  = "vacationkeeper:lock:"
	redisTries      = 100
	redisRetryDelay = 50 * time.Millisecond
)

// RedisLocker - распределенные блокировки через Redis (алгоритм Redlock на одном узле).
// Нужен, когда запущено несколько экземпляров сервиса над одной БД.
type RedisLocker struct {
	rs     *redsync.Redsync
	expiry time.Duration
	log    *zap.Logger
}

var _ Locker = (*RedisLocker)(nil)

// NewRedisLocker создает блокировщик поверх клиента Redis.
// expiry ограничивает время жизни блокировки, если процесс упал, не отпустив ее.
func NewRedisLocker(client redis.UniversalClient, expiry time.Duration, log *zap.Logger) *RedisLocker {
	return &RedisLocker{
		rs:     redsync.New(goredis.NewPool(client)),
		expiry: expiry,
		log:    log.Named("RedisLocker"),
	}
}

// WithLock захватывает блокировку в Redis, выполняет fn и отпускает блокировку.
// Ошибка fn возвращается без изменений.
func (l *RedisLocker) WithLock(ctx context.Context, key string, fn func(context.Context) error) error {
	if err := validate(key, fn); err != nil {
		return err
	}

	mutex := l.rs.NewMutex(
		redisKeyPrefix+key,
		redsync.WithExpiry(l.expiry),
		redsync.WithTries(redisTries),
		redsync.WithRetryDelay(redisRetryDelay),
	)

	if err := mutex.LockContext(ctx); err != nil {
		l.log.Warn("Не удалось захватить блокировку", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("не удалось захватить блокировку %s: %w", key, err)
	}

	defer func() {
		// Отпускаем даже при отмененном ctx запроса.
		unlockCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), l.expiry)
		defer cancel()
		if ok, err := mutex.UnlockContext(unlockCtx); !ok || err != nil {
			l.log.Error("Ошибка при освобождении блокировки",
				zap.String("key", key), zap.Bool("unlock_ok", ok), zap.Error(err))
		}
	}()

	return fn(ctx)
}
