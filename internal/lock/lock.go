// Package lock сериализует операции над данными одного сотрудника.
package lock

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"
)

// Locker выполняет функцию, удерживая блокировку по ключу.
// Операции с разными ключами не блокируют друг друга.
type Locker interface {
	WithLock(ctx context.Context, key string, fn func(context.Context) error) error
}

// EmployeeKey возвращает ключ блокировки для данных сотрудника.
func EmployeeKey(employeeID int64) string {
	return "employee:" + strconv.FormatInt(employeeID, 10)
}

// LocalLocker - блокировки в памяти процесса. Подходит, когда запущен один экземпляр сервиса.
type LocalLocker struct {
	mu    sync.Mutex
	slots map[string]*slot
}

type slot struct {
	ch   chan struct{}
	refs int
}

var _ Locker = (*LocalLocker)(nil)

// NewLocalLocker создает блокировщик в памяти процесса.
func NewLocalLocker() *LocalLocker {
	return &LocalLocker{slots: make(map[string]*slot)}
}

// WithLock ждет освобождения ключа, пока не отменен ctx, и выполняет fn.
func (l *LocalLocker) WithLock(ctx context.Context, key string, fn func(context.Context) error) error {
	if err := validate(key, fn); err != nil {
		return err
	}

	s := l.acquireSlot(key)
	defer l.releaseSlot(key, s)

	select {
	case s.ch <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}
	defer func() { <-s.ch }()

	return fn(ctx)
}

func (l *LocalLocker) acquireSlot(key string) *slot {
	l.mu.Lock()
	defer l.mu.Unlock()

	s, ok := l.slots[key]
	if !ok {
		s = &slot{ch: make(chan struct{}, 1)}
		l.slots[key] = s
	}
	s.refs++
	return s
}

func (l *LocalLocker) releaseSlot(key string, s *slot) {
	l.mu.Lock()
	defer l.mu.Unlock()

	s.refs--
	if s.refs == 0 {
		delete(l.slots, key)
	}
}

// Size возвращает число ключей, по которым сейчас кто-то держит или ждет блокировку.
func (l *LocalLocker) Size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.slots)
}

func validate(key string, fn func(context.Context) error) error {
	if fn == nil {
		return ErrNilFunc
	}
	if strings.TrimSpace(key) == "" {
		return ErrEmptyKey
	}
	return nil
}

// Ошибки блокировок.
var (
	ErrEmptyKey = errors.New("пустой ключ блокировки")
	ErrNilFunc  = errors.New("функция для выполнения под блокировкой не задана")
)
