package server

import (
	"sync"

	"mgtu_lab_backend/pkg/monitoring"
)

// ConnectionRegistry — единственное разделяемое между соединениями
// изменяемое состояние: счетчик живых подключений и имена вошедших
// студентов по адресу пира. Все обращения сериализованы одним мьютексом.
type ConnectionRegistry struct {
	mu        sync.Mutex
	connected int
	names     map[string]string
}

func NewConnectionRegistry() *ConnectionRegistry {
	return &ConnectionRegistry{names: make(map[string]string)}
}

// Add регистрирует новое соединение и возвращает текущее число подключенных.
func (r *ConnectionRegistry) Add(addr string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.connected++
	monitoring.ActiveConnections.Inc()
	return r.connected
}

// Associate привязывает к соединению имя студента после успешного входа или
// регистрации; оно используется в уведомлении об отключении.
func (r *ConnectionRegistry) Associate(addr, name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.names[addr] = name
}

// Remove снимает соединение с учета и возвращает привязанное имя (пустая
// строка, если студент не входил) и число оставшихся подключений.
func (r *ConnectionRegistry) Remove(addr string) (string, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.connected--
	if r.connected < 0 {
		r.connected = 0
	}
	monitoring.ActiveConnections.Dec()
	name := r.names[addr]
	delete(r.names, addr)
	return name, r.connected
}

func (r *ConnectionRegistry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.connected
}
