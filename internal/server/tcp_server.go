package server

import (
	"errors"
	"io"
	"net"
	"sync"
	"time"

	"mgtu_lab_backend/internal/protocol"
	"mgtu_lab_backend/pkg/logger"

	"go.uber.org/zap"
)

// TCPServer принимает соединения протокола тестирования и гоняет цикл
// кадр-запрос-ответ, по горутине на соединение. Дедлайн на чтение уже
// принятого соединения не ставится: молчащий клиент занимает горутину и
// слот счетчика до разрыва. Это осознанный риск исчерпания ресурсов,
// унаследованный от наблюдаемого поведения системы.
type TCPServer struct {
	Addr       string
	Dispatcher *Dispatcher
	Registry   *ConnectionRegistry

	ln    net.Listener
	quit  chan struct{}
	wg    sync.WaitGroup
	mu    sync.Mutex
	conns map[net.Conn]struct{}
}

func NewTCPServer(addr string, dispatcher *Dispatcher, registry *ConnectionRegistry) *TCPServer {
	return &TCPServer{
		Addr:       addr,
		Dispatcher: dispatcher,
		Registry:   registry,
		quit:       make(chan struct{}),
		conns:      make(map[net.Conn]struct{}),
	}
}

func (s *TCPServer) Start() error {
	ln, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return err
	}
	s.ln = ln
	logger.Log.Info("TCP server listening", zap.String("addr", ln.Addr().String()))

	s.wg.Add(1)
	go s.acceptLoop()
	return nil
}

// ListenAddr возвращает фактический адрес слушателя (порт 0 разрешается
// системой).
func (s *TCPServer) ListenAddr() string {
	if s.ln == nil {
		return s.Addr
	}
	return s.ln.Addr().String()
}

// acceptLoop принимает соединения с секундным дедлайном, чтобы замечать
// сигнал остановки.
func (s *TCPServer) acceptLoop() {
	defer s.wg.Done()
	for {
		if tcpLn, ok := s.ln.(*net.TCPListener); ok {
			tcpLn.SetDeadline(time.Now().Add(time.Second))
		}
		conn, err := s.ln.Accept()
		if err != nil {
			select {
			case <-s.quit:
				return
			default:
			}
			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				continue
			}
			logger.Log.Error("accept failed", zap.Error(err))
			return
		}

		s.mu.Lock()
		s.conns[conn] = struct{}{}
		s.mu.Unlock()

		s.wg.Add(1)
		go s.handleConn(conn)
	}
}

func (s *TCPServer) handleConn(conn net.Conn) {
	defer s.wg.Done()
	defer func() {
		conn.Close()
		s.mu.Lock()
		delete(s.conns, conn)
		s.mu.Unlock()
	}()

	addr := conn.RemoteAddr().String()
	connected := s.Registry.Add(addr)
	logger.Log.Info("client connected", zap.String("addr", addr), zap.Int("connected", connected))

	defer func() {
		// Паника обработчика роняет только это соединение, не слушатель.
		if r := recover(); r != nil {
			logger.Log.Error("connection handler panic", zap.String("addr", addr), zap.Any("panic", r))
		}
		name, remaining := s.Registry.Remove(addr)
		if name != "" {
			logger.Log.Info("student disconnected", zap.String("student", name), zap.Int("connected", remaining))
		} else {
			logger.Log.Info("client disconnected", zap.String("addr", addr), zap.Int("connected", remaining))
		}
	}()

	sess := &Session{Addr: addr, registry: s.Registry}
	for {
		req, err := protocol.DecodeRequest(conn)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return
			}
			// Кадр прочитан, но JSON не разобрался: отвечаем ошибкой и
			// продолжаем читать следующий кадр.
			if errors.Is(err, protocol.ErrDecode) {
				if werr := protocol.Encode(conn, protocol.Fail("Неверный формат JSON")); werr != nil {
					return
				}
				continue
			}
			// Обрыв кадра или превышение лимита: соединение непригодно.
			logger.Log.Warn("framing failure", zap.String("addr", addr), zap.Error(err))
			return
		}

		resp := s.Dispatcher.Dispatch(sess, req)
		if err := protocol.Encode(conn, resp); err != nil {
			logger.Log.Warn("write failed", zap.String("addr", addr), zap.Error(err))
			return
		}
	}
}

// Stop останавливает прием, рвет открытые соединения и дожидается
// завершения их обработчиков.
func (s *TCPServer) Stop() {
	close(s.quit)
	if s.ln != nil {
		s.ln.Close()
	}

	s.mu.Lock()
	for conn := range s.conns {
		conn.Close()
	}
	s.mu.Unlock()

	s.wg.Wait()
	logger.Log.Info("TCP server stopped")
}
