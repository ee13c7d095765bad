// Package client реализует сетевой слой GUI-приложений: один запрос — одно
// соединение — один ответ. Все вызовы блокирующие; экраны запускают их вне
// основного потока.
package client

import (
	"encoding/json"
	"fmt"
	"net"
	"time"

	"mgtu_lab_backend/internal/protocol"
)

// DefaultTimeout ограничивает и установку соединения, и обмен целиком.
const DefaultTimeout = 5 * time.Second

type Client struct {
	Addr    string
	Timeout time.Duration
}

func New(addr string) *Client {
	return &Client{Addr: addr, Timeout: DefaultTimeout}
}

// Do отправляет запрос и возвращает ровно один ответ сервера.
func (c *Client) Do(req *protocol.Request) (*protocol.Response, error) {
	conn, err := net.DialTimeout("tcp", c.Addr, c.Timeout)
	if err != nil {
		return nil, fmt.Errorf("connect to %s: %w", c.Addr, err)
	}
	defer conn.Close()

	conn.SetDeadline(time.Now().Add(c.Timeout))

	if err := protocol.Encode(conn, req); err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}

	resp, err := protocol.DecodeResponse(conn)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return resp, nil
}

// Call собирает запрос из действия и полезной нагрузки и выполняет его.
func (c *Client) Call(action string, data interface{}) (*protocol.Response, error) {
	req, err := protocol.NewRequest(action, data)
	if err != nil {
		return nil, err
	}
	return c.Do(req)
}

// DecodeData перекладывает поле data ответа в типизированную структуру.
func DecodeData(resp *protocol.Response, v interface{}) error {
	raw, err := json.Marshal(resp.Data)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, v)
}
