package protocol

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// MaxFrameSize ограничивает размер одного кадра. Исходный протокол предела не
// задает; 16 МиБ покрывает любой реальный запрос (включая загрузку
// изображений) и не дает клиенту заставить сервер выделить гигабайты.
const MaxFrameSize = 16 << 20

var (
	// ErrFraming — кадр оборван или некорректен, соединение больше непригодно.
	ErrFraming = errors.New("malformed frame")
	// ErrFrameTooLarge — заявленная длина кадра превышает MaxFrameSize.
	ErrFrameTooLarge = errors.New("frame exceeds size limit")
	// ErrDecode — кадр прочитан целиком, но полезная нагрузка не является
	// корректным JSON. Соединение остается пригодным для следующих кадров.
	ErrDecode = errors.New("invalid JSON payload")
)

// Encode сериализует v в JSON и пишет кадр: 4 байта длины (big-endian) и
// полезная нагрузка одним вызовом Write.
func Encode(w io.Writer, v interface{}) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if len(payload) > MaxFrameSize {
		return ErrFrameTooLarge
	}
	frame := make([]byte, 4+len(payload))
	binary.BigEndian.PutUint32(frame[:4], uint32(len(payload)))
	copy(frame[4:], payload)
	_, err = w.Write(frame)
	return err
}

// ReadFrame читает один кадр и возвращает полезную нагрузку. Чистое закрытие
// соединения до первого байта возвращается как io.EOF; обрыв посреди кадра —
// как ErrFraming.
func ReadFrame(r io.Reader) ([]byte, error) {
	var prefix [4]byte
	if _, err := io.ReadFull(r, prefix[:]); err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("%w: reading length prefix: %v", ErrFraming, err)
	}
	length := binary.BigEndian.Uint32(prefix[:])
	if length > MaxFrameSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrFrameTooLarge, length)
	}
	payload := make([]byte, length)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, fmt.Errorf("%w: reading %d-byte payload: %v", ErrFraming, length, err)
	}
	return payload, nil
}

// DecodeRequest читает кадр и разбирает его как запрос. Ошибка разбора JSON
// (ErrDecode) означает, что кадр уже прочитан: вызывающий отвечает конвертом
// ошибки и продолжает чтение.
func DecodeRequest(r io.Reader) (*Request, error) {
	payload, err := ReadFrame(r)
	if err != nil {
		return nil, err
	}
	var req Request
	if err := json.Unmarshal(payload, &req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return &req, nil
}

// DecodeResponse — то же для стороны клиента.
func DecodeResponse(r io.Reader) (*Response, error) {
	payload, err := ReadFrame(r)
	if err != nil {
		return nil, err
	}
	var resp Response
	if err := json.Unmarshal(payload, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return &resp, nil
}
