package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// トークンが取れないとき。リクエストは送らない。
var ErrNoSession = errors.New("No hay sesión activa. Por favor inicia sesión.")

// 10秒以内に応答がなかった
type TimeoutError struct {
	BaseURL string
}

func (e *TimeoutError) Error() string {
	return "Timeout: El servidor no respondió en 10 segundos.\n\n" +
		"Verifica que:\n" +
		"1. El servidor esté corriendo en " + e.BaseURL + "\n" +
		"2. Si usas dispositivo/emulador, usa tu IP local en lugar de localhost\n" +
		"   Ejemplo: http://192.168.1.100:8080\n" +
		"3. Ambos dispositivos estén en la misma red WiFi"
}

// 接続できなかった（DNS, 拒否, TLSなど）
type NetworkError struct {
	BaseURL string
	Err     error
}

func (e *NetworkError) Error() string {
	return "No se pudo conectar al servidor.\n\n" +
		"Verifica que:\n" +
		"1. El servidor esté corriendo en " + e.BaseURL + "\n" +
		"2. Si usas dispositivo/emulador, usa tu IP local (ej: http://192.168.1.100:8080)\n" +
		"3. Ambos dispositivos estén en la misma red WiFi\n" +
		"4. El firewall no esté bloqueando la conexión"
}

func (e *NetworkError) Unwrap() error { return e.Err }

// 2xx以外の応答。Messageは画面にそのまま出せる文。
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string { return e.Message }

// AsAPIError はerrがAPIErrorならそれを返す。
func AsAPIError(err error) (*APIError, bool) {
	var ae *APIError
	ok := errors.As(err, &ae)
	return ae, ok
}

type validationItem struct {
	Loc []any  `json:"loc"`
	Msg string `json:"msg"`
}

// FastAPI形式の {"detail": ...} から表示用の文を作る
func parseAPIError(status int, body []byte) *APIError {
	statusText := http.StatusText(status)

	var payload struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		// JSONでなければステータス文言をdetail扱い
		if statusText != "" {
			return &APIError{StatusCode: status, Message: statusText}
		}
		return &APIError{StatusCode: status, Message: fmt.Sprintf("Error %d: %s", status, statusText)}
	}

	detail := payload.Detail
	if len(detail) == 0 || string(detail) == "null" || string(detail) == `""` {
		return &APIError{StatusCode: status, Message: fmt.Sprintf("Error %d: %s", status, statusText)}
	}

	if status == http.StatusUnprocessableEntity {
		var items []validationItem
		if err := json.Unmarshal(detail, &items); err == nil {
			lines := make([]string, 0, len(items))
			for _, it := range items {
				lines = append(lines, fieldName(it.Loc)+": "+it.Msg)
			}
			return &APIError{StatusCode: status, Message: "Error de validación:\n" + strings.Join(lines, "\n")}
		}
	}

	var s string
	if err := json.Unmarshal(detail, &s); err == nil {
		return &APIError{StatusCode: status, Message: s}
	}
	return &APIError{StatusCode: status, Message: string(detail)}
}

// locの先頭（body/query/path）を除いて"."でつなぐ
func fieldName(loc []any) string {
	if len(loc) < 2 {
		return "campo desconocido"
	}
	parts := make([]string, 0, len(loc)-1)
	for _, p := range loc[1:] {
		parts = append(parts, fmt.Sprint(p))
	}
	return strings.Join(parts, ".")
}
