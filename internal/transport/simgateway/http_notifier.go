package simgateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/fsdevblog/groph-pay/internal/service"
)

const RouteNotify = "/api/payment/notify"

// HTTPNotifier является реализацией интерфейса Notifier для HTTP запросов к
// notify endpoint'у мерчанта.
type HTTPNotifier struct {
	baseURL    string
	httpClient *http.Client
}

func NewHTTPNotifier(baseURL string) *HTTPNotifier {
	return &HTTPNotifier{
		baseURL:    baseURL,
		httpClient: http.DefaultClient,
	}
}

// Notify отправляет подписанный набор параметров колбэка и разбирает ack ответ.
//
//nolint:nonamedreturns
func (c *HTTPNotifier) Notify(ctx context.Context, params map[string]string) (ack *service.NotifyAck, err error) {
	query := make(url.Values, len(params))
	for k, v := range params {
		query.Set(k, v)
	}
	reqURL := c.baseURL + RouteNotify + "?" + query.Encode()

	req, reqErr := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if reqErr != nil {
		return nil, fmt.Errorf("create notify request: %s", reqErr.Error())
	}

	resp, doErr := c.httpClient.Do(req)
	if doErr != nil {
		return nil, fmt.Errorf("do notify request: %s", doErr.Error())
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			err = errors.Join(err, closeErr)
		}
	}()

	// Настоящий шлюз разбирает только HTTP 200, остальное ретраит.
	if resp.StatusCode != http.StatusOK {
		return nil, NewStatusCodeError(resp.StatusCode)
	}

	body, readErr := io.ReadAll(resp.Body)
	if readErr != nil {
		return nil, fmt.Errorf("read notify response: %s", readErr.Error())
	}

	var parsed service.NotifyAck
	if unmarshalErr := json.Unmarshal(body, &parsed); unmarshalErr != nil {
		return nil, fmt.Errorf("unmarshal notify response: %s", unmarshalErr.Error())
	}
	return &parsed, nil
}
