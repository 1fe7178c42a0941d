package gateway

import (
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/fsdevblog/groph-pay/internal/sign"
)

var (
	ErrSimBadSignature = errors.New("[gateway/sim] redirect url signature mismatch")
	ErrSimNoReference  = errors.New("[gateway/sim] redirect url has no order reference")
)

// Settlement результат обработки платежа шлюзом: два одинаковых по содержанию,
// но независимо подписанных набора параметров для return и notify каналов.
type Settlement struct {
	ResultCode   string
	GatewayTxID  string
	ReturnParams map[string]string
	NotifyParams map[string]string
}

// Simulator имитирует внешний платежный шлюз без живого контрагента.
// Исход платежа выбирается по таблице сценариев, ключ - pay_BankCode из
// редиректа. Внедряется как коллаборатор на этапе конфигурации процесса,
// глобального состояния не держит.
type Simulator struct {
	mu        sync.Mutex
	secret    []byte
	scenarios map[string]string
	txCounter int64
	now       func() time.Time
}

func NewSimulator(secret []byte) *Simulator {
	return &Simulator{
		secret:    secret,
		scenarios: make(map[string]string),
		now:       time.Now,
	}
}

// SetScenario задает код ответа для платежей с указанным bank code.
// Платежи без сценария завершаются успешно.
func (s *Simulator) SetScenario(bankCode, resultCode string) *Simulator {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scenarios[bankCode] = resultCode
	return s
}

// SetClock подменяет источник времени (для тестов).
func (s *Simulator) SetClock(now func() time.Time) *Simulator {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
	return s
}

// Settle разбирает redirect URL мерчанта и возвращает подписанные наборы
// параметров колбэков, которые настоящий шлюз отправил бы по обоим каналам.
// Подпись редиректа проверяется так же строго, как это делает настоящий шлюз.
func (s *Simulator) Settle(redirectURL string) (*Settlement, error) {
	u, parseErr := url.Parse(redirectURL)
	if parseErr != nil {
		return nil, fmt.Errorf("[gateway/sim] parse redirect url: %s", parseErr.Error())
	}

	request := make(map[string]string)
	for key, values := range u.Query() {
		if len(values) > 0 {
			request[key] = values[0]
		}
	}
	if !sign.Verify(request, s.secret) {
		return nil, ErrSimBadSignature
	}
	if request[FieldTxnRef] == "" {
		return nil, ErrSimNoReference
	}

	bankCode := request[FieldBankCode]
	if bankCode == "" {
		// заказ без банковской подсказки - банк выбирает шлюз.
		bankCode = "SIMBANK"
	}

	s.mu.Lock()
	resultCode, ok := s.scenarios[bankCode]
	if !ok {
		resultCode = ResponseCodeSuccess
	}
	s.txCounter++
	txID := fmt.Sprintf("%d%06d", s.now().Year(), s.txCounter)
	payDate := s.now().Format(TimeLayout)
	s.mu.Unlock()

	base := map[string]string{
		FieldTerminalCode:  request[FieldTerminalCode],
		FieldTxnRef:        request[FieldTxnRef],
		FieldAmount:        request[FieldAmount],
		FieldOrderInfo:     request[FieldOrderInfo],
		FieldBankCode:      bankCode,
		FieldResponseCode:  resultCode,
		FieldTransactionNo: txID,
		FieldPayDate:       payDate,
	}

	return &Settlement{
		ResultCode:   resultCode,
		GatewayTxID:  txID,
		ReturnParams: s.signedCopy(base),
		NotifyParams: s.signedCopy(base),
	}, nil
}

func (s *Simulator) signedCopy(params map[string]string) map[string]string {
	signed := make(map[string]string, len(params)+1)
	for k, v := range params {
		signed[k] = v
	}
	signed[sign.SecureHashField] = sign.SignParams(signed, s.secret)
	return signed
}
