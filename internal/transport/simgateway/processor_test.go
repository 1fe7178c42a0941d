package simgateway

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/suite"

	"github.com/fsdevblog/groph-pay/internal/domain"
	"github.com/fsdevblog/groph-pay/internal/gateway"
	"github.com/fsdevblog/groph-pay/internal/logger"
	"github.com/fsdevblog/groph-pay/internal/service"
	"github.com/fsdevblog/groph-pay/internal/sign"
	"github.com/fsdevblog/groph-pay/internal/transport/simgateway/mocks"
)

var simSecret = []byte("sim-test-secret")

type ProcessorTestSuite struct {
	suite.Suite
	ctrl      *gomock.Controller
	svs       *mocks.MockServicer
	notifier  *mocks.MockNotifier
	processor *Processor
}

func TestProcessorSuite(t *testing.T) {
	suite.Run(t, new(ProcessorTestSuite))
}

func (s *ProcessorTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.svs = mocks.NewMockServicer(s.ctrl)
	s.notifier = mocks.NewMockNotifier(s.ctrl)
	s.processor = New(s.svs, gateway.NewSimulator(simSecret), s.notifier, logger.New(io.Discard)).
		SetSettleWorkers(2)
}

func (s *ProcessorTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

// redirectURL собирает подписанный redirect URL так, как его строит мерчант.
func redirectURL(order *domain.Order) string {
	params := map[string]string{
		gateway.FieldVersion:      gateway.ProtocolVersion,
		gateway.FieldCommand:      gateway.CommandPay,
		gateway.FieldTerminalCode: "TESTTMN1",
		gateway.FieldAmount:       gateway.ScaleAmount(order.Amount),
		gateway.FieldTxnRef:       order.Reference,
		gateway.FieldOrderInfo:    order.Description,
		gateway.FieldIPAddr:       "127.0.0.1",
		gateway.FieldCreateDate:   "20240701123045",
	}
	params[sign.SecureHashField] = sign.SignParams(params, simSecret)

	query := make(url.Values, len(params))
	for k, v := range params {
		query.Set(k, v)
	}
	return "https://sandbox.example.com/paymentv2/vpcpay.html?" + query.Encode()
}

func (s *ProcessorTestSuite) TestProcess() {
	orders := []domain.Order{
		{Reference: "ref-1", Amount: 100000, Description: "test", State: domain.OrderStateCreated},
		{Reference: "ref-2", Amount: 5000, Description: "test", State: domain.OrderStateCreated},
	}

	s.svs.EXPECT().PendingOrders(gomock.Any(), defaultLimitPerIteration).Return(orders, nil)
	s.svs.EXPECT().
		RedirectURL(gomock.Any(), "127.0.0.1").
		DoAndReturn(func(order *domain.Order, _ string) (string, error) {
			return redirectURL(order), nil
		}).
		Times(2)

	var mu sync.Mutex
	notified := make(map[string]string)
	s.notifier.EXPECT().
		Notify(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, params map[string]string) (*service.NotifyAck, error) {
			s.True(sign.Verify(params, simSecret))
			mu.Lock()
			notified[params[gateway.FieldTxnRef]] = params[gateway.FieldResponseCode]
			mu.Unlock()
			return &service.NotifyAck{Code: service.NotifyCodeConfirmed, Message: "confirmed"}, nil
		}).
		Times(2)

	err := s.processor.process(context.Background())
	s.Require().NoError(err)

	s.Equal("00", notified["ref-1"])
	s.Equal("00", notified["ref-2"])
}

func (s *ProcessorTestSuite) TestProcessNoOrders() {
	s.svs.EXPECT().PendingOrders(gomock.Any(), defaultLimitPerIteration).Return(nil, nil)

	err := s.processor.process(context.Background())
	s.ErrorIs(err, ErrNoOrders)
}

func (s *ProcessorTestSuite) TestProcessProduceError() {
	s.svs.EXPECT().
		PendingOrders(gomock.Any(), defaultLimitPerIteration).
		Return(nil, errors.New("connection refused"))

	err := s.processor.process(context.Background())
	s.Error(err)
	s.NotErrorIs(err, ErrNoOrders)
}

// Заказ с битым redirect URL пропускается без notify: следующая итерация
// подберет его снова.
func (s *ProcessorTestSuite) TestSettleBadSignature() {
	orders := []domain.Order{{Reference: "ref-1", Amount: 100000, State: domain.OrderStateCreated}}

	s.svs.EXPECT().PendingOrders(gomock.Any(), defaultLimitPerIteration).Return(orders, nil)
	s.svs.EXPECT().
		RedirectURL(gomock.Any(), "127.0.0.1").
		Return("https://sandbox.example.com/paymentv2/vpcpay.html?pay_TxnRef=ref-1", nil)

	err := s.processor.process(context.Background())
	s.Require().NoError(err)
}

func (s *ProcessorTestSuite) TestNotifyDeliveryError() {
	orders := []domain.Order{{Reference: "ref-1", Amount: 100000, State: domain.OrderStateCreated}}

	s.svs.EXPECT().PendingOrders(gomock.Any(), defaultLimitPerIteration).Return(orders, nil)
	s.svs.EXPECT().
		RedirectURL(gomock.Any(), "127.0.0.1").
		DoAndReturn(func(order *domain.Order, _ string) (string, error) {
			return redirectURL(order), nil
		})
	s.notifier.EXPECT().
		Notify(gomock.Any(), gomock.Any()).
		Return(nil, NewStatusCodeError(http.StatusBadGateway))

	err := s.processor.process(context.Background())
	s.Require().NoError(err)
}

func TestHTTPNotifier(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != RouteNotify {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if r.URL.Query().Get(gateway.FieldTxnRef) != "ref-1" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"code":"00","message":"confirmed"}`))
	}))
	defer server.Close()

	notifier := NewHTTPNotifier(server.URL)
	ack, err := notifier.Notify(context.Background(), map[string]string{gateway.FieldTxnRef: "ref-1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ack.Code != service.NotifyCodeConfirmed {
		t.Errorf("got ack code %q, want %q", ack.Code, service.NotifyCodeConfirmed)
	}
}

func TestHTTPNotifierBadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	notifier := NewHTTPNotifier(server.URL)
	_, err := notifier.Notify(context.Background(), map[string]string{gateway.FieldTxnRef: "ref-1"})

	var statusErr *StatusCodeError
	if !errors.As(err, &statusErr) {
		t.Fatalf("got %v, want StatusCodeError", err)
	}
	if statusErr.StatusCode != http.StatusInternalServerError {
		t.Errorf("got status %d, want %d", statusErr.StatusCode, http.StatusInternalServerError)
	}
}
