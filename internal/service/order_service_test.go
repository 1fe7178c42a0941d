package service

import (
	"context"
	"errors"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/suite"

	"github.com/fsdevblog/groph-pay/internal/domain"
	"github.com/fsdevblog/groph-pay/internal/gateway"
	"github.com/fsdevblog/groph-pay/internal/repository/memrepo"
	"github.com/fsdevblog/groph-pay/internal/repository/repoargs"
	"github.com/fsdevblog/groph-pay/internal/service/mocks"
	"github.com/fsdevblog/groph-pay/internal/sign"
)

var testGatewayConf = GatewayConfig{
	BaseURL:      "https://sandbox.example.com/paymentv2/vpcpay.html",
	TerminalCode: "TESTTMN1",
	Secret:       []byte("test-secret"),
	MinAmount:    1000,
	MaxAmount:    100000000,
}

type OrderServiceTestSuite struct {
	suite.Suite
	ctrl      *gomock.Controller
	orderRepo *mocks.MockOrderRepository
	service   *OrderService
}

func TestOrderServiceSuite(t *testing.T) {
	suite.Run(t, new(OrderServiceTestSuite))
}

func (s *OrderServiceTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.orderRepo = mocks.NewMockOrderRepository(s.ctrl)
	s.service = NewOrderService(s.orderRepo, testGatewayConf)
}

func (s *OrderServiceTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *OrderServiceTestSuite) TestCreate() {
	s.orderRepo.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, args repoargs.OrderCreate) (*domain.Order, error) {
			s.NotEmpty(args.Reference)
			s.Equal(int64(100000), args.Amount)
			return &domain.Order{
				ID:        1,
				Reference: args.Reference,
				Amount:    args.Amount,
				State:     domain.OrderStateCreated,
			}, nil
		})

	result, err := s.service.Create(context.Background(), CreateOrderArgs{
		Amount:      100000,
		Description: "test",
		ClientIP:    "127.0.0.1",
	})
	s.Require().NoError(err)
	s.Equal(domain.OrderStateCreated, result.Order.State)
	s.NotEmpty(result.RedirectURL)
}

// Сумма вне границ: заказ не создается вовсе, репозиторий не трогаем.
func (s *OrderServiceTestSuite) TestCreateInvalidAmount() {
	for _, amount := range []int64{0, -1, 999, 100000001} {
		_, err := s.service.Create(context.Background(), CreateOrderArgs{Amount: amount})

		var invalidAmountErr *domain.InvalidAmountError
		s.Require().ErrorAs(err, &invalidAmountErr, "amount %d", amount)
		s.Equal(amount, invalidAmountErr.Amount)
	}
}

// Коллизия reference: сервис пробует снова со свежим reference.
func (s *OrderServiceTestSuite) TestCreateReferenceCollisionRetry() {
	var references []string
	s.orderRepo.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, args repoargs.OrderCreate) (*domain.Order, error) {
			references = append(references, args.Reference)
			return nil, domain.ErrDuplicateKey
		})
	s.orderRepo.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, args repoargs.OrderCreate) (*domain.Order, error) {
			references = append(references, args.Reference)
			return &domain.Order{Reference: args.Reference, Amount: args.Amount, State: domain.OrderStateCreated}, nil
		})

	_, err := s.service.Create(context.Background(), CreateOrderArgs{Amount: 100000})
	s.Require().NoError(err)
	s.Require().Len(references, 2)
	s.NotEqual(references[0], references[1])
}

func (s *OrderServiceTestSuite) TestCreateReferenceAllocationExhausted() {
	s.orderRepo.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		Return(nil, domain.ErrDuplicateKey).
		Times(3)

	_, err := s.service.Create(context.Background(), CreateOrderArgs{Amount: 100000})
	s.ErrorIs(err, domain.ErrReferenceAllocation)
}

// N конкурентных созданий дают N различных reference: суффикс случайный,
// остаточные коллизии разрешает атомарная вставка хранилища плюс ретрай.
func (s *OrderServiceTestSuite) TestCreateConcurrentDistinctReferences() {
	const workers = 32

	svs := NewOrderService(memrepo.NewOrderRepository(), testGatewayConf)

	references := make(chan string, workers)
	wg := new(sync.WaitGroup)
	wg.Add(workers)

	for range workers {
		go func() {
			defer wg.Done()
			result, err := svs.Create(context.Background(), CreateOrderArgs{
				Amount:      100000,
				Description: "test",
				ClientIP:    "127.0.0.1",
			})
			if s.NoError(err) {
				references <- result.Order.Reference
			}
		}()
	}
	wg.Wait()
	close(references)

	seen := make(map[string]struct{}, workers)
	for reference := range references {
		seen[reference] = struct{}{}
	}
	s.Len(seen, workers)
}

func (s *OrderServiceTestSuite) TestCreateRepoError() {
	s.orderRepo.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		Return(nil, errors.New("connection refused"))

	_, err := s.service.Create(context.Background(), CreateOrderArgs{Amount: 100000})
	s.Error(err)
}

// Redirect URL несет все обязательные поля, и подпись сходится после
// round trip через query encoding.
func (s *OrderServiceTestSuite) TestRedirectURL() {
	s.service.SetClock(func() time.Time {
		return time.Date(2024, 7, 1, 12, 30, 45, 0, time.UTC)
	})

	order := &domain.Order{
		Reference:   "20240701123045-abcdef",
		Amount:      100000,
		Description: "test",
		BankHint:    "NCB",
		State:       domain.OrderStateCreated,
	}

	redirectURL, err := s.service.RedirectURL(order, "10.0.0.1")
	s.Require().NoError(err)

	parsed, parseErr := url.Parse(redirectURL)
	s.Require().NoError(parseErr)

	params := make(map[string]string)
	for k, v := range parsed.Query() {
		params[k] = v[0]
	}

	s.Equal(gateway.ProtocolVersion, params[gateway.FieldVersion])
	s.Equal(gateway.CommandPay, params[gateway.FieldCommand])
	s.Equal("TESTTMN1", params[gateway.FieldTerminalCode])
	s.Equal("10000000", params[gateway.FieldAmount])
	s.Equal(order.Reference, params[gateway.FieldTxnRef])
	s.Equal("NCB", params[gateway.FieldBankCode])
	s.Equal("20240701123045", params[gateway.FieldCreateDate])
	s.True(sign.Verify(params, testGatewayConf.Secret))
}

// Без BankHint поле pay_BankCode не попадает в URL вовсе.
func (s *OrderServiceTestSuite) TestRedirectURLNoBankHint() {
	order := &domain.Order{Reference: "ref-1", Amount: 100000, State: domain.OrderStateCreated}

	redirectURL, err := s.service.RedirectURL(order, "10.0.0.1")
	s.Require().NoError(err)

	parsed, parseErr := url.Parse(redirectURL)
	s.Require().NoError(parseErr)
	s.False(parsed.Query().Has(gateway.FieldBankCode))
}

func (s *OrderServiceTestSuite) TestGetStatus() {
	s.orderRepo.EXPECT().
		FindByReference(gomock.Any(), "ref-1").
		Return(&domain.Order{Reference: "ref-1", State: domain.OrderStateCompleted}, nil)

	order, err := s.service.GetStatus(context.Background(), "ref-1")
	s.Require().NoError(err)
	s.Equal(domain.OrderStateCompleted, order.State)
}

func (s *OrderServiceTestSuite) TestGetStatusNotFound() {
	s.orderRepo.EXPECT().
		FindByReference(gomock.Any(), "missing").
		Return(nil, domain.ErrRecordNotFound)

	_, err := s.service.GetStatus(context.Background(), "missing")
	s.ErrorIs(err, domain.ErrRecordNotFound)
}
