package memrepo

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/suite"

	"github.com/fsdevblog/groph-pay/internal/domain"
	"github.com/fsdevblog/groph-pay/internal/repository/repoargs"
)

type OrderRepoTestSuite struct {
	suite.Suite
	repo *OrderRepository
}

func TestOrderRepoSuite(t *testing.T) {
	suite.Run(t, new(OrderRepoTestSuite))
}

func (s *OrderRepoTestSuite) SetupTest() {
	s.repo = NewOrderRepository()
}

func (s *OrderRepoTestSuite) createOrder(reference string) *domain.Order {
	order, err := s.repo.Create(context.Background(), repoargs.OrderCreate{
		Reference:   reference,
		Amount:      int64(gofakeit.Number(1000, 1000000)),
		Description: gofakeit.ProductName(),
	})
	s.Require().NoError(err)
	return order
}

func (s *OrderRepoTestSuite) TestCreate() {
	order := s.createOrder("ref-1")

	s.Equal("ref-1", order.Reference)
	s.Equal(domain.OrderStateCreated, order.State)
	s.Empty(order.ResultCode)
	s.Nil(order.SettledAt)

	// повторная вставка того же reference
	_, dupErr := s.repo.Create(context.Background(), repoargs.OrderCreate{Reference: "ref-1", Amount: 100})
	s.ErrorIs(dupErr, domain.ErrDuplicateKey)
}

func (s *OrderRepoTestSuite) TestFindByReference() {
	s.createOrder("ref-1")

	found, err := s.repo.FindByReference(context.Background(), "ref-1")
	s.Require().NoError(err)
	s.Equal("ref-1", found.Reference)

	_, notFoundErr := s.repo.FindByReference(context.Background(), "missing")
	s.ErrorIs(notFoundErr, domain.ErrRecordNotFound)
}

func (s *OrderRepoTestSuite) TestCommit() {
	s.createOrder("ref-1")

	committed, err := s.repo.Commit(context.Background(), repoargs.OrderCommit{
		Reference:   "ref-1",
		State:       domain.OrderStateCompleted,
		ResultCode:  "00",
		GatewayTxID: "2024000001",
	})
	s.Require().NoError(err)
	s.Equal(domain.OrderStateCompleted, committed.State)
	s.Equal("00", committed.ResultCode)
	s.Require().NotNil(committed.SettledAt)
}

// Повторный коммит - no-op: state, resultCode и settledAt не меняются, даже
// если второй колбэк несет другой исход.
func (s *OrderRepoTestSuite) TestCommitIdempotent() {
	s.createOrder("ref-1")

	first, firstErr := s.repo.Commit(context.Background(), repoargs.OrderCommit{
		Reference:   "ref-1",
		State:       domain.OrderStateCompleted,
		ResultCode:  "00",
		GatewayTxID: "2024000001",
	})
	s.Require().NoError(firstErr)

	second, secondErr := s.repo.Commit(context.Background(), repoargs.OrderCommit{
		Reference:   "ref-1",
		State:       domain.OrderStateFailed,
		ResultCode:  "51",
		GatewayTxID: "2024000999",
	})
	s.Require().NoError(secondErr)

	s.Equal(first.State, second.State)
	s.Equal(first.ResultCode, second.ResultCode)
	s.Equal(first.GatewayTxID, second.GatewayTxID)
	s.Require().NotNil(second.SettledAt)
	s.Equal(*first.SettledAt, *second.SettledAt)
}

func (s *OrderRepoTestSuite) TestCommitUnknownReference() {
	_, err := s.repo.Commit(context.Background(), repoargs.OrderCommit{
		Reference: "missing",
		State:     domain.OrderStateCompleted,
	})
	s.ErrorIs(err, domain.ErrRecordNotFound)
}

// При конкурентной вставке одного reference выигрывает ровно один вызов.
func (s *OrderRepoTestSuite) TestCreateConcurrentSameReference() {
	const workers = 32

	var wins int
	var mu sync.Mutex
	wg := new(sync.WaitGroup)
	wg.Add(workers)

	for range workers {
		go func() {
			defer wg.Done()
			_, err := s.repo.Create(context.Background(), repoargs.OrderCreate{
				Reference: "contested",
				Amount:    100,
			})
			if err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	s.Equal(1, wins)
}

// Конкурентные коммиты одного reference линеаризуются: финальный исход
// принадлежит ровно одному из них.
func (s *OrderRepoTestSuite) TestCommitConcurrent() {
	s.createOrder("ref-1")

	const workers = 16
	wg := new(sync.WaitGroup)
	wg.Add(workers)

	for i := range workers {
		go func() {
			defer wg.Done()
			state := domain.OrderStateCompleted
			code := "00"
			if i%2 == 1 {
				state = domain.OrderStateFailed
				code = "51"
			}
			_, err := s.repo.Commit(context.Background(), repoargs.OrderCommit{
				Reference:   "ref-1",
				State:       state,
				ResultCode:  code,
				GatewayTxID: fmt.Sprintf("tx-%d", i),
			})
			s.NoError(err)
		}()
	}
	wg.Wait()

	final, err := s.repo.FindByReference(context.Background(), "ref-1")
	s.Require().NoError(err)
	s.True(final.IsTerminal())
	if final.State == domain.OrderStateCompleted {
		s.Equal("00", final.ResultCode)
	} else {
		s.Equal("51", final.ResultCode)
	}
}

func (s *OrderRepoTestSuite) TestGetPending() {
	s.createOrder("ref-1")
	s.createOrder("ref-2")

	_, commitErr := s.repo.Commit(context.Background(), repoargs.OrderCommit{
		Reference:  "ref-1",
		State:      domain.OrderStateCompleted,
		ResultCode: "00",
	})
	s.Require().NoError(commitErr)

	pending, err := s.repo.GetPending(context.Background(), 10)
	s.Require().NoError(err)
	s.Require().Len(pending, 1)
	s.Equal("ref-2", pending[0].Reference)
}

func (s *OrderRepoTestSuite) TestGetAllLimit() {
	for i := range 5 {
		s.createOrder(fmt.Sprintf("ref-%d", i))
	}

	orders, err := s.repo.GetAll(context.Background(), 3)
	s.Require().NoError(err)
	s.Len(orders, 3)
}
