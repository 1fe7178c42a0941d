// Package simgateway в dev режиме играет роль внешнего платежного шлюза:
// фоновый процессор подбирает незавершенные заказы и доставляет подписанные
// notify колбэки на собственный endpoint сервиса.
package simgateway

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/fsdevblog/groph-pay/internal/domain"
	"github.com/fsdevblog/groph-pay/internal/gateway"
)

const (
	defaultServiceTimeout         = 3 * time.Second
	defaultNotifyTimeout          = 10 * time.Second
	defaultLimitPerIteration uint = 50
	defaultSettleWorkers     uint = 5

	// settleDelay пауза перед расчетом заказа: у настоящего шлюза между
	// редиректом и колбэком проходит время пока пользователь платит.
	settleDelay = 2 * time.Second
)

type Processor struct {
	sim               *gateway.Simulator
	svs               Servicer
	notifier          Notifier
	l                 *logrus.Entry
	limitPerIteration uint
	settleWorkers     uint
}

func New(svs Servicer, sim *gateway.Simulator, notifier Notifier, l *logrus.Logger) *Processor {
	loggerEntry := l.WithFields(logrus.Fields{
		"component": "simgateway",
		"module":    "processor",
	})

	return &Processor{
		sim:               sim,
		svs:               svs,
		notifier:          notifier,
		l:                 loggerEntry,
		limitPerIteration: defaultLimitPerIteration,
		settleWorkers:     defaultSettleWorkers,
	}
}

// SetLimitPerIteration устанавливает кол-во заказов, обрабатываемых в одной итерации.
func (p *Processor) SetLimitPerIteration(limit uint) *Processor {
	p.limitPerIteration = limit
	return p
}

// SetSettleWorkers устанавливает кол-во воркеров рассчитывающих заказы.
func (p *Processor) SetSettleWorkers(workers uint) *Processor {
	p.settleWorkers = workers
	return p
}

// Run запускает обработку заказов в бесконечном цикле до отмены контекста.
func (p *Processor) Run(ctx context.Context) {
	p.l.WithFields(logrus.Fields{
		"limitPerIteration": p.limitPerIteration,
		"settleWorkers":     p.settleWorkers,
	}).Info("Starting")

	for {
		select {
		case <-ctx.Done():
			p.l.Info("Got stop signal, exiting...")
			return
		default:
			if err := p.process(ctx); err != nil {
				if !errors.Is(err, ErrNoOrders) {
					p.l.WithError(err).Error("process error")
				}
			}
			// пауза между итерациями чтоб не заддосить БД и самих себя.
			select {
			case <-ctx.Done():
			case <-time.After(settleDelay):
			}
		}
	}
}

// process выполняет одну итерацию: получение незавершенных заказов и их
// расчет воркерами. Возвращает ErrNoOrders если рассчитывать нечего.
func (p *Processor) process(ctx context.Context) error {
	orders, ordersErr := p.produce(ctx)
	if ordersErr != nil {
		return fmt.Errorf("process: %w", ordersErr)
	}

	p.runWorkers(ctx, orders)
	return nil
}

// runWorkers запускает параллельных воркеров по паттерну fan-out и ожидает
// конца их работы.
func (p *Processor) runWorkers(ctx context.Context, orders []domain.Order) {
	var taskCh = make(chan *domain.Order, len(orders))
	for i := range orders {
		taskCh <- &orders[i]
	}
	close(taskCh)

	wg := new(sync.WaitGroup)
	wg.Add(int(p.settleWorkers)) //nolint:gosec

	for i := range p.settleWorkers {
		go p.worker(ctx, wg, i+1, taskCh)
	}
	wg.Wait()
}

func (p *Processor) worker(ctx context.Context, wg *sync.WaitGroup, workerID uint, taskCh <-chan *domain.Order) {
	defer wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case task, ok := <-taskCh:
			if !ok {
				return
			}
			p.settleOrder(ctx, workerID, task)
		}
	}
}

// settleOrder проигрывает за шлюз полный цикл одного заказа: редирект,
// расчет по таблице сценариев, доставка notify колбэка.
func (p *Processor) settleOrder(ctx context.Context, workerID uint, order *domain.Order) {
	l := p.l.WithFields(logrus.Fields{
		"worker":    workerID,
		"reference": order.Reference,
	})

	redirectURL, urlErr := p.svs.RedirectURL(order, "127.0.0.1")
	if urlErr != nil {
		l.WithError(urlErr).Error("build redirect url")
		return
	}

	settlement, settleErr := p.sim.Settle(redirectURL)
	if settleErr != nil {
		l.WithError(settleErr).Error("settle order")
		return
	}

	reqCtx, cancel := context.WithTimeout(ctx, defaultNotifyTimeout)
	defer cancel()

	ack, notifyErr := p.notifier.Notify(reqCtx, settlement.NotifyParams)
	if notifyErr != nil {
		// заказ остался CREATED, следующая итерация попробует снова -
		// так же ведет себя ретрай настоящего шлюза.
		l.WithError(notifyErr).Error("deliver notify callback")
		return
	}

	l.WithFields(logrus.Fields{
		"resultCode": settlement.ResultCode,
		"ackCode":    ack.Code,
	}).Info("Settled")
}

// produce получает список заказов для расчета. Возвращает ErrNoOrders, если
// заказы отсутствуют.
func (p *Processor) produce(ctx context.Context) ([]domain.Order, error) {
	produceCtx, cancel := context.WithTimeout(ctx, defaultServiceTimeout)
	defer cancel()

	orders, ordersErr := p.svs.PendingOrders(produceCtx, p.limitPerIteration)
	if ordersErr != nil {
		return nil, fmt.Errorf("produce: %w", ordersErr)
	}

	if len(orders) == 0 {
		return nil, ErrNoOrders
	}
	return orders, nil
}
