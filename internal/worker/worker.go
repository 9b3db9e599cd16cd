package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"intercolor/internal/infra"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	emailQueue = "jobs:email"
	deadQueue  = "jobs:email:dead"

	jobTypeLowStock = "low_stock"

	maxAttempts = 3
	popTimeout  = 5 * time.Second
)

// EmailJob is the wire format on the Redis queue.
type EmailJob struct {
	Type         string    `json:"type"`
	To           string    `json:"to"`
	ProductName  string    `json:"product_name,omitempty"`
	Stock        int       `json:"stock,omitempty"`
	MinimumStock int       `json:"minimum_stock,omitempty"`
	Attempts     int       `json:"attempts"`
	EnqueuedAt   time.Time `json:"enqueued_at"`
}

// Dispatcher pushes jobs onto the queue. It satisfies the stock service's
// AlertNotifier so low-stock emails never block the request path.
type Dispatcher struct {
	rdb        *redis.Client
	alertEmail string
}

func NewDispatcher(rdb *redis.Client, alertEmail string) *Dispatcher {
	return &Dispatcher{rdb: rdb, alertEmail: alertEmail}
}

func (d *Dispatcher) NotifyLowStock(ctx context.Context, productName string, stock, minimumStock int) {
	if d.rdb == nil || d.alertEmail == "" {
		return
	}
	d.enqueue(ctx, EmailJob{
		Type:         jobTypeLowStock,
		To:           d.alertEmail,
		ProductName:  productName,
		Stock:        stock,
		MinimumStock: minimumStock,
		EnqueuedAt:   time.Now(),
	})
}

func (d *Dispatcher) enqueue(ctx context.Context, job EmailJob) {
	payload, err := json.Marshal(job)
	if err != nil {
		log.Error().Err(err).Msg("email job marshal failed")
		return
	}
	if err := d.rdb.LPush(ctx, emailQueue, payload).Err(); err != nil {
		log.Error().Err(err).Str("queue", emailQueue).Msg("email job enqueue failed")
	}
}

// Pool consumes the email queue with a fixed number of goroutines. Failed
// sends are retried up to maxAttempts, then parked on the dead queue. The
// circuit breaker keeps an unreachable SMTP server from burning attempts.
type Pool struct {
	rdb    *redis.Client
	mailer *infra.Mailer
	cb     *infra.CircuitBreaker
	size   int

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewPool(rdb *redis.Client, mailer *infra.Mailer, size int) *Pool {
	if size < 1 {
		size = 1
	}
	return &Pool{
		rdb:    rdb,
		mailer: mailer,
		cb:     infra.NewCircuitBreaker(infra.DefaultCBConfig()),
		size:   size,
	}
}

func (p *Pool) Start(ctx context.Context) {
	ctx, p.cancel = context.WithCancel(ctx)
	for i := 0; i < p.size; i++ {
		p.wg.Add(1)
		go p.run(ctx, i)
	}
	log.Info().Int("workers", p.size).Msg("email worker pool started")
}

// Stop cancels the workers and waits for in-flight jobs to finish.
func (p *Pool) Stop() {
	if p.cancel != nil {
		p.cancel()
	}
	p.wg.Wait()
	log.Info().Msg("email worker pool stopped")
}

func (p *Pool) run(ctx context.Context, id int) {
	defer p.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		result, err := p.rdb.BRPop(ctx, popTimeout, emailQueue).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) || errors.Is(err, context.Canceled) {
				continue
			}
			log.Error().Err(err).Int("worker", id).Msg("queue pop failed")
			time.Sleep(time.Second)
			continue
		}
		// BRPop returns [queue, payload]
		if len(result) != 2 {
			continue
		}

		var job EmailJob
		if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
			log.Error().Err(err).Msg("email job unmarshal failed, dropping")
			continue
		}

		if err := p.process(&job); err != nil {
			p.retry(ctx, job, err)
		}
	}
}

func (p *Pool) process(job *EmailJob) error {
	switch job.Type {
	case jobTypeLowStock:
		subject := fmt.Sprintf("Alerta de stock bajo: %s", job.ProductName)
		body := fmt.Sprintf(
			"El producto %q alcanzo el umbral de stock minimo.\n\nStock actual: %d\nStock minimo: %d\n\nRevise el inventario y reponga el producto.",
			job.ProductName, job.Stock, job.MinimumStock,
		)
		return p.cb.Execute(func() error {
			return p.mailer.Send(job.To, subject, body, "")
		})
	default:
		log.Warn().Str("type", job.Type).Msg("unknown email job type, dropping")
		return nil
	}
}

func (p *Pool) retry(ctx context.Context, job EmailJob, cause error) {
	job.Attempts++
	if job.Attempts >= maxAttempts {
		payload, _ := json.Marshal(job)
		if err := p.rdb.LPush(ctx, deadQueue, payload).Err(); err != nil {
			log.Error().Err(err).Msg("dead letter push failed")
		}
		log.Error().
			Err(cause).
			Str("type", job.Type).
			Int("attempts", job.Attempts).
			Msg("email job moved to dead queue")
		return
	}

	payload, _ := json.Marshal(job)
	if err := p.rdb.LPush(ctx, emailQueue, payload).Err(); err != nil {
		log.Error().Err(err).Msg("email job requeue failed")
		return
	}
	log.Warn().
		Err(cause).
		Str("type", job.Type).
		Int("attempts", job.Attempts).
		Msg("email job requeued")
}
