package mail

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

var (
	ErrQueueFull         = errors.New("mail: queue full")
	ErrDispatcherStopped = errors.New("mail: dispatcher stopped")
)

type Message struct {
	To      string
	Subject string
	Body    string
}

// Sender delivers a single message.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

type Worker struct {
	ID         int
	WorkerPool chan chan Message
	JobChannel chan Message
	Logger     *slog.Logger
}

func NewWorker(id int, workerPool chan chan Message, logger *slog.Logger) *Worker {
	return &Worker{
		ID:         id,
		WorkerPool: workerPool,
		JobChannel: make(chan Message),
		Logger:     logger,
	}
}

func (w *Worker) Start(ctx context.Context, wg *sync.WaitGroup, processFunc func(Message)) {
	wg.Add(1)
	go func() {
		defer wg.Done()

		for {
			w.WorkerPool <- w.JobChannel

			select {
			case msg := <-w.JobChannel:
				w.Logger.Debug("worker sending mail", "worker_id", w.ID, "to", msg.To)
				processFunc(msg)
			case <-ctx.Done():
				w.Logger.Debug("worker shutting down", "worker_id", w.ID)
				return
			}
		}
	}()
}

type Config struct {
	MaxWorkers  int
	QueueSize   int
	SendTimeout time.Duration
}

// Dispatcher sends mail on a bounded worker pool so request handlers never
// wait on SMTP.
type Dispatcher struct {
	sender      Sender
	logger      *slog.Logger
	sendTimeout time.Duration

	jobQueue   chan Message
	workerPool chan chan Message
	maxWorkers int
	ctx        context.Context
	cancel     context.CancelFunc
	wg         sync.WaitGroup
	dispatchWg sync.WaitGroup
	once       sync.Once

	mu      sync.RWMutex
	stopped bool
}

func NewDispatcher(cfg Config, sender Sender, logger *slog.Logger) *Dispatcher {
	ctx, cancel := context.WithCancel(context.Background())

	maxWorkers := cfg.MaxWorkers
	if maxWorkers <= 0 {
		maxWorkers = 2
	}

	queueSize := cfg.QueueSize
	if queueSize <= 0 {
		queueSize = 100
	}

	sendTimeout := cfg.SendTimeout
	if sendTimeout <= 0 {
		sendTimeout = 30 * time.Second
	}

	return &Dispatcher{
		sender:      sender,
		logger:      logger,
		sendTimeout: sendTimeout,
		maxWorkers:  maxWorkers,
		jobQueue:    make(chan Message, queueSize),
		workerPool:  make(chan chan Message, maxWorkers),
		ctx:         ctx,
		cancel:      cancel,
	}
}

func (d *Dispatcher) Start() {
	d.once.Do(func() {
		for i := 0; i < d.maxWorkers; i++ {
			worker := NewWorker(i, d.workerPool, d.logger)
			worker.Start(d.ctx, &d.wg, d.send)
		}

		d.dispatchWg.Add(1)
		go d.dispatch()

		d.logger.Info("mail dispatcher started",
			"max_workers", d.maxWorkers,
			"queue_size", cap(d.jobQueue))
	})
}

// dispatch hands queued messages to idle workers until the queue is closed.
func (d *Dispatcher) dispatch() {
	defer d.dispatchWg.Done()

	for msg := range d.jobQueue {
		jobChannel := <-d.workerPool
		jobChannel <- msg
	}
}

// Enqueue never blocks; a full queue is reported as ErrQueueFull.
func (d *Dispatcher) Enqueue(msg Message) error {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.stopped {
		return ErrDispatcherStopped
	}

	select {
	case d.jobQueue <- msg:
		d.logger.Debug("mail queued", "to", msg.To, "queue_length", len(d.jobQueue))
		return nil
	default:
		d.logger.Warn("mail queue full, dropping message", "to", msg.To, "queue_capacity", cap(d.jobQueue))
		return ErrQueueFull
	}
}

// Shutdown stops accepting messages, delivers what is queued, then stops the workers.
func (d *Dispatcher) Shutdown() {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	d.stopped = true
	close(d.jobQueue)
	d.mu.Unlock()

	d.Start()
	d.dispatchWg.Wait()
	d.cancel()
	d.wg.Wait()
	d.logger.Info("mail dispatcher shutdown complete")
}

func (d *Dispatcher) send(msg Message) {
	ctx, cancel := context.WithTimeout(context.Background(), d.sendTimeout)
	defer cancel()

	if err := d.sender.Send(ctx, msg); err != nil {
		d.logger.Error("failed to send mail", "to", msg.To, "subject", msg.Subject, "error", err)
		return
	}
	d.logger.Info("mail sent", "to", msg.To, "subject", msg.Subject)
}
