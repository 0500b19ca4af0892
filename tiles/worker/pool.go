package worker

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"
)

// TaskTimeout bounds a single task run.
const TaskTimeout = 10 * time.Second

type Task struct {
	Ctx  context.Context
	Name string
	Work func(ctx context.Context) error
}

// Pool runs tasks on a fixed number of goroutines.
type Pool struct {
	tasks chan Task
	quit  chan struct{}
	once  sync.Once
	wg    sync.WaitGroup
}

func NewPool(maxWorkers, queueSize int) *Pool {
	if maxWorkers < 1 {
		maxWorkers = 1
	}
	p := &Pool{
		tasks: make(chan Task, queueSize),
		quit:  make(chan struct{}),
	}
	p.wg.Add(maxWorkers)
	for i := 0; i < maxWorkers; i++ {
		go p.worker()
	}
	return p
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for {
		select {
		case <-p.quit:
			return
		case task := <-p.tasks:
			p.run(task)
		}
	}
}

func (p *Pool) run(task Task) {
	parent := task.Ctx
	if parent == nil {
		parent = context.Background()
	}
	// Work always runs so tasks can release what they hold; a cancelled
	// task sees ctx.Err() and is expected to return at once.
	ctx, cancel := context.WithTimeout(parent, TaskTimeout)
	defer cancel()
	if err := task.Work(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Printf("task %s: %v", task.Name, err)
	}
}

// drop hands a task that will never run its Work under a cancelled context.
func (p *Pool) drop(task Task) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	task.Ctx = ctx
	p.run(task)
}

// Submit queues the task without blocking. It reports false when the
// queue is full or the pool has been shut down.
func (p *Pool) Submit(task Task) bool {
	select {
	case <-p.quit:
		return false
	default:
	}
	select {
	case p.tasks <- task:
		return true
	default:
		return false
	}
}

// Shutdown stops the workers and waits for running tasks to return.
// Queued tasks that have not started get a cancelled context.
func (p *Pool) Shutdown() {
	p.once.Do(func() { close(p.quit) })
	p.wg.Wait()
	for {
		select {
		case task := <-p.tasks:
			p.drop(task)
		default:
			return
		}
	}
}
