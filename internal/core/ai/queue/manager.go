package queue

import (
	"context"
	"sync"
	"sync/atomic"

	"bread-converter/internal/infrastructure/config"
	"bread-converter/internal/pkg/common"

	"go.uber.org/zap"
)

// Job 排隊執行的工作（OCR、視覺模型等耗時擷取）
type Job func(ctx context.Context) (string, error)

// Request 隊列請求
type Request struct {
	Context context.Context
	Job     Job
	Result  chan Result
}

// Result 處理結果
type Result struct {
	Output string
	Error  error
}

// Status 隊列狀態
type Status struct {
	QueueLength    int `json:"queue_length"`
	ProcessedCount int `json:"processed_count"`
	MaxQueueSize   int `json:"max_queue_size"`
	Workers        int `json:"workers"`
}

// Manager 隊列管理器，以固定數量的 worker 執行工作
type Manager struct {
	config    config.QueueConfig
	queue     chan *Request
	done      chan struct{}
	processed int64
	wg        sync.WaitGroup

	// mu 保護 closed；Enqueue 持讀鎖送件，Close 之後不會再有新工作進入 queue
	mu     sync.RWMutex
	closed bool
}

// NewManager 創建並啟動隊列管理器
func NewManager(cfg config.QueueConfig) *Manager {
	m := &Manager{
		config: cfg,
		queue:  make(chan *Request, cfg.MaxSize),
		done:   make(chan struct{}),
	}

	for i := 0; i < cfg.Workers; i++ {
		m.wg.Add(1)
		go m.worker(i)
	}

	common.LogInfo("擷取隊列已啟動",
		zap.Int("workers", cfg.Workers),
		zap.Int("max_queue_size", cfg.MaxSize),
	)
	return m
}

// Enqueue 將工作加入隊列，隊列已滿時回傳 common.ErrQueueFull，關閉後回傳 common.ErrQueueClosed
func (m *Manager) Enqueue(ctx context.Context, job Job) (<-chan Result, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, common.ErrQueueClosed
	}

	req := &Request{
		Context: ctx,
		Job:     job,
		Result:  make(chan Result, 1),
	}

	select {
	case m.queue <- req:
		common.LogDebug("Request enqueued",
			zap.Int("queue_length", len(m.queue)),
			zap.Int("max_queue_size", m.config.MaxSize),
		)
		return req.Result, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
		common.LogWarn("擷取隊列已滿", zap.Int("max_queue_size", m.config.MaxSize))
		return nil, common.ErrQueueFull
	}
}

// Do 排隊執行並等待結果
func (m *Manager) Do(ctx context.Context, job Job) (string, error) {
	ch, err := m.Enqueue(ctx, job)
	if err != nil {
		return "", err
	}

	select {
	case res := <-ch:
		return res.Output, res.Error
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// worker 取出工作執行，呼叫端已取消的工作直接略過
func (m *Manager) worker(id int) {
	defer m.wg.Done()

	for {
		select {
		case <-m.done:
			return
		case req := <-m.queue:
			if err := req.Context.Err(); err != nil {
				req.Result <- Result{Error: err}
				continue
			}
			out, err := req.Job(req.Context)
			req.Result <- Result{Output: out, Error: err}
			atomic.AddInt64(&m.processed, 1)
			if err != nil {
				common.LogDebug("擷取工作失敗", zap.Int("worker", id), zap.Error(err))
			}
		}
	}
}

// Status 獲取隊列狀態
func (m *Manager) Status() Status {
	return Status{
		QueueLength:    len(m.queue),
		ProcessedCount: int(atomic.LoadInt64(&m.processed)),
		MaxQueueSize:   m.config.MaxSize,
		Workers:        m.config.Workers,
	}
}

// Close 停止所有 worker，尚未執行的工作一律回傳 common.ErrQueueClosed
func (m *Manager) Close() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.closed = true
	close(m.done)
	m.mu.Unlock()

	m.wg.Wait()

	pending := 0
	for {
		select {
		case req := <-m.queue:
			req.Result <- Result{Error: common.ErrQueueClosed}
			pending++
		default:
			if pending > 0 {
				common.LogWarn("擷取隊列關閉，取消未執行的工作", zap.Int("pending", pending))
			}
			return
		}
	}
}
