package audit

import (
	"context"
	"sync"
	"time"
)

// AsyncOptions configures NewAsyncWriter's buffering and batching behavior.
type AsyncOptions struct {
	// BufferSize bounds the number of pending Store calls queued in memory
	// before Store falls back to a synchronous write. Defaults to 1000.
	BufferSize int
	// BatchSize is the number of events accumulated before a batch is
	// flushed early, ahead of BatchTimeout. Defaults to 100.
	BatchSize int
	// BatchTimeout bounds how long a partial batch waits before flushing.
	// Defaults to 100ms.
	BatchTimeout time.Duration
	// StorageTimeout bounds a single flush's call into the batch writer.
	// Defaults to 5s.
	StorageTimeout time.Duration
}

// batchWriter is the narrow interface NewAsyncWriter buffers in front of: a
// single call that accepts an entire batch at once, as opposed to Storage's
// per-call variadic Store.
type batchWriter interface {
	StoreBatch(ctx context.Context, events []Event) error
}

type writeRequest struct {
	ctx    context.Context
	events []Event
}

// asyncWriter implements Storage over a batchWriter, batching Store calls in
// the background so callers never wait on the underlying write.
type asyncWriter struct {
	batchWriter batchWriter
	options     AsyncOptions
	eventChan   chan writeRequest
	done        chan struct{}
	closeOnce   sync.Once
	wg          sync.WaitGroup
}

// NewAsyncWriter wraps bw so Store calls return immediately while events are
// batched and flushed in the background. When the internal buffer is full,
// Store falls back to a synchronous call into bw rather than dropping the
// event. The returned close function stops the background worker, flushing
// whatever is still pending, and should be called during shutdown.
func NewAsyncWriter(bw batchWriter, opts AsyncOptions) (*asyncWriter, func(context.Context) error) {
	if bw == nil {
		panic("audit: batch writer cannot be nil")
	}

	if opts.BufferSize == 0 {
		opts.BufferSize = 1000
	}
	if opts.BatchSize == 0 {
		opts.BatchSize = defaultBatchSize
	}
	if opts.BatchTimeout == 0 {
		opts.BatchTimeout = defaultBatchTimeout
	}
	if opts.StorageTimeout == 0 {
		opts.StorageTimeout = defaultStorageTimeout
	}

	aw := &asyncWriter{
		batchWriter: bw,
		options:     opts,
		eventChan:   make(chan writeRequest, opts.BufferSize),
		done:        make(chan struct{}),
	}

	aw.wg.Add(1)
	go aw.worker()

	return aw, aw.Close
}

// Store enqueues events for background batching. It only blocks when the
// internal buffer is full, in which case it writes through to bw directly.
func (aw *asyncWriter) Store(ctx context.Context, events ...Event) error {
	select {
	case aw.eventChan <- writeRequest{ctx: ctx, events: events}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-aw.done:
		return ErrStorageNotAvailable
	default:
		return aw.batchWriter.StoreBatch(ctx, events)
	}
}

// Query is not supported by the async writer; the batch writer this wraps
// is write-only by design (see batchWriter's single StoreBatch method).
func (aw *asyncWriter) Query(ctx context.Context, criteria Criteria) ([]Event, error) {
	return nil, ErrStorageNotAvailable
}

func (aw *asyncWriter) worker() {
	defer aw.wg.Done()

	batch := make([]Event, 0, aw.options.BatchSize)
	ticker := time.NewTicker(aw.options.BatchTimeout)
	defer ticker.Stop()

	flush := func() {
		if len(batch) == 0 {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), aw.options.StorageTimeout)
		_ = aw.batchWriter.StoreBatch(ctx, batch)
		cancel()
		batch = batch[:0]
	}

	for {
		select {
		case req := <-aw.eventChan:
			batch = append(batch, req.events...)
			if len(batch) >= aw.options.BatchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		case <-aw.done:
			for {
				select {
				case req := <-aw.eventChan:
					batch = append(batch, req.events...)
				default:
					flush()
					return
				}
			}
		}
	}
}

// Close stops the background worker, flushing any pending events first.
func (aw *asyncWriter) Close(ctx context.Context) error {
	aw.closeOnce.Do(func() {
		close(aw.done)
	})
	aw.wg.Wait()
	return nil
}
