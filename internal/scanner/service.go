package scanner

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/rs/zerolog"

	"gocod/internal/model"
)

// ErrWorkerFailed 表示某个 worker 异常退出（panic 或未交付结果）。
var ErrWorkerFailed = errors.New("worker failed")

// FileAnalyzer 分析单个文件，实现必须可以被多个 goroutine 同时调用。
type FileAnalyzer interface {
	AnalyzeFile(path string) (*model.Stats, error)
}

// Service 是分析调度服务对象。
type Service struct {
	analyzer FileAnalyzer
	jobs     int
	logger   zerolog.Logger
}

// workerResult 表示 worker 的执行产物。
type workerResult struct {
	aggregate model.Aggregate
	err       error
}

// NewService 创建调度服务。jobs <= 0 时使用 CPU 核数。
func NewService(analyzer FileAnalyzer, jobs int, logger zerolog.Logger) *Service {
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	return &Service{
		analyzer: analyzer,
		jobs:     jobs,
		logger:   logger,
	}
}

// Jobs 返回实际使用的 worker 数。
func (s *Service) Jobs() int {
	return s.jobs
}

// Partition 把文件列表切成 n 个连续分片。
// 前 n-1 片长度均为 len/n，最后一片吸收余数；n < 1 时按 1 处理。
func Partition(files []string, n int) [][]string {
	if n < 1 {
		n = 1
	}
	size := len(files) / n
	chunks := make([][]string, 0, n)
	for i := 0; i < n-1; i++ {
		chunks = append(chunks, files[i*size:(i+1)*size])
	}
	return append(chunks, files[(n-1)*size:])
}

// Run 并发分析文件并返回合并后的聚合结果。
//
// 前 n-1 个分片各由一个 goroutine 处理，并通过各自的缓冲通道交付一次结果；
// 最后一个分片在调用方 goroutine 上处理。每个 worker 独占自己的 Aggregate，
// 只在这里做单线程合并，结果与分片方式无关。
func (s *Service) Run(ctx context.Context, files []string) (model.Aggregate, error) {
	start := time.Now()
	chunks := Partition(files, s.jobs)
	last := len(chunks) - 1

	channels := make([]chan workerResult, last)
	for i, chunk := range chunks[:last] {
		ch := make(chan workerResult, 1)
		channels[i] = ch
		go func() {
			ch <- s.runWorker(ctx, i, chunk)
		}()
	}

	merged := make(model.Aggregate)
	var errs []error

	own := s.runWorker(ctx, last, chunks[last])
	if own.err != nil {
		errs = append(errs, own.err)
	} else {
		merged.Merge(own.aggregate)
	}

	// 即使已有错误也要收齐所有通道，保证没有 goroutine 泄漏
	for i, ch := range channels {
		result, ok := <-ch
		if !ok {
			errs = append(errs, fmt.Errorf("%w: worker %d closed without result", ErrWorkerFailed, i))
			continue
		}
		if result.err != nil {
			errs = append(errs, result.err)
			continue
		}
		merged.Merge(result.aggregate)
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	s.logger.Debug().
		Int("files", len(files)).
		Int("jobs", len(chunks)).
		Int("languages", len(merged)).
		Dur("elapsed", time.Since(start)).
		Msg("analysis finished")
	return merged, nil
}

// runWorker 处理一个分片，并把 panic 转换为 ErrWorkerFailed。
func (s *Service) runWorker(ctx context.Context, id int, chunk []string) (result workerResult) {
	defer func() {
		if recovered := recover(); recovered != nil {
			result = workerResult{err: fmt.Errorf("%w: worker %d: %v", ErrWorkerFailed, id, recovered)}
		}
	}()

	aggregate := make(model.Aggregate)
	for _, path := range chunk {
		if err := ctx.Err(); err != nil {
			return workerResult{err: err}
		}

		stats, err := s.analyzer.AnalyzeFile(path)
		if err != nil {
			return workerResult{err: fmt.Errorf("worker %d: %w", id, err)}
		}
		if stats.Name == model.BinaryName {
			s.logger.Debug().Str("path", path).Msg("counted as binary")
		}
		aggregate.Add(stats)
	}

	s.logger.Debug().Int("worker", id).Int("files", len(chunk)).Msg("worker done")
	return workerResult{aggregate: aggregate}
}
