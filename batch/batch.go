// Package batch 提供批量编解码的并发执行层。
//
// 两种用法:
//   - Pool: 长驻 worker 池,持续投递解析任务,带运行时统计
//   - ParseAll/ValidateAll/MarshalAll: 一次性并发批处理,首错即取消
package batch

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	"golang.org/x/sync/errgroup"

	"github.com/uniyakcom/tact"
	"github.com/uniyakcom/tact/util"
)

// ─── 长驻池 ───

// Pool 长驻解析池。任务投给 goroutine 池执行,结果在 worker 上回调。
// 字段按大小降序排列,减少 padding。
type Pool struct {
	codec  *tact.Codec
	gp     *ants.Pool
	parsed *util.PerCPUCounter
	failed *util.PerCPUCounter
	wg     sync.WaitGroup
	closed atomic.Bool
}

// Stats 池的运行时统计。
type Stats struct {
	Parsed  int64
	Failed  int64
	Running int
}

// NewPool 创建解析池。size 为 worker 数量,非正值取 CPU 核数;
// codec 为 nil 时用包级默认配置。
func NewPool(codec *tact.Codec, size int) (*Pool, error) {
	if codec == nil {
		codec = tact.Default()
	}
	if size <= 0 {
		size = runtime.NumCPU()
	}
	gp, err := ants.NewPool(size, ants.WithPreAlloc(true))
	if err != nil {
		return nil, err
	}
	return &Pool{
		codec:  codec,
		gp:     gp,
		parsed: util.NewPerCPUCounter(),
		failed: util.NewPerCPUCounter(),
	}, nil
}

// Submit 投递一篇文档,解析完成后在 worker goroutine 上回调 fn。
// 产出的树与解析器状态互相独立,fn 可以带走保存。
// 池关闭后 Submit 返回 goroutine 池的拒绝错误。
func (p *Pool) Submit(doc string, fn func(v *tact.Value, err error)) error {
	p.wg.Add(1)
	if err := p.gp.Submit(func() {
		defer p.wg.Done()
		v, err := p.codec.Parse(doc)
		if err != nil {
			p.failed.Add(1)
		} else {
			p.parsed.Add(1)
		}
		fn(v, err)
	}); err != nil {
		p.wg.Done()
		return err
	}
	return nil
}

// Stats 返回累计解析量与在途 worker 数。
func (p *Pool) Stats() Stats {
	return Stats{
		Parsed:  p.parsed.Read(),
		Failed:  p.failed.Read(),
		Running: p.gp.Running(),
	}
}

// Tune 在线调整 worker 数量,非正值忽略。
func (p *Pool) Tune(size int) {
	if size > 0 {
		p.gp.Tune(size)
	}
}

// Release 等待全部已投递任务完成并关闭池。
func (p *Pool) Release() {
	if !p.closed.CompareAndSwap(false, true) {
		return // 已关闭
	}
	p.wg.Wait()
	p.gp.Release()
}

// Drain 优雅关闭(等待在途任务完成或超时)
func (p *Pool) Drain(timeout time.Duration) error {
	if timeout <= 0 {
		p.Release()
		return nil
	}
	done := make(chan struct{})
	go func() {
		p.Release()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-time.After(timeout):
		return fmt.Errorf("batch: graceful close timed out after %v", timeout)
	}
}

// ─── 一次性批处理 ───

// ParseAll 并发解析 docs 的每一篇,全部成功时返回对位的树。
// 任何一篇失败立即取消其余,返回带文档序号的首个错误。
func ParseAll(ctx context.Context, codec *tact.Codec, docs []string) ([]*tact.Value, error) {
	if codec == nil {
		codec = tact.Default()
	}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	out := make([]*tact.Value, len(docs))
	for i, doc := range docs {
		i, doc := i, doc
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			v, err := codec.Parse(doc)
			if err != nil {
				return fmt.Errorf("batch: document %d: %w", i, err)
			}
			out[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// ValidateAll 并发校验 docs,不建树。
// 首个畸形文档的错误带序号与精确位置,其余随即取消。
func ValidateAll(ctx context.Context, codec *tact.Codec, docs []string) error {
	if codec == nil {
		codec = tact.Default()
	}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, doc := range docs {
		i, doc := i, doc
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := codec.ParseWith(doc, tact.Discard); err != nil {
				return fmt.Errorf("batch: document %d: %w", i, err)
			}
			return nil
		})
	}
	return g.Wait()
}

// MarshalAll 并发编码 vals,全部成功时返回对位的编码。
func MarshalAll(ctx context.Context, codec *tact.Codec, vals []*tact.Value) ([][]byte, error) {
	if codec == nil {
		codec = tact.Default()
	}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	out := make([][]byte, len(vals))
	for i, v := range vals {
		i, v := i, v
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			data, err := codec.Marshal(v)
			if err != nil {
				return fmt.Errorf("batch: value %d: %w", i, err)
			}
			out[i] = data
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
