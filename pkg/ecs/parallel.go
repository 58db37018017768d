package ecs

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

// DefaultBatchSize 并行遍历时每个任务处理的元素数量
const DefaultBatchSize = 512

// ParallelFor 将 [0, n) 按 batchSize 切分为连续区间并发执行 fn(start, end)
//
// 调用方负责保证各区间之间没有共享的可变状态：fn 只能修改
// 下标落在 [start, end) 内的数据。所有区间执行完毕后才返回。
// n 不超过一个批次时直接在当前 goroutine 内执行。
func ParallelFor(n, batchSize int, fn func(start, end int)) {
	if n <= 0 {
		return
	}
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	if n <= batchSize {
		fn(0, n)
		return
	}

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for start := 0; start < n; start += batchSize {
		end := min(start+batchSize, n)
		g.Go(func() error {
			fn(start, end)
			return nil
		})
	}
	_ = g.Wait()
}
