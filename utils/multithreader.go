package utils

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// MultiThread runs f for each integer in [start, end), spread over goroutines. It returns once
// every call has finished.
//
// 'opsPerThread' is the number of values that each goroutine will handle before requesting
// another set; 'threadsPerCPU' is the number of goroutines created for each CPU. f is called
// concurrently, so it must only write to state owned by its index.
func MultiThread(start, end int, f func(int), opsPerThread, threadsPerCPU int) {
	if end <= start {
		return
	}
	if opsPerThread < 1 {
		opsPerThread = 1
	}
	if threadsPerCPU < 1 {
		threadsPerCPU = 1
	}

	numThreads := runtime.GOMAXPROCS(0) * threadsPerCPU
	if max := (end - start + opsPerThread - 1) / opsPerThread; numThreads > max {
		numThreads = max
	}

	next := int64(start)

	var wg sync.WaitGroup
	wg.Add(numThreads)
	for thread := 0; thread < numThreads; thread++ {
		go func() {
			defer wg.Done()

			for {
				i := int(atomic.AddInt64(&next, int64(opsPerThread))) - opsPerThread
				if i >= end {
					return
				}

				e := i + opsPerThread
				if e > end {
					e = end
				}

				for ; i < e; i++ {
					f(i)
				}
			}
		}()
	}

	wg.Wait()
}
