package systems

import (
	"math/rand/v2"
	"sync"
)

// workerScratch holds per-worker reusable buffers.
type workerScratch struct {
	Cells   []int      // Neighbour cell ids of the current subject
	Src     *rand.PCG  // Reseeded per coincident pair
	Rand    *rand.Rand // Wraps Src
	Bounces int        // Wall collisions counted during integration
}

// chunkFunc processes the half-open range [start, end) of some phase domain.
type chunkFunc func(start, end int, scratch *workerScratch)

// workChunk represents a range of work for a worker to process.
type workChunk struct {
	start, end int
	fn         chunkFunc
}

// workerPool is a fixed set of persistent goroutines. Each call to run is a
// full barrier: it returns only after every dispatched chunk is done.
type workerPool struct {
	scratches  []workerScratch
	numWorkers int

	// Worker pool channels
	workChan chan workChunk // sends work to workers
	doneChan chan struct{}  // workers signal completion
	stopChan chan struct{}  // signals workers to exit
	wg       sync.WaitGroup // tracks active workers
	running  bool           // true if workers are running
}

func newWorkerPool(numWorkers int) *workerPool {
	scratches := make([]workerScratch, numWorkers)
	for i := range scratches {
		src := rand.NewPCG(0, 0)
		scratches[i] = workerScratch{
			Cells: make([]int, 0, 9),
			Src:   src,
			Rand:  rand.New(src),
		}
	}
	return &workerPool{
		numWorkers: numWorkers,
		scratches:  scratches,
	}
}

// start launches persistent worker goroutines.
func (p *workerPool) start() {
	if p.running {
		return
	}

	p.workChan = make(chan workChunk, p.numWorkers)
	p.doneChan = make(chan struct{}, p.numWorkers)
	p.stopChan = make(chan struct{})
	p.running = true

	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
}

// stop signals all workers to exit and waits for them.
func (p *workerPool) stop() {
	if !p.running {
		return
	}

	close(p.stopChan)
	p.wg.Wait()
	close(p.workChan)
	close(p.doneChan)
	p.running = false
}

// worker runs in a goroutine, processing chunks until stopped.
func (p *workerPool) worker(workerID int) {
	defer p.wg.Done()
	scratch := &p.scratches[workerID]

	for {
		select {
		case <-p.stopChan:
			return
		case chunk, ok := <-p.workChan:
			if !ok {
				return
			}
			chunk.fn(chunk.start, chunk.end, scratch)
			p.doneChan <- struct{}{}
		}
	}
}

// run partitions [0, n) into one contiguous slice per worker and blocks until
// all of them are processed. With inline set, the whole range runs on the
// calling goroutine using the first scratch.
func (p *workerPool) run(n int, inline bool, fn chunkFunc) {
	if n <= 0 {
		return
	}
	if inline || p.numWorkers == 1 {
		fn(0, n, &p.scratches[0])
		return
	}

	if !p.running {
		p.start()
	}

	chunksDispatched := 0
	for w := 0; w < p.numWorkers; w++ {
		start := w * n / p.numWorkers
		end := (w + 1) * n / p.numWorkers
		if start >= end {
			continue
		}
		p.workChan <- workChunk{start: start, end: end, fn: fn}
		chunksDispatched++
	}

	// Wait for all chunks to complete
	for i := 0; i < chunksDispatched; i++ {
		<-p.doneChan
	}
}

// resetBounces clears the per-worker collision counters.
func (p *workerPool) resetBounces() {
	for i := range p.scratches {
		p.scratches[i].Bounces = 0
	}
}

// bounces sums the per-worker collision counters.
func (p *workerPool) bounces() int {
	total := 0
	for i := range p.scratches {
		total += p.scratches[i].Bounces
	}
	return total
}
