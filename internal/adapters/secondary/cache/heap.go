package cache

import "time"

// heapEntry tracks one cache key in the LRU heap
type heapEntry struct {
	key        string
	lastAccess time.Time
	index      int
}

// lruHeap is a min-heap on last access time; the root is evicted first
type lruHeap []*heapEntry

func (h lruHeap) Len() int { return len(h) }

func (h lruHeap) Less(i, j int) bool {
	return h[i].lastAccess.Before(h[j].lastAccess)
}

func (h lruHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *lruHeap) Push(x interface{}) {
	entry := x.(*heapEntry)
	entry.index = len(*h)
	*h = append(*h, entry)
}

func (h *lruHeap) Pop() interface{} {
	old := *h
	n := len(old)
	entry := old[n-1]
	old[n-1] = nil
	entry.index = -1
	*h = old[:n-1]
	return entry
}
