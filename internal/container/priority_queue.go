// Package container holds small generic data structures reused across the
// dispatcher.
package container

import "container/heap"

// item is a single element of the internal heap, carrying its priority and
// the index heap.Interface needs to maintain.
type item[T any] struct {
	Value    T
	Priority float64 // lower sorts first
	index    int
}

// priorityQueue implements heap.Interface over a slice of *item[T].
type priorityQueue[T any] []*item[T]

func (pq priorityQueue[T]) Len() int { return len(pq) }

// Less uses "<" so Pop returns the lowest-priority item (min-heap).
func (pq priorityQueue[T]) Less(i, j int) bool {
	return pq[i].Priority < pq[j].Priority
}

func (pq priorityQueue[T]) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].index = i
	pq[j].index = j
}

func (pq *priorityQueue[T]) Push(x any) {
	n := len(*pq)
	it := x.(*item[T])
	it.index = n
	*pq = append(*pq, it)
}

func (pq *priorityQueue[T]) Pop() any {
	old := *pq
	n := len(old)
	it := old[n-1]
	old[n-1] = nil
	it.index = -1
	*pq = old[0 : n-1]
	return it
}

// PriorityQueue is a min-heap over (value, priority) pairs. Callers that
// want max-priority-first semantics (e.g. the admission controller picking
// the highest-scoring candidate) push with Priority = -score.
type PriorityQueue[T any] struct {
	queue priorityQueue[T]
}

func NewPriorityQueue[T any]() *PriorityQueue[T] {
	return &PriorityQueue[T]{queue: make(priorityQueue[T], 0)}
}

func (q *PriorityQueue[T]) Len() int {
	return len(q.queue)
}

// HeapPush adds value to the queue, maintaining the heap invariant.
func (q *PriorityQueue[T]) HeapPush(value T, priority float64) {
	heap.Push(&q.queue, &item[T]{
		Value:    value,
		Priority: priority,
	})
}

// HeapPop removes and returns the lowest-priority element.
func (q *PriorityQueue[T]) HeapPop() (value T, priority float64) {
	it := heap.Pop(&q.queue).(*item[T])
	return it.Value, it.Priority
}
