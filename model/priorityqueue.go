package model

// Item 可放入优先队列的元素
type Item interface {
	Less(Item) bool
}

// PriorityQueue 最小堆，用于将多个有序数据源按时间顺序合并
// PriorityQueue is a binary min-heap of Items. It is not safe for concurrent use.
type PriorityQueue struct {
	data []Item
}

// NewPriorityQueue 用给定数据建堆
func NewPriorityQueue(data []Item) *PriorityQueue {
	q := &PriorityQueue{data: data}
	for i := len(q.data)>>1 - 1; i >= 0; i-- {
		q.down(i)
	}
	return q
}

// Push 插入元素并上浮到合适的位置
func (q *PriorityQueue) Push(item Item) {
	q.data = append(q.data, item)
	q.up(len(q.data) - 1)
}

// Pop removes and returns the smallest item, nil when empty
func (q *PriorityQueue) Pop() Item {
	if len(q.data) == 0 {
		return nil
	}
	top := q.data[0]
	last := len(q.data) - 1
	q.data[0] = q.data[last]
	q.data[last] = nil
	q.data = q.data[:last]
	if len(q.data) > 0 {
		q.down(0)
	}
	return top
}

// Peek returns the smallest item without removing it
func (q *PriorityQueue) Peek() Item {
	if len(q.data) == 0 {
		return nil
	}
	return q.data[0]
}

// Len 返回队列中元素的数量
func (q *PriorityQueue) Len() int {
	return len(q.data)
}

// down 将 pos 位置的元素下沉
func (q *PriorityQueue) down(pos int) {
	data := q.data
	length := len(data)
	item := data[pos]
	for {
		left := pos<<1 + 1
		if left >= length {
			break
		}
		best := left
		if right := left + 1; right < length && data[right].Less(data[left]) {
			best = right
		}
		if !data[best].Less(item) {
			break
		}
		data[pos] = data[best]
		pos = best
	}
	data[pos] = item
}

// up 将 pos 位置的元素上浮
func (q *PriorityQueue) up(pos int) {
	data := q.data
	item := data[pos]
	for pos > 0 {
		parent := (pos - 1) >> 1
		if !item.Less(data[parent]) {
			break
		}
		data[pos] = data[parent]
		pos = parent
	}
	data[pos] = item
}
