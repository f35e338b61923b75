package deque

import (
	"heat1d/model"
)

type ArrDeque struct {
	arr ArrType

	// 第一个元素的位置
	start int
	// 元素个数
	size int
	// 容量
	capacity int
}

type ArrType []model.Frame

// 工厂方法，width 为每个温度场的节点数，用于预分配
func NewArrDeque(capacity, width int) *ArrDeque {
	if capacity < 1 {
		capacity = 1
	}
	arr := make(ArrType, capacity)
	for i := range arr {
		arr[i].Temperatures = make([]float64, 0, width)
	}
	return &ArrDeque{
		arr:      arr,
		capacity: capacity,
	}
}

func (ad *ArrDeque) Size() int {
	return ad.size
}

func (ad *ArrDeque) Capacity() int {
	return ad.capacity
}

func (ad *ArrDeque) index(i int) int {
	return (ad.start + i) % ad.capacity
}

func (ad *ArrDeque) Get(i int) model.Frame {
	if i < 0 || i >= ad.size {
		panic("index out of length")
	}
	item := ad.arr[ad.index(i)]
	temps := make([]float64, len(item.Temperatures))
	copy(temps, item.Temperatures)
	item.Temperatures = temps
	return item
}

func (ad *ArrDeque) Traverse(f func(i int, frame *model.Frame)) {
	for i := 0; i < ad.size; i++ {
		f(i, &ad.arr[ad.index(i)])
	}
}

func (ad *ArrDeque) AddLast(frame model.Frame) bool {
	if ad.IsFull() {
		return false
	}
	setVal(&ad.arr[ad.index(ad.size)], frame)
	ad.size++
	return true
}

func (ad *ArrDeque) RemoveLast() {
	if ad.IsEmpty() {
		return
	}
	ad.size--
}

func (ad *ArrDeque) AddFirst(frame model.Frame) bool {
	if ad.IsFull() {
		return false
	}
	ad.start = (ad.start - 1 + ad.capacity) % ad.capacity
	setVal(&ad.arr[ad.start], frame)
	ad.size++
	return true
}

func (ad *ArrDeque) RemoveFirst() {
	if ad.IsEmpty() {
		return
	}
	ad.start = (ad.start + 1) % ad.capacity
	ad.size--
	if ad.size == 0 {
		ad.start = 0
	}
}

func (ad *ArrDeque) IsFull() bool {
	return ad.size == ad.capacity
}

func (ad *ArrDeque) IsEmpty() bool {
	return ad.size == 0
}

// 复用槽位中的温度数组
func setVal(item *model.Frame, frame model.Frame) {
	item.Step = frame.Step
	item.Time = frame.Time
	item.Temperatures = append(item.Temperatures[:0], frame.Temperatures...)
}
