/**
 *
 * 利用数组实现双端队列，温度场推送时保存最近的若干个时间步
 * 元素为 model.Frame，温度数组在创建时一次性分配，之后复用，不再产生新的分配
 *
 */

package deque

import "heat1d/model"

type Deque interface {
	// 队列的长度
	Size() int

	// 容量
	Capacity() int

	// 获取队列中对应下标的时间步（复制）
	Get(i int) model.Frame

	// 正向遍历，f 中的 frame 仅在回调期间有效
	Traverse(f func(i int, frame *model.Frame))

	// 在队列结尾增加一个元素，队列满时返回 false
	AddLast(frame model.Frame) bool

	// 在队列结尾删除一个元素
	RemoveLast()

	// 在队列头部增加一个元素，队列满时返回 false
	AddFirst(frame model.Frame) bool

	// 在队列头部删除一个元素
	RemoveFirst()

	IsFull() bool

	IsEmpty() bool
}
