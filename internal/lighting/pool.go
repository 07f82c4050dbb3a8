package lighting

import (
	"github.com/annel0/voxel-light/internal/logging"
)

// NodeRef указывает на узел в арене пула. nilRef означает «нет узла».
type NodeRef int32

const nilRef NodeRef = -1

// NodePool хранит узлы очередей в арене и выдаёт их повторно.
//
// Узлы хранятся в одном растущем срезе, связь между ними задаётся
// параллельным срезом next. Каждый узел в любой момент принадлежит ровно
// одному списку: списку свободных узлов пула или одной из очередей,
// поэтому очереди одного пула делят общий срез next.
//
// Пул не потокобезопасен и принадлежит движку освещения.
type NodePool[T any] struct {
	name  string
	nodes []T
	next  []NodeRef
	freed []bool // Узел лежит в списке свободных
	free  NodeRef

	available int // Узлов в списке свободных
	peak      int // Максимум одновременно выданных узлов

	softLimit int  // Порог предупреждения (0 отключает)
	maxNodes  int  // Жёсткий предел размера арены (0 без предела)
	warned    bool // Предупреждение о мягком пределе уже выдано

	log *logging.Logger
}

// NewNodePool создаёт пустой пул.
// softLimit включает однократное предупреждение при превышении числа живых узлов,
// maxNodes ограничивает размер арены: при исчерпании acquire возвращает false.
func NewNodePool[T any](name string, softLimit, maxNodes int, log *logging.Logger) *NodePool[T] {
	return &NodePool[T]{
		name:      name,
		free:      nilRef,
		softLimit: softLimit,
		maxNodes:  maxNodes,
		log:       log,
	}
}

// Name возвращает имя пула
func (p *NodePool[T]) Name() string {
	return p.name
}

// acquire выдаёт узел: из списка свободных либо новый в конце арены
func (p *NodePool[T]) acquire() (NodeRef, bool) {
	var ref NodeRef
	if p.free != nilRef {
		ref = p.free
		p.free = p.next[ref]
		p.next[ref] = nilRef
		p.freed[ref] = false
		p.available--
	} else {
		if p.maxNodes > 0 && len(p.nodes) >= p.maxNodes {
			return nilRef, false
		}
		var zero T
		p.nodes = append(p.nodes, zero)
		p.next = append(p.next, nilRef)
		p.freed = append(p.freed, false)
		ref = NodeRef(len(p.nodes) - 1)
	}

	live := p.Live()
	if live > p.peak {
		p.peak = live
	}
	if p.softLimit > 0 && live > p.softLimit && !p.warned {
		p.warned = true
		p.log.Warn("⚠️ Пул %s превысил мягкий предел: %d живых узлов (предел %d)", p.name, live, p.softLimit)
	}
	return ref, true
}

// Recycle возвращает узел в список свободных.
// Узел не должен находиться ни в одной очереди. Повторный возврат
// того же узла игнорируется с записью ERROR.
func (p *NodePool[T]) Recycle(ref NodeRef) {
	if ref < 0 || int(ref) >= len(p.nodes) {
		return
	}
	if p.freed[ref] {
		p.log.Error("❌ Пул %s: узел %d возвращён повторно", p.name, ref)
		return
	}

	var zero T
	p.nodes[ref] = zero
	p.next[ref] = p.free
	p.freed[ref] = true
	p.free = ref
	p.available++

	if p.warned && p.Live() < p.softLimit/2 {
		p.warned = false
	}
}

// Allocated возвращает число узлов, когда-либо созданных в арене
func (p *NodePool[T]) Allocated() int {
	return len(p.nodes)
}

// Available возвращает число свободных узлов
func (p *NodePool[T]) Available() int {
	return p.available
}

// Live возвращает число выданных и ещё не возвращённых узлов
func (p *NodePool[T]) Live() int {
	return len(p.nodes) - p.available
}

// Peak возвращает максимальное число одновременно выданных узлов
func (p *NodePool[T]) Peak() int {
	return p.peak
}

// queue хранит LIFO-список узлов поверх пула (вставка в голову)
type queue[T any] struct {
	pool *NodePool[T]
	head NodeRef
	size int
}

func newQueue[T any](pool *NodePool[T]) queue[T] {
	return queue[T]{pool: pool, head: nilRef}
}

func (q *queue[T]) push(v T) bool {
	ref, ok := q.pool.acquire()
	if !ok {
		return false
	}
	q.pool.nodes[ref] = v
	q.pool.next[ref] = q.head
	q.head = ref
	q.size++
	return true
}

// pop отцепляет голову и возвращает копию узла вместе со ссылкой на него.
// Вызывающий обязан вернуть ссылку в пул через recycle.
func (q *queue[T]) pop() (T, NodeRef, bool) {
	if q.head == nilRef {
		var zero T
		return zero, nilRef, false
	}
	ref := q.head
	q.head = q.pool.next[ref]
	q.pool.next[ref] = nilRef
	q.size--
	return q.pool.nodes[ref], ref, true
}

// free возвращает в пул все оставшиеся узлы
func (q *queue[T]) free() {
	for q.head != nilRef {
		ref := q.head
		q.head = q.pool.next[ref]
		q.pool.Recycle(ref)
	}
	q.size = 0
}
