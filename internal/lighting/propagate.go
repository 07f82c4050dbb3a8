package lighting

import (
	"time"

	"github.com/annel0/voxel-light/internal/vec"
	"github.com/annel0/voxel-light/internal/world"
)

// Propagate распространяет свет из клеток очереди q, пока очередь не опустеет.
//
// Каждая клетка в q уже хранит своё значение. Для каждой грани и канала
// сосед получает ослабленный уровень, если он строго выше сохранённого;
// изменённый сосед добавляется в очередь один раз. Каждая запись строго
// повышает уровень канала, поэтому проход конечен.
func (e *Engine) Propagate(q *LightNodeQueue) PassStats {
	var st PassStats
	if q == nil {
		e.programmerError("Propagate: nil queue")
		return st
	}

	start := time.Now()
	for {
		n, ref, ok := q.Pop()
		if !ok {
			break
		}
		q.Recycle(ref)
		st.Pops++

		if n.Chunk == nil {
			e.programmerError("Propagate: node without chunk at %v", n.Pos)
			continue
		}
		e.relax(q, n.Chunk, n.Pos, &st)
	}

	e.metrics.observePropagate(st, time.Since(start))
	e.observePools()
	e.reportDropped("Propagate", st)
	e.log.Trace("Propagate: pops=%d writes=%d pushes=%d dropped=%d", st.Pops, st.Writes, st.Pushes, st.Dropped)
	return st
}

// relax передаёт свет клетки pos шести соседям
func (e *Engine) relax(q *LightNodeQueue, c *world.Chunk, pos vec.Vec3, st *PassStats) {
	v := c.Light(pos)
	if v == 0 {
		return
	}

	for _, f := range vec.Faces {
		nc, npos, ok := c.Resolve(pos, f)
		if !ok {
			continue
		}
		nb := nc.BlockAt(npos)
		cur := nc.Light(npos)
		next := cur
		raised := 0

		for _, ch := range world.Channels {
			level := v.Get(ch)
			if level <= 1 {
				continue
			}
			cand, ok := e.attenuate(level, ch, f, nb)
			if !ok || cand <= next.Get(ch) {
				continue
			}
			next = next.With(ch, cand)
			raised++
		}
		if raised == 0 {
			continue
		}

		if !q.Push(nc, npos) {
			st.Dropped++
			continue
		}
		nc.SetLight(npos, next)
		st.Writes += raised
		st.Pushes++
	}
}
