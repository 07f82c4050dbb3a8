package lighting

import (
	"time"

	"github.com/annel0/voxel-light/internal/vec"
	"github.com/annel0/voxel-light/internal/world"
)

// Unpropagate снимает свет, зависевший от клеток очереди rq.
//
// Для каждой извлечённой клетки каналы из маски обнуляются, собственные
// источники клетки (свечение блока, открытое небо) записываются обратно.
// Сосед, чей уровень в точности равен ослабленному прежнему уровню клетки,
// обнуляется и ставится в rq; сосед с независимым источником или более ярким
// светом попадает в aq. После Unpropagate вызывающий запускает Propagate(aq).
func (e *Engine) Unpropagate(rq *LightRemovalNodeQueue, aq *LightNodeQueue) PassStats {
	var st PassStats
	if rq == nil || aq == nil {
		e.programmerError("Unpropagate: nil queue (removal=%v, add=%v)", rq == nil, aq == nil)
		return st
	}

	start := time.Now()
	for {
		n, ref, ok := rq.Pop()
		if !ok {
			break
		}
		rq.Recycle(ref)
		st.Pops++

		if n.Chunk == nil {
			e.programmerError("Unpropagate: node without chunk at %v", n.Pos)
			continue
		}
		e.clearOwn(aq, n, &st)
		e.retract(rq, aq, n, &st)
	}

	e.metrics.observeUnpropagate(st, time.Since(start))
	e.observePools()
	e.reportDropped("Unpropagate", st)
	e.log.Trace("Unpropagate: pops=%d clears=%d reseeds=%d dropped=%d", st.Pops, st.Clears, st.Reseeds, st.Dropped)
	return st
}

// clearOwn обнуляет каналы маски в самой клетке и возвращает ей собственные источники
func (e *Engine) clearOwn(aq *LightNodeQueue, n LightRemovalNode, st *PassStats) {
	cur := n.Chunk.Light(n.Pos)
	next := cur
	restored := false

	for _, ch := range world.Channels {
		if !n.Mask.Has(ch) {
			continue
		}
		if next.Get(ch) > 0 {
			st.Clears++
		}
		src := e.sourceLevel(n.Chunk, n.Pos, ch)
		next = next.With(ch, src)
		if src > 0 {
			restored = true
		}
	}
	if next != cur {
		n.Chunk.SetLight(n.Pos, next)
	}

	if restored {
		if aq.Push(n.Chunk, n.Pos) {
			st.Reseeds++
		} else {
			st.Dropped++
		}
	}
}

// retract обходит соседей клетки n и решает для каждого канала маски:
// снять свет (он пришёл от n) или оставить и распространить заново.
func (e *Engine) retract(rq *LightRemovalNodeQueue, aq *LightNodeQueue, n LightRemovalNode, st *PassStats) {
	for _, f := range vec.Faces {
		nc, npos, ok := n.Chunk.Resolve(n.Pos, f)
		if !ok {
			continue
		}
		nb := nc.BlockAt(npos)
		nv := nc.Light(npos)
		if nv == 0 {
			continue
		}

		var remove world.ChannelMask
		reseed := false
		for _, ch := range world.Channels {
			if !n.Mask.Has(ch) {
				continue
			}
			level := nv.Get(ch)
			if level == 0 {
				continue
			}
			if e.sourceLevel(nc, npos, ch) >= level {
				reseed = true
				continue
			}
			expected, ok := e.attenuate(n.Prior.Get(ch), ch, f, nb)
			if ok && level == expected {
				remove |= world.MaskOf(ch)
			} else {
				reseed = true
			}
		}

		if remove != 0 {
			if rq.Push(nc, npos, nv, remove, NoSource) {
				var kept world.LightValue
				for _, ch := range world.Channels {
					if remove.Has(ch) {
						st.Clears++
					} else {
						kept = kept.With(ch, nv.Get(ch))
					}
				}
				nc.SetLight(npos, kept)
			} else {
				st.Dropped++
			}
		}
		if reseed {
			if aq.Push(nc, npos) {
				st.Reseeds++
			} else {
				st.Dropped++
			}
		}
	}
}
