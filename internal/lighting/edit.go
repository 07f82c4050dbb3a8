package lighting

import (
	"github.com/annel0/voxel-light/internal/vec"
	"github.com/annel0/voxel-light/internal/world"
)

// ApplyEdit обновляет освещение после уже применённого изменения блока.
//
// Свет редактируемой клетки снимается по всем ненулевым каналам, шесть
// соседей ставятся в очередь распространения, затем клетка получает свои
// новые источники и свет распространяется заново.
func (e *Engine) ApplyEdit(edit world.BlockEdit) PassStats {
	var st PassStats
	if edit.Chunk == nil {
		e.programmerError("ApplyEdit: edit without chunk at %v", edit.Pos)
		return st
	}
	if edit.Kind == world.EditNone {
		return st
	}
	if !world.InBounds(edit.Pos) {
		e.programmerError("ApplyEdit: position %v outside chunk", edit.Pos)
		return st
	}

	c, pos := edit.Chunk, edit.Pos
	if cur := c.Light(pos); cur != 0 {
		source := NoSource
		if edit.Before.IsLightSource(e.palette) {
			source = edit.Before.ColorIndex()
		}
		if !e.removeQueue.Push(c, pos, cur, cur.NonZero(), source) {
			st.Dropped++
		}
	}
	e.pushNeighbors(c, pos, &st)

	st.Add(e.Unpropagate(e.removeQueue, e.addQueue))

	if e.raiseToIntrinsic(c, pos) {
		if e.addQueue.Push(c, pos) {
			st.Pushes++
		} else {
			st.Dropped++
		}
	}
	st.Add(e.Propagate(e.addQueue))

	e.log.Trace("ApplyEdit %s %v в чанке %v: writes=%d clears=%d", edit.Kind, pos, c.Coords, st.Writes, st.Clears)
	return st
}

// pushNeighbors ставит освещённых соседей клетки в очередь распространения
func (e *Engine) pushNeighbors(c *world.Chunk, pos vec.Vec3, st *PassStats) {
	for _, f := range vec.Faces {
		nc, npos, ok := c.Resolve(pos, f)
		if !ok || nc.Light(npos) == 0 {
			continue
		}
		if e.addQueue.Push(nc, npos) {
			st.Pushes++
		} else {
			st.Dropped++
		}
	}
}

// seedSources записывает собственные источники всех клеток чанка и ставит их в очередь
func (e *Engine) seedSources(c *world.Chunk, st *PassStats) {
	world.ForEachLocal(func(p vec.Vec3) {
		if !e.raiseToIntrinsic(c, p) {
			return
		}
		if e.addQueue.Push(c, p) {
			st.Pushes++
		} else {
			st.Dropped++
		}
	})
}

// seedInflow ставит в очередь освещённые клетки соседа n, обращённые к грани f чанка-приёмника
func (e *Engine) seedInflow(n *world.Chunk, f vec.Face, st *PassStats) {
	world.ForEachOnFace(f.Opposite(), func(p vec.Vec3) {
		if n.Light(p) == 0 {
			return
		}
		if e.addQueue.Push(n, p) {
			st.Pushes++
		} else {
			st.Dropped++
		}
	})
}

// LightNewChunk освещает только что связанный с соседями чанк c.
//
// Чанк получает свои источники и свет соседей через общие грани. Если под c
// есть чанк, его верхний слой больше не видит неба: солнечный свет этого
// слоя снимается и восстанавливается уже из c.
func (e *Engine) LightNewChunk(c *world.Chunk) PassStats {
	var st PassStats
	if c == nil {
		e.programmerError("LightNewChunk: nil chunk")
		return st
	}

	c.ClearLight()
	e.seedSources(c, &st)

	if below := c.Neighbor(vec.FaceDown); below != nil {
		world.ForEachOnFace(vec.FaceTop, func(p vec.Vec3) {
			v := below.Light(p)
			if v.Get(world.ChannelAmbient) == 0 {
				return
			}
			if !e.removeQueue.Push(below, p, v, world.MaskOf(world.ChannelAmbient), NoSource) {
				st.Dropped++
			}
		})
	}

	for _, f := range vec.Faces {
		if n := c.Neighbor(f); n != nil {
			e.seedInflow(n, f, &st)
		}
	}

	st.Add(e.Unpropagate(e.removeQueue, e.addQueue))
	st.Add(e.Propagate(e.addQueue))

	e.log.Debug("💡 Освещён чанк %v: writes=%d clears=%d", c.Coords, st.Writes, st.Clears)
	return st
}

// RelightChunk пересчитывает освещение чанка c: снимает весь его свет
// (вместе с тем, что он отдал соседям) и распространяет заново.
// Используется для восстановления после пропущенных шагов.
func (e *Engine) RelightChunk(c *world.Chunk) PassStats {
	if c == nil {
		e.programmerError("RelightChunk: nil chunk")
		return PassStats{}
	}

	st := e.relight([]*world.Chunk{c})
	e.log.Debug("🔁 Пересчитан чанк %v: writes=%d clears=%d", c.Coords, st.Writes, st.Clears)
	return st
}

// UnlinkChunk обновляет освещение после выгрузки чанка removed.
// former — его соседи до выгрузки в порядке граней (как возвращает
// World.RemoveChunk). Свет, пришедший из выгруженного чанка, снимается,
// а верхний слой чанка под ним снова получает открытое небо.
func (e *Engine) UnlinkChunk(removed *world.Chunk, former [vec.FaceCount]*world.Chunk) PassStats {
	if removed == nil {
		e.programmerError("UnlinkChunk: nil chunk")
		return PassStats{}
	}

	var set []*world.Chunk
	for _, n := range former {
		if n != nil && n != removed {
			set = append(set, n)
		}
	}
	removed.ClearLight()

	st := e.relight(set)
	e.log.Debug("🌑 Выгружен чанк %v: пересчитано соседей %d, clears=%d", removed.Coords, len(set), st.Clears)
	return st
}

// relight снимает весь свет набора чанков одной волной удаления,
// затем записывает их источники и свет, входящий из чанков вне набора.
func (e *Engine) relight(chunks []*world.Chunk) PassStats {
	var st PassStats

	set := make(map[*world.Chunk]struct{}, len(chunks))
	for _, c := range chunks {
		set[c] = struct{}{}
		world.ForEachLocal(func(p vec.Vec3) {
			v := c.Light(p)
			if v == 0 {
				return
			}
			if !e.removeQueue.Push(c, p, v, v.NonZero(), NoSource) {
				st.Dropped++
			}
		})
	}
	st.Add(e.Unpropagate(e.removeQueue, e.addQueue))

	for _, c := range chunks {
		e.seedSources(c, &st)
		for _, f := range vec.Faces {
			n := c.Neighbor(f)
			if n == nil {
				continue
			}
			if _, inside := set[n]; !inside {
				e.seedInflow(n, f, &st)
			}
		}
	}
	st.Add(e.Propagate(e.addQueue))
	return st
}

// Recompute вычисляет освещение набора чанков с нуля: обнуляет его,
// записывает все источники и свет, входящий из связанных чанков вне набора,
// и распространяет. Служит эталоном для инкрементальных проходов.
func (e *Engine) Recompute(chunks []*world.Chunk) PassStats {
	var st PassStats

	set := make(map[*world.Chunk]struct{}, len(chunks))
	for _, c := range chunks {
		if c == nil {
			e.programmerError("Recompute: nil chunk in set")
			continue
		}
		set[c] = struct{}{}
		c.ClearLight()
	}

	for c := range set {
		e.seedSources(c, &st)
		for _, f := range vec.Faces {
			n := c.Neighbor(f)
			if n == nil {
				continue
			}
			if _, inside := set[n]; !inside {
				e.seedInflow(n, f, &st)
			}
		}
	}

	st.Add(e.Propagate(e.addQueue))

	e.log.Debug("🔆 Пересчитано %d чанков: writes=%d pushes=%d", len(set), st.Writes, st.Pushes)
	return st
}
