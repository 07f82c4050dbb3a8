package vec

// Pool хранит освобождённые *Vec3 для повторного использования.
// Пул не синхронизирован: он принадлежит одному потоку изменения мира.
type Pool struct {
	free      []*Vec3
	allocated int
}

// NewPool создаёт пустой пул
func NewPool() *Pool {
	return &Pool{}
}

// Get возвращает вектор из пула или выделяет новый.
// Nil-пул всегда выделяет новый вектор.
func (p *Pool) Get(x, y, z int) *Vec3 {
	if p == nil {
		return &Vec3{X: x, Y: y, Z: z}
	}

	n := len(p.free)
	if n == 0 {
		p.allocated++
		return &Vec3{X: x, Y: y, Z: z}
	}

	v := p.free[n-1]
	p.free[n-1] = nil
	p.free = p.free[:n-1]
	v.X, v.Y, v.Z = x, y, z
	return v
}

// Clone возвращает копию v из пула. Для nil возвращает nil.
func (p *Pool) Clone(v *Vec3) *Vec3 {
	if v == nil {
		return nil
	}
	return p.Get(v.X, v.Y, v.Z)
}

// Put возвращает вектор в пул. После Put вектор может быть выдан другому владельцу.
func (p *Pool) Put(v *Vec3) {
	if p == nil || v == nil {
		return
	}
	p.free = append(p.free, v)
}

// Available возвращает количество векторов, готовых к повторному использованию
func (p *Pool) Available() int {
	if p == nil {
		return 0
	}
	return len(p.free)
}

// Allocated возвращает количество векторов, когда-либо выделенных пулом
func (p *Pool) Allocated() int {
	if p == nil {
		return 0
	}
	return p.allocated
}
