// Package lighting реализует инкрементальное освещение воксельного мира:
// распространение света (Propagate) и его удаление (Unpropagate) поиском
// в ширину по клеткам чанков, включая переходы через границы чанков.
//
// Движок не потокобезопасен: все проходы выполняются синхронно в одном
// потоке изменения мира.
package lighting

import (
	"fmt"

	"github.com/annel0/voxel-light/internal/config"
	"github.com/annel0/voxel-light/internal/logging"
	"github.com/annel0/voxel-light/internal/vec"
	"github.com/annel0/voxel-light/internal/world"
	"github.com/annel0/voxel-light/internal/world/block"
)

// Options задаёт настройки движка освещения
type Options struct {
	Policy                block.CasterPolicy // Как твёрдые блоки задерживают свет
	SunlightVerticalDecay bool               // Ослабляется ли полный солнечный свет при падении вниз
	TransparentPenalty    uint8              // Дополнительное ослабление цвета при входе в прозрачный блок
	SoftNodeLimit         int                // Порог предупреждения по живым узлам пула (0 отключает)
	MaxNodes              int                // Жёсткий предел узлов в пуле (0 без предела)

	Metrics *Metrics        // Метрики Prometheus (nil отключает)
	Logger  *logging.Logger // Логгер (nil: логгер компонента lighting)
}

// DefaultOptions возвращает настройки по умолчанию
func DefaultOptions() Options {
	return Options{
		Policy:             block.CasterPolicyOpaque,
		TransparentPenalty: 1,
		SoftNodeLimit:      1 << 16,
	}
}

// OptionsFromConfig переводит секцию lighting конфигурации в настройки движка
func OptionsFromConfig(cfg config.LightingConfig) (Options, error) {
	policy, err := block.ParseCasterPolicy(cfg.CasterPolicy)
	if err != nil {
		return Options{}, fmt.Errorf("lighting config: %w", err)
	}
	if cfg.TransparentPenalty < 0 || cfg.TransparentPenalty > world.MaxLight {
		return Options{}, fmt.Errorf("lighting config: transparent_penalty %d out of range 0..%d", cfg.TransparentPenalty, world.MaxLight)
	}
	if cfg.SoftNodeLimit < 0 || cfg.MaxNodes < 0 {
		return Options{}, fmt.Errorf("lighting config: node limits must not be negative")
	}

	opts := DefaultOptions()
	opts.Policy = policy
	opts.SunlightVerticalDecay = cfg.SunlightVerticalDecay
	opts.TransparentPenalty = uint8(cfg.TransparentPenalty)
	opts.SoftNodeLimit = cfg.SoftNodeLimit
	opts.MaxNodes = cfg.MaxNodes
	return opts, nil
}

// PassStats собирает счётчики одного или нескольких проходов
type PassStats struct {
	Pops    int // Извлечено узлов
	Pushes  int // Добавлено узлов распространения
	Writes  int // Повышений уровня канала
	Clears  int // Обнулений канала
	Reseeds int // Клеток, отданных независимым источникам
	Dropped int // Шагов, пропущенных из-за исчерпания пула
}

// Add суммирует счётчики
func (s *PassStats) Add(o PassStats) {
	s.Pops += o.Pops
	s.Pushes += o.Pushes
	s.Writes += o.Writes
	s.Clears += o.Clears
	s.Reseeds += o.Reseeds
	s.Dropped += o.Dropped
}

// Engine пересчитывает освещение мира. Владеет пулами узлов обоих типов и
// рабочими очередями для ApplyEdit, LightNewChunk, UnlinkChunk, RelightChunk и Recompute.
type Engine struct {
	palette block.Palette
	opts    Options

	nodes    *NodePool[LightNode]
	removals *NodePool[LightRemovalNode]

	addQueue    *LightNodeQueue
	removeQueue *LightRemovalNodeQueue

	metrics *Metrics
	log     *logging.Logger
}

// NewEngine создаёт движок с палитрой p (nil: все твёрдые блоки непрозрачны и не светятся)
func NewEngine(p block.Palette, opts Options) *Engine {
	log := opts.Logger
	if log == nil {
		log = logging.GetLightingLogger()
	}

	e := &Engine{
		palette:  p,
		opts:     opts,
		nodes:    NewNodePool[LightNode]("add", opts.SoftNodeLimit, opts.MaxNodes, log),
		removals: NewNodePool[LightRemovalNode]("remove", opts.SoftNodeLimit, opts.MaxNodes, log),
		metrics:  opts.Metrics,
		log:      log,
	}
	e.addQueue = NewLightNodeQueue(e.nodes)
	e.removeQueue = NewLightRemovalNodeQueue(e.removals)
	return e
}

// Options возвращает настройки движка
func (e *Engine) Options() Options {
	return e.opts
}

// Palette возвращает палитру движка
func (e *Engine) Palette() block.Palette {
	return e.palette
}

// NewNodeQueue создаёт очередь распространения поверх пула движка
func (e *Engine) NewNodeQueue() *LightNodeQueue {
	return NewLightNodeQueue(e.nodes)
}

// NewRemovalQueue создаёт очередь удаления поверх пула движка
func (e *Engine) NewRemovalQueue() *LightRemovalNodeQueue {
	return NewLightRemovalNodeQueue(e.removals)
}

// NodePool возвращает пул узлов распространения
func (e *Engine) NodePool() *NodePool[LightNode] {
	return e.nodes
}

// RemovalPool возвращает пул узлов удаления
func (e *Engine) RemovalPool() *NodePool[LightRemovalNode] {
	return e.removals
}

// passes проверяет, пропускает ли блок канал
func (e *Engine) passes(ch world.Channel, b *block.Block) bool {
	if !b.IsLightCaster(e.palette, e.opts.Policy) {
		return false
	}
	return ch != world.ChannelAmbient || !b.IsAOCaster(e.palette, e.opts.Policy)
}

// attenuate возвращает уровень, который получит соседняя клетка с блоком target,
// если свет уровня level идёт в неё через грань f. ok == false, если канал заблокирован.
func (e *Engine) attenuate(level uint8, ch world.Channel, f vec.Face, target *block.Block) (uint8, bool) {
	if !e.passes(ch, target) {
		return 0, false
	}

	step := uint8(1)
	if ch == world.ChannelAmbient {
		if f == vec.FaceDown && level == world.MaxLight && !e.opts.SunlightVerticalDecay {
			step = 0
		}
	} else if target.IsTransparent(e.palette) {
		step += e.opts.TransparentPenalty
	}

	if level <= step {
		return 0, true
	}
	return level - step, true
}

// sourceLevel возвращает собственный уровень клетки в канале:
// свечение блока для цветных каналов и полный солнечный свет для
// верхнего слоя чанка, над которым нет связанного соседа.
func (e *Engine) sourceLevel(c *world.Chunk, pos vec.Vec3, ch world.Channel) uint8 {
	b := c.BlockAt(pos)
	if ch == world.ChannelAmbient {
		if pos.Y == world.ChunkSize-1 && !c.HasNeighbor(vec.FaceTop) && e.passes(ch, b) {
			return world.MaxLight
		}
		return 0
	}
	return b.Emission(e.palette)[ch-world.ChannelRed]
}

// intrinsic собирает собственные уровни клетки по всем каналам
func (e *Engine) intrinsic(c *world.Chunk, pos vec.Vec3) world.LightValue {
	var v world.LightValue
	for _, ch := range world.Channels {
		v = v.With(ch, e.sourceLevel(c, pos, ch))
	}
	return v
}

// raiseToIntrinsic поднимает каналы клетки до её собственных уровней.
// Возвращает true, если значение изменилось.
func (e *Engine) raiseToIntrinsic(c *world.Chunk, pos vec.Vec3) bool {
	cur := c.Light(pos)
	next := cur
	for _, ch := range world.Channels {
		if src := e.sourceLevel(c, pos, ch); src > next.Get(ch) {
			next = next.With(ch, src)
		}
	}
	if next == cur {
		return false
	}
	c.SetLight(pos, next)
	return true
}

// observePools публикует состояние пулов в метрики
func (e *Engine) observePools() {
	e.metrics.observePool(e.nodes.Name(), e.nodes.Allocated(), e.nodes.Live(), e.nodes.Peak())
	e.metrics.observePool(e.removals.Name(), e.removals.Allocated(), e.removals.Live(), e.removals.Peak())
}

// reportDropped пишет предупреждение, если проход пропускал шаги
func (e *Engine) reportDropped(pass string, st PassStats) {
	if st.Dropped > 0 {
		e.log.Warn("⚠️ %s: пропущено %d шагов, пул исчерпан (предел %d узлов); освещение неполное до RelightChunk",
			pass, st.Dropped, e.opts.MaxNodes)
	}
}
