// Package bench реализует нагрузочный стенд движка освещения: генерирует мир,
// освещает его с нуля, применяет случайные правки и при необходимости
// сверяет результат с полным пересчётом и проверяет сохранение в хранилище.
package bench

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/annel0/voxel-light/internal/config"
	"github.com/annel0/voxel-light/internal/lighting"
	"github.com/annel0/voxel-light/internal/logging"
	"github.com/annel0/voxel-light/internal/observability"
	"github.com/annel0/voxel-light/internal/storage"
	"github.com/annel0/voxel-light/internal/vec"
	"github.com/annel0/voxel-light/internal/world"
	"github.com/annel0/voxel-light/internal/world/block"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shirou/gopsutil/v3/process"
	"go.opentelemetry.io/otel/attribute"
)

// Options задаёт параметры прогона
type Options struct {
	Seed    int64 // Сид генератора мира и правок
	Size    int   // Чанков по каждой оси
	Edits   int   // Число случайных правок
	Verify  bool  // Сверять с полным пересчётом после правок
	Persist bool  // Сохранять чанки и пересобирать мир из хранилища
}

// Report содержит итоги прогона
type Report struct {
	RunID  string
	Chunks int

	Initial        lighting.PassStats
	InitialTime    time.Duration
	Edits          lighting.PassStats
	EditCount      int
	EditTime       time.Duration
	Verified       bool
	Mismatches     int // Клеток, расходящихся с полным пересчётом (при Verify)
	Reloaded       int // Чанков, загруженных из хранилища (при Persist)
	ReloadDiff     int // Клеток, расходящихся после пересборки мира
	StoredChunks   int // Чанков в хранилище, включая прошлые прогоны
	StoredBytes    int64
	AddPoolPeak    int
	RemovePoolPeak int

	RSSBefore uint64
	RSSAfter  uint64
}

// editBlocks перечисляет блоки для случайных правок
var editBlocks = []block.Block{
	block.NewAirBlock(),
	block.NewAirBlock(),
	block.NewAirBlock(),
	block.NewColorBlock(block.ColorStone),
	block.NewColorBlock(block.ColorGlass),
	block.NewColorBlock(block.ColorRedLamp),
	block.NewColorBlock(block.ColorGreenLamp),
	block.NewColorBlock(block.ColorBlueLamp),
	block.NewColorBlock(block.ColorWhiteLamp),
	block.NewColorBlock(block.ColorAmberGlass),
}

// Run выполняет прогон. reg получает метрики движка (nil: без регистрации).
func Run(ctx context.Context, cfg *config.Config, opts Options, reg prometheus.Registerer) (*Report, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if opts.Size <= 0 {
		return nil, fmt.Errorf("размер мира должен быть положительным, получено %d", opts.Size)
	}

	log := logging.GetBenchLogger()
	report := &Report{
		RunID:     uuid.NewString(),
		RSSBefore: currentRSS(),
	}
	log.Info("🚀 Прогон %s: seed=%d size=%d edits=%d", report.RunID, opts.Seed, opts.Size, opts.Edits)

	palette, err := loadPalette(cfg.Palette.GetPalettePath())
	if err != nil {
		return nil, err
	}
	engineOpts, err := lighting.OptionsFromConfig(cfg.Lighting)
	if err != nil {
		return nil, err
	}
	engineOpts.Metrics = lighting.NewMetrics(reg)
	engine := lighting.NewEngine(palette, engineOpts)

	tracer := observability.Tracer()
	ctx, span := tracer.Start(ctx, "bench.run")
	defer span.End()
	span.SetAttributes(
		attribute.String("run.id", report.RunID),
		attribute.Int("world.size", opts.Size),
		attribute.Int64("world.seed", opts.Seed),
	)

	w, err := generateWorld(opts.Seed, opts.Size)
	if err != nil {
		return nil, err
	}
	report.Chunks = w.ChunkCount()

	_, initSpan := tracer.Start(ctx, "lighting.recompute")
	start := time.Now()
	report.Initial = engine.Recompute(w.Chunks())
	report.InitialTime = time.Since(start)
	initSpan.SetAttributes(attribute.Int("lighting.writes", report.Initial.Writes))
	initSpan.End()

	_, editSpan := tracer.Start(ctx, "lighting.edits")
	report.Edits, report.EditCount, report.EditTime = applyRandomEdits(engine, w, opts)
	editSpan.SetAttributes(
		attribute.Int("lighting.edits", report.EditCount),
		attribute.Int("lighting.writes", report.Edits.Writes),
		attribute.Int("lighting.clears", report.Edits.Clears),
	)
	editSpan.End()

	if opts.Verify {
		incremental := snapshotWorld(w)
		engine.Recompute(w.Chunks())
		report.Mismatches = diffLight(snapshotWorld(w), incremental)
		report.Verified = true
		if report.Mismatches > 0 {
			log.Error("❌ Расхождение с полным пересчётом: %d клеток", report.Mismatches)
		} else {
			log.Info("✅ Инкрементальное освещение совпадает с полным пересчётом")
		}
	}

	if opts.Persist {
		_, persistSpan := tracer.Start(ctx, "storage.roundtrip")
		err := persistAndReload(cfg.Storage, engine, w, report)
		persistSpan.End()
		if err != nil {
			return nil, err
		}
	}

	report.AddPoolPeak = engine.NodePool().Peak()
	report.RemovePoolPeak = engine.RemovalPool().Peak()
	report.RSSAfter = currentRSS()
	return report, nil
}

func loadPalette(path string) (*block.ColorPalette, error) {
	if path == "" {
		return block.DefaultPalette(), nil
	}
	p, err := block.LoadPalette(path)
	if err != nil {
		return nil, fmt.Errorf("загрузка палитры: %w", err)
	}
	return p, nil
}

// generateWorld создаёт мир size×size×size чанков
func generateWorld(seed int64, size int) (*world.World, error) {
	gen := world.NewWorldGenerator(seed)
	w := world.NewWorld()
	for y := 0; y < size; y++ {
		for z := 0; z < size; z++ {
			for x := 0; x < size; x++ {
				if err := w.AddChunk(gen.GenerateChunk(vec.Vec3{X: x, Y: y, Z: z})); err != nil {
					return nil, err
				}
			}
		}
	}
	return w, nil
}

func applyRandomEdits(engine *lighting.Engine, w *world.World, opts Options) (lighting.PassStats, int, time.Duration) {
	var total lighting.PassStats
	rng := rand.New(rand.NewSource(opts.Seed ^ 0x5eed))
	extent := opts.Size * world.ChunkSize
	applied := 0

	start := time.Now()
	for i := 0; i < opts.Edits; i++ {
		pos := vec.Vec3{X: rng.Intn(extent), Y: rng.Intn(extent), Z: rng.Intn(extent)}
		edit, err := w.SetBlock(pos, editBlocks[rng.Intn(len(editBlocks))])
		if err != nil {
			continue
		}
		if edit.Kind == world.EditNone {
			continue
		}
		total.Add(engine.ApplyEdit(edit))
		applied++
	}
	return total, applied, time.Since(start)
}

// persistAndReload сохраняет чанки, собирает из хранилища новый мир,
// освещая чанки по мере подключения, и сравнивает с исходным
func persistAndReload(cfg config.StorageConfig, engine *lighting.Engine, w *world.World, report *Report) error {
	store, err := storage.NewChunkStore(cfg.GetDataPath(), cfg.InMemory)
	if err != nil {
		return err
	}
	defer store.Close()

	chunks := w.Chunks()
	for _, c := range chunks {
		if err := store.SaveChunk(c); err != nil {
			return err
		}
	}
	lsm, vlog := store.Size()
	report.StoredBytes = lsm + vlog

	stored, err := store.ListChunks()
	if err != nil {
		return err
	}
	report.StoredChunks = len(stored)

	rebuilt := world.NewWorld()
	for _, orig := range chunks {
		c, err := store.LoadChunk(orig.Coords)
		if err != nil {
			return err
		}
		if err := rebuilt.AddChunk(c); err != nil {
			return err
		}
		engine.LightNewChunk(c)
		report.Reloaded++
	}

	report.ReloadDiff = diffLight(snapshotWorld(w), snapshotWorld(rebuilt))
	return nil
}

type worldLight map[vec.Vec3][world.ChunkVolume]world.LightValue

func snapshotWorld(w *world.World) worldLight {
	out := make(worldLight, w.ChunkCount())
	for _, c := range w.Chunks() {
		out[c.Coords] = c.SnapshotLight()
	}
	return out
}

// diffLight возвращает число клеток, различающихся в двух снимках.
// Чанк, отсутствующий в одном из снимков, считается целиком различным.
func diffLight(a, b worldLight) int {
	diff := 0
	for coords, la := range a {
		lb, ok := b[coords]
		if !ok {
			diff += world.ChunkVolume
			continue
		}
		if la == lb {
			continue
		}
		for i := range la {
			if la[i] != lb[i] {
				diff++
			}
		}
	}
	for coords := range b {
		if _, ok := a[coords]; !ok {
			diff += world.ChunkVolume
		}
	}
	return diff
}

// currentRSS возвращает резидентную память процесса (0, если недоступно)
func currentRSS() uint64 {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return 0
	}
	mem, err := proc.MemoryInfo()
	if err != nil || mem == nil {
		return 0
	}
	return mem.RSS
}
