package lighting

import (
	"fmt"
	"io"
	"testing"

	"github.com/annel0/voxel-light/internal/logging"
	"github.com/annel0/voxel-light/internal/vec"
	"github.com/annel0/voxel-light/internal/world"
	"github.com/annel0/voxel-light/internal/world/block"
	"github.com/stretchr/testify/require"
)

// quietOptions возвращает настройки по умолчанию с логгером, отбрасывающим вывод
func quietOptions() Options {
	opts := DefaultOptions()
	opts.Logger = logging.NewWriterLogger("lighting", io.Discard, logging.ERROR)
	return opts
}

func newTestEngine(opts Options) *Engine {
	return NewEngine(block.DefaultPalette(), opts)
}

// newAirWorld создаёт мир n×n×n чанков воздуха
func newAirWorld(t *testing.T, n int) *world.World {
	t.Helper()
	w := world.NewWorld()
	for y := 0; y < n; y++ {
		for z := 0; z < n; z++ {
			for x := 0; x < n; x++ {
				require.NoError(t, w.AddChunk(world.NewChunk(vec.Vec3{X: x, Y: y, Z: z})))
			}
		}
	}
	return w
}

// newGeneratedWorld создаёт мир n×n×n чанков с ландшафтом генератора
func newGeneratedWorld(t *testing.T, n int, seed int64) *world.World {
	t.Helper()
	gen := world.NewWorldGenerator(seed)
	w := world.NewWorld()
	for y := 0; y < n; y++ {
		for z := 0; z < n; z++ {
			for x := 0; x < n; x++ {
				require.NoError(t, w.AddChunk(gen.GenerateChunk(vec.Vec3{X: x, Y: y, Z: z})))
			}
		}
	}
	return w
}

type lightSnapshot map[vec.Vec3][world.ChunkVolume]world.LightValue

func snapshot(w *world.World) lightSnapshot {
	out := make(lightSnapshot)
	for _, c := range w.Chunks() {
		out[c.Coords] = c.SnapshotLight()
	}
	return out
}

// requireSameLight сравнивает снимки и сообщает о первом расхождении с координатами
func requireSameLight(t *testing.T, want, got lightSnapshot, msg string) {
	t.Helper()
	require.Equal(t, len(want), len(got), msg)

	mismatches := 0
	var first string
	for coords, wl := range want {
		gl, ok := got[coords]
		require.True(t, ok, "%s: нет чанка %v", msg, coords)
		if wl == gl {
			continue
		}
		world.ForEachLocal(func(p vec.Vec3) {
			i := p.Y<<8 | p.Z<<4 | p.X
			if wl[i] == gl[i] {
				return
			}
			if mismatches == 0 {
				first = describeMismatch(coords, p, wl[i], gl[i])
			}
			mismatches++
		})
	}
	require.Zero(t, mismatches, "%s: %d расхождений, первое: %s", msg, mismatches, first)
}

func describeMismatch(coords, local vec.Vec3, want, got world.LightValue) string {
	global := coords.Mul(world.ChunkSize).Add(local)
	return fmt.Sprintf("%v ожидалось %s, получено %s", global, formatLight(want), formatLight(got))
}

func formatLight(v world.LightValue) string {
	return fmt.Sprintf("a%d r%d g%d b%d",
		v.Get(world.ChannelAmbient), v.Get(world.ChannelRed), v.Get(world.ChannelGreen), v.Get(world.ChannelBlue))
}

// lightAt возвращает уровень канала по глобальным координатам
func lightAt(w *world.World, x, y, z int, ch world.Channel) uint8 {
	return w.Light(vec.Vec3{X: x, Y: y, Z: z}).Get(ch)
}

// setAndApply меняет блок по глобальным координатам и обновляет освещение
func setAndApply(t *testing.T, e *Engine, w *world.World, pos vec.Vec3, b block.Block) PassStats {
	t.Helper()
	edit, err := w.SetBlock(pos, b)
	require.NoError(t, err)
	return e.ApplyEdit(edit)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
