package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/annel0/voxel-light/internal/logging"
	"github.com/annel0/voxel-light/internal/vec"
	"github.com/annel0/voxel-light/internal/world"
	"github.com/dgraph-io/badger/v3"
	"github.com/klauspost/compress/zstd"
)

// ErrChunkNotFound возвращается, если чанк не сохранён в хранилище
var ErrChunkNotFound = errors.New("chunk not found")

const chunkKeyPrefix = "chunk:"

// ChunkStore хранит блоки чанков в BadgerDB. Освещённость не сохраняется:
// она вычисляется движком освещения после загрузки.
type ChunkStore struct {
	db      *badger.DB
	dbPath  string
	mutex   sync.RWMutex
	isReady bool

	encoder *zstd.Encoder
	decoder *zstd.Decoder
	log     *logging.Logger
}

// chunkRecord описывает запись чанка до сжатия
type chunkRecord struct {
	Coords  vec.Vec3 `json:"coords"`
	Blocks  []byte   `json:"blocks"` // Индексы цветов в порядке Chunk.Blocks
	SavedAt int64    `json:"saved_at"`
}

// NewChunkStore открывает хранилище в каталоге dataPath/chunks.
// При inMemory данные держатся только в памяти (тесты, стенд без -persist).
func NewChunkStore(dataPath string, inMemory bool) (*ChunkStore, error) {
	dbPath := filepath.Join(dataPath, "chunks")
	opts := badger.DefaultOptions(dbPath)
	if inMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
		dbPath = ""
	}
	opts.Logger = nil // Отключаем логирование BadgerDB

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("не удалось открыть BadgerDB: %w", err)
	}

	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("ошибка создания компрессора: %w", err)
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		encoder.Close()
		db.Close()
		return nil, fmt.Errorf("ошибка создания декомпрессора: %w", err)
	}

	return &ChunkStore{
		db:      db,
		dbPath:  dbPath,
		isReady: true,
		encoder: encoder,
		decoder: decoder,
		log:     logging.GetStorageLogger(),
	}, nil
}

// Close закрывает хранилище
func (cs *ChunkStore) Close() error {
	cs.mutex.Lock()
	defer cs.mutex.Unlock()

	if !cs.isReady {
		return nil
	}

	cs.isReady = false
	cs.encoder.Close()
	cs.decoder.Close()
	return cs.db.Close()
}

func chunkKey(coords vec.Vec3) []byte {
	return []byte(fmt.Sprintf("%s%d:%d:%d", chunkKeyPrefix, coords.X, coords.Y, coords.Z))
}

// SaveChunk сохраняет блоки чанка и сбрасывает его счётчик изменений
func (cs *ChunkStore) SaveChunk(chunk *world.Chunk) error {
	cs.mutex.RLock()
	defer cs.mutex.RUnlock()

	if !cs.isReady {
		return fmt.Errorf("хранилище не готово")
	}

	record := chunkRecord{
		Coords:  chunk.Coords,
		Blocks:  chunk.Blocks(),
		SavedAt: time.Now().Unix(),
	}
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("ошибка сериализации чанка %v: %w", chunk.Coords, err)
	}
	compressed := cs.encoder.EncodeAll(data, nil)

	err = cs.db.Update(func(txn *badger.Txn) error {
		return txn.Set(chunkKey(chunk.Coords), compressed)
	})
	if err != nil {
		return fmt.Errorf("ошибка сохранения в BadgerDB: %w", err)
	}

	chunk.ClearChanges()
	cs.log.Trace("Сохранён чанк %v: %d -> %d байт", chunk.Coords, len(data), len(compressed))
	return nil
}

// SaveChanged сохраняет чанки, в которых менялись блоки. Возвращает число сохранённых.
func (cs *ChunkStore) SaveChanged(chunks []*world.Chunk) (int, error) {
	saved := 0
	for _, c := range chunks {
		if !c.HasChanges() {
			continue
		}
		if err := cs.SaveChunk(c); err != nil {
			return saved, err
		}
		saved++
	}
	return saved, nil
}

// LoadChunk загружает чанк с блоками. Освещённость загруженного чанка нулевая.
func (cs *ChunkStore) LoadChunk(coords vec.Vec3) (*world.Chunk, error) {
	cs.mutex.RLock()
	defer cs.mutex.RUnlock()

	if !cs.isReady {
		return nil, fmt.Errorf("хранилище не готово")
	}

	var compressed []byte
	err := cs.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(chunkKey(coords))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			compressed = append([]byte{}, val...)
			return nil
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, fmt.Errorf("%w: %v", ErrChunkNotFound, coords)
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения из BadgerDB: %w", err)
	}

	data, err := cs.decoder.DecodeAll(compressed, nil)
	if err != nil {
		return nil, fmt.Errorf("ошибка распаковки чанка %v: %w", coords, err)
	}

	var record chunkRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("ошибка десериализации чанка %v: %w", coords, err)
	}

	chunk := world.NewChunk(coords)
	if !chunk.LoadBlocks(record.Blocks) {
		return nil, fmt.Errorf("чанк %v: ожидалось %d блоков, получено %d", coords, world.ChunkVolume, len(record.Blocks))
	}
	chunk.ClearChanges()
	return chunk, nil
}

// DeleteChunk удаляет чанк из хранилища
func (cs *ChunkStore) DeleteChunk(coords vec.Vec3) error {
	cs.mutex.RLock()
	defer cs.mutex.RUnlock()

	if !cs.isReady {
		return fmt.Errorf("хранилище не готово")
	}

	err := cs.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(chunkKey(coords))
	})
	if err != nil {
		return fmt.Errorf("ошибка удаления из BadgerDB: %w", err)
	}
	return nil
}

// ListChunks возвращает координаты всех сохранённых чанков
func (cs *ChunkStore) ListChunks() ([]vec.Vec3, error) {
	cs.mutex.RLock()
	defer cs.mutex.RUnlock()

	if !cs.isReady {
		return nil, fmt.Errorf("хранилище не готово")
	}

	var out []vec.Vec3
	err := cs.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(chunkKeyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			var c vec.Vec3
			key := string(it.Item().Key())
			if _, err := fmt.Sscanf(key, chunkKeyPrefix+"%d:%d:%d", &c.X, &c.Y, &c.Z); err != nil {
				cs.log.Warn("Ошибка парсинга ключа '%s': %v", key, err)
				continue
			}
			out = append(out, c)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("ошибка обхода BadgerDB: %w", err)
	}
	return out, nil
}

// Size возвращает размер LSM-дерева и журнала значений в байтах.
// Для закрытого хранилища возвращает нули.
func (cs *ChunkStore) Size() (lsm, vlog int64) {
	cs.mutex.RLock()
	defer cs.mutex.RUnlock()

	if !cs.isReady {
		return 0, 0
	}
	return cs.db.Size()
}
