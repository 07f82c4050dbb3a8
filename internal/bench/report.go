package bench

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/annel0/voxel-light/internal/logging"
	"github.com/annel0/voxel-light/internal/world"
	"github.com/dustin/go-humanize"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Print выводит отчёт прогона в читаемом виде
func (r *Report) Print(w io.Writer) {
	fmt.Fprintf(w, "Прогон:            %s\n", r.RunID)
	fmt.Fprintf(w, "Чанков:            %d (%s блоков)\n", r.Chunks, humanize.Comma(int64(r.Chunks)*world.ChunkVolume))
	fmt.Fprintf(w, "Полный расчёт:     %s записей за %s\n", humanize.Comma(int64(r.Initial.Writes)), r.InitialTime.Round(time.Microsecond))
	fmt.Fprintf(w, "Правки:            %d за %s (%s на правку)\n", r.EditCount, r.EditTime.Round(time.Microsecond), perEdit(r.EditTime, r.EditCount))
	fmt.Fprintf(w, "  записей:         %s\n", humanize.Comma(int64(r.Edits.Writes)))
	fmt.Fprintf(w, "  обнулений:       %s\n", humanize.Comma(int64(r.Edits.Clears)))
	fmt.Fprintf(w, "  повторных семян: %s\n", humanize.Comma(int64(r.Edits.Reseeds)))
	fmt.Fprintf(w, "  пропущено:       %d\n", r.Edits.Dropped)
	fmt.Fprintf(w, "Пик узлов пула:    add=%d remove=%d\n", r.AddPoolPeak, r.RemovePoolPeak)
	if r.Verified {
		fmt.Fprintf(w, "Расхождений:       %d\n", r.Mismatches)
	}
	if r.Reloaded > 0 {
		fmt.Fprintf(w, "Хранилище:         %d чанков, %s; после пересборки расхождений %d\n",
			r.StoredChunks, humanize.Bytes(uint64(r.StoredBytes)), r.ReloadDiff)
	}
	fmt.Fprintf(w, "RSS:               %s -> %s\n", humanize.Bytes(r.RSSBefore), humanize.Bytes(r.RSSAfter))
}

func perEdit(d time.Duration, n int) time.Duration {
	if n == 0 {
		return 0
	}
	return (d / time.Duration(n)).Round(time.Microsecond / 10)
}

// StartMetricsServer запускает HTTP-эндпоинт Prometheus на указанном адресе (например, ":2112").
// Метод неблокирующий: HTTP-сервер стартует в отдельной горутине.
func StartMetricsServer(addr string) {
	go func() {
		logging.Info("📈 Prometheus /metrics доступен по адресу %s", addr)
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		if err := http.ListenAndServe(addr, mux); err != nil {
			logging.Error("Ошибка Prometheus HTTP сервера: %v", err)
		}
	}()
}
