// Package board содержит воркер периодического обновления табло
// отправлений.
package board

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/departures-microservice/internal/config"
	"github.com/departures-microservice/internal/store"
	"github.com/departures-microservice/internal/usecase"
	"github.com/departures-microservice/internal/usecase/dto"
	"github.com/departures-microservice/internal/worker"
)

// defaultStation - станция по умолчанию, пока пользователь ничего не искал.
const defaultStation = "Wien Hbf"

// RefreshWorker периодически обновляет табло последней искомой станции.
// Автоматический цикл уступает ручному обновлению: если в момент тика идёт
// ручное обновление, тик пропускается без очереди и повтора.
type RefreshWorker struct {
	*worker.BaseWorker
	departureUC *usecase.DepartureUseCase
	stationUC   *usecase.StationUseCase
	store       *store.Store
	interval    time.Duration
}

// NewRefreshWorker создает новый RefreshWorker. Интервал меньше
// config.MinRefreshInterval поднимается до минимума.
func NewRefreshWorker(
	departureUC *usecase.DepartureUseCase,
	stationUC *usecase.StationUseCase,
	st *store.Store,
	interval time.Duration,
	logger *zap.Logger,
) *RefreshWorker {
	if interval < config.MinRefreshInterval {
		interval = config.MinRefreshInterval
	}

	return &RefreshWorker{
		BaseWorker:  worker.NewBaseWorker("board-refresh", logger),
		departureUC: departureUC,
		stationUC:   stationUC,
		store:       st,
		interval:    interval,
	}
}

// Start запускает воркер
func (w *RefreshWorker) Start(ctx context.Context) error {
	logger := w.Logger()
	logger.Info("Starting RefreshWorker",
		zap.Duration("interval", w.interval))

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.StopChan():
			logger.Info("Worker stopped")
			return nil

		case <-ctx.Done():
			logger.Info("Context cancelled")
			return ctx.Err()

		case <-ticker.C:
			w.refresh(ctx)
		}
	}
}

// refresh выполняет один цикл автоматического обновления.
func (w *RefreshWorker) refresh(ctx context.Context) {
	logger := w.Logger()

	if !w.store.BeginRefresh(false) {
		logger.Debug("Skipping auto refresh, another refresh in flight")
		return
	}
	defer w.store.EndRefresh(false)

	station := w.station(ctx)

	board := w.departureUC.GetDepartures(ctx, dto.DepartureRequest{Station: station})
	if board.Error != "" {
		logger.Warn("Auto refresh failed",
			zap.String("station", station),
			zap.String("error", board.Error))
		return
	}

	w.store.SetDepartures(board.Departures)
	w.store.SetLastStation(station)

	logger.Debug("Board refreshed",
		zap.String("station", station),
		zap.Int("departures", len(board.Departures)))
}

// station выбирает станцию для обновления: store, затем кеш последней
// искомой, затем станция по умолчанию.
func (w *RefreshWorker) station(ctx context.Context) string {
	if s := w.store.LastStation(); s != "" {
		return s
	}
	if s := w.stationUC.LastStation(ctx); s != "" {
		return s
	}
	return defaultStation
}
