package app

import (
	"context"
	"time"

	"github.com/mlebedeva/clinic_booking/internal/service"
	"go.uber.org/zap"
)

// reminderScanInterval период сканирования записей, ожидающих напоминания
const reminderScanInterval = time.Hour

// Scheduler управляет фоновыми задачами
type Scheduler struct {
	bookingService *service.BookingService
	logger         *zap.Logger
	stopChan       chan struct{}
}

// NewScheduler создаёт новый планировщик
func NewScheduler(bookingService *service.BookingService, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		bookingService: bookingService,
		logger:         logger,
		stopChan:       make(chan struct{}),
	}
}

// Start запускает фоновые задачи
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info("Starting background scheduler")

	// Запускаем задачу рассылки напоминаний
	go s.runReminderTask(ctx)
}

// Stop останавливает фоновые задачи
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping background scheduler")
	close(s.stopChan)
}

// runReminderTask периодически рассылает напоминания о завтрашних приёмах
func (s *Scheduler) runReminderTask(ctx context.Context) {
	// Первый запуск сразу при старте
	s.dispatchReminders(ctx)

	ticker := time.NewTicker(reminderScanInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.dispatchReminders(ctx)
		case <-s.stopChan:
			s.logger.Info("Reminder task stopped")
			return
		case <-ctx.Done():
			s.logger.Info("Reminder task cancelled")
			return
		}
	}
}

// dispatchReminders рассылает напоминания по записям на завтра.
// Повторный запуск не продублирует напоминание: после успешной отправки
// запись помечается reminder_sent и выпадает из выборки.
func (s *Scheduler) dispatchReminders(ctx context.Context) {
	tomorrow := time.Now().UTC().AddDate(0, 0, 1)

	sent, err := s.bookingService.DispatchReminders(ctx, tomorrow)
	if err != nil {
		s.logger.Error("Failed to dispatch reminders", zap.Error(err))
		return
	}

	if sent > 0 {
		s.logger.Info("Reminder dispatch completed", zap.Int("sent", sent))
	}
}
