package app

import (
	"context"

	"github.com/mlebedeva/clinic_booking/internal/model"
	"go.uber.org/zap"
)

// LogNotifier отправитель напоминаний, который только пишет в лог.
// Реальный канал доставки (email/SMS) подключается снаружи вместо него.
type LogNotifier struct {
	logger *zap.Logger
}

func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) SendReminder(_ context.Context, res *model.Reservation) error {
	n.logger.Info("Reminder due",
		zap.Int64("reservation_id", res.ID),
		zap.String("code", res.Code.String()),
		zap.String("date", res.Date.Format("2006-01-02")),
		zap.String("start_time", res.StartTime.String()),
		zap.String("patient_email", res.PatientEmail),
	)
	return nil
}
