package notify

import (
	"context"

	"go.uber.org/zap"
)

// LogNotifier records alerts in the structured log when no delivery channel applies.
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier constructs a log sink.
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogNotifier{logger: logger}
}

// Notify implements Notifier.
func (n *LogNotifier) Notify(_ context.Context, alert AbsenceAlert) error {
	n.logger.Warn("absence alert",
		zap.String("student_id", alert.StudentID),
		zap.String("student_name", alert.StudentName),
		zap.String("schedule_id", alert.ScheduleID),
		zap.Int("absences", alert.Absences),
		zap.String("guardian_name", alert.GuardianName),
		zap.String("guardian_phone", alert.GuardianPhone),
	)
	return nil
}
