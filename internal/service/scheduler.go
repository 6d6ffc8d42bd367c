package service

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// AutoLogoutScheduler fires once per day at the office cutoff and runs the
// auto-logout sweep. The next firing instant is always derived from the
// clock, so a process started mid-day still fires at the right time, and a
// firing missed while the process was down is covered by the sweep itself
// (it closes open sessions from any date).
type AutoLogoutScheduler struct {
	service *AttendanceService
	clock   *OfficeClock
	logger  *logrus.Logger
}

func NewAutoLogoutScheduler(service *AttendanceService, clock *OfficeClock, logger *logrus.Logger) *AutoLogoutScheduler {
	if logger == nil {
		logger = logrus.New()
	}
	return &AutoLogoutScheduler{service: service, clock: clock, logger: logger}
}

// Run blocks until ctx is cancelled.
func (s *AutoLogoutScheduler) Run(ctx context.Context) {
	for {
		now := s.clock.Now()
		next := s.clock.NextCutoff(now)
		timer := time.NewTimer(next.Sub(now))

		select {
		case <-timer.C:
			count, err := s.service.SweepOpenSessions(ctx)
			if err != nil {
				s.logger.WithError(err).Error("auto-logout sweep failed")
			} else {
				s.logger.WithField("closed", count).Info("auto-logout sweep completed")
			}
		case <-ctx.Done():
			timer.Stop()
			return
		}
	}
}
