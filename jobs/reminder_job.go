package jobs

import (
	"context"
	"time"

	"github.com/bluestock/ipotrack/services"
	"github.com/sirupsen/logrus"
)

// ReminderDispatchJob periodically promotes due active reminders into
// notifications.
type ReminderDispatchJob struct {
	reminders *services.ReminderService
	interval  time.Duration
	stop      chan struct{}
}

func NewReminderDispatchJob(reminders *services.ReminderService, interval time.Duration) *ReminderDispatchJob {
	return &ReminderDispatchJob{
		reminders: reminders,
		interval:  interval,
		stop:      make(chan struct{}),
	}
}

// Run executes one dispatch pass.
func (j *ReminderDispatchJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	dispatched, err := j.reminders.DispatchDue(ctx, time.Now())
	if err != nil {
		logrus.WithError(err).Error("Reminder dispatch failed")
		return
	}
	if dispatched > 0 {
		logrus.WithField("dispatched", dispatched).Info("Reminders dispatched")
	}
}

// Start runs the job on its interval until Stop is called.
func (j *ReminderDispatchJob) Start() {
	ticker := time.NewTicker(j.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				j.Run()
			case <-j.stop:
				return
			}
		}
	}()

	logrus.WithField("interval", j.interval).Info("Reminder dispatch job started")
}

func (j *ReminderDispatchJob) Stop() {
	close(j.stop)
}
