package jobs

import (
	"time"

	"rental-backend/services"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Scheduler runs the background jobs. Only one job exists today, a daily
// overdue scan, but registration is kept general.
type Scheduler struct {
	cron    *cron.Cron
	rentals *services.RentalService
}

func NewScheduler(rentals *services.RentalService) *Scheduler {
	s := &Scheduler{
		cron:    cron.New(cron.WithLocation(time.Local)),
		rentals: rentals,
	}
	s.registerJobs()
	return s
}

func (s *Scheduler) registerJobs() {
	// Every day at 08:00 shop time.
	if _, err := s.cron.AddFunc("0 8 * * *", s.ScanOverdueRentals); err != nil {
		logrus.WithError(err).Error("failed to register overdue scan job")
	}
}

func (s *Scheduler) Start() {
	s.cron.Start()
	logrus.Info("job scheduler started")
}

func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	logrus.Info("job scheduler stopped")
}

// ScanOverdueRentals logs a warning for every active rental past its end date.
// The rows themselves are not mutated, overdue state is always derived at read
// time, so the scan is purely an operator notification.
func (s *Scheduler) ScanOverdueRentals() {
	defer func() {
		if r := recover(); r != nil {
			logrus.WithField("panic", r).Error("overdue scan panicked")
		}
	}()

	views, err := s.rentals.List()
	if err != nil {
		logrus.WithError(err).Error("overdue scan failed to list rentals")
		return
	}

	count := 0
	for _, view := range views {
		if view.OverdueDays <= 0 {
			continue
		}
		count++
		logrus.WithFields(logrus.Fields{
			"rental_id":      view.Rental.ID,
			"reference_code": view.Rental.ReferenceCode,
			"overdue_days":   view.OverdueDays,
			"customer":       view.CustomerName,
		}).Warn("rental is overdue")
	}

	logrus.WithField("count", count).Info("overdue scan finished")
}
