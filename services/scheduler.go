package services

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// StartDetectionScheduler runs the missed-workout sweep on an interval.
// Returns the scheduler so the caller can shut it down.
func StartDetectionScheduler(detector *MissedWorkoutDetector, interval time.Duration) (gocron.Scheduler, error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	_, err = sched.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
			defer cancel()

			if _, err := detector.Run(ctx); err != nil {
				log.Printf("[Scheduler] Missed-workout sweep failed: %v", err)
			}
		}),
	)
	if err != nil {
		return nil, err
	}

	sched.Start()
	log.Printf("Missed-workout sweep scheduled every %s", interval)
	return sched, nil
}
