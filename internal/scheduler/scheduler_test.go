package scheduler

import (
	"io"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/wheels195/cfb-market-edge-sub005/internal/service"
)

func newTestScheduler(t *testing.T) *Scheduler {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	svc := service.NewIngestionService(nil, nil, nil, nil, logger, 100)
	return NewScheduler(svc, "cfbd", logger)
}

func TestStartRequiresJobs(t *testing.T) {
	s := newTestScheduler(t)
	if err := s.Start(); err == nil {
		t.Fatal("expected error starting with no jobs")
	}
}

func TestScheduleAndStartStop(t *testing.T) {
	s := newTestScheduler(t)

	if err := s.ScheduleGameSync("0 6 * * *", 2023, 2023); err != nil {
		t.Fatalf("ScheduleGameSync: %v", err)
	}
	if err := s.ScheduleLineSync("*/15 * * * *", 2023, 2023); err != nil {
		t.Fatalf("ScheduleLineSync: %v", err)
	}

	if err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if !s.IsRunning() {
		t.Error("scheduler should report running")
	}
	if s.NextRun().IsZero() {
		t.Error("next run should be scheduled")
	}
	if len(s.Entries()) != 2 {
		t.Errorf("entries = %d, want 2", len(s.Entries()))
	}

	if err := s.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if s.IsRunning() {
		t.Error("scheduler should report stopped")
	}
}

func TestCannotScheduleWhileRunning(t *testing.T) {
	s := newTestScheduler(t)
	if err := s.ScheduleGameSync("@hourly", 2023, 2023); err != nil {
		t.Fatalf("ScheduleGameSync: %v", err)
	}
	if err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer s.Stop()

	if err := s.ScheduleLineSync("@hourly", 2023, 2023); err == nil {
		t.Fatal("expected error scheduling while running")
	}
}

func TestRejectsInvalidCronExpression(t *testing.T) {
	s := newTestScheduler(t)
	if err := s.ScheduleGameSync("not a cron line", 2023, 2023); err == nil {
		t.Fatal("expected error for invalid expression")
	}
}

func TestStopIsIdempotent(t *testing.T) {
	s := newTestScheduler(t)
	if err := s.Stop(); err != nil {
		t.Fatalf("Stop on idle scheduler: %v", err)
	}
}
