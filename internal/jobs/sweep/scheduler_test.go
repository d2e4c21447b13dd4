package sweep

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moodwatch/moodwatch-backend/internal/platform/logger"
	"github.com/moodwatch/moodwatch-backend/internal/services"
)

type blockingSweep struct {
	mu      sync.Mutex
	runs    int
	release chan struct{}
	started chan struct{}
}

func (b *blockingSweep) Run(ctx context.Context) (services.SweepReport, error) {
	b.mu.Lock()
	b.runs++
	b.mu.Unlock()
	if b.started != nil {
		close(b.started)
	}
	if b.release != nil {
		select {
		case <-b.release:
		case <-ctx.Done():
			return services.SweepReport{}, ctx.Err()
		}
	}
	return services.SweepReport{Users: 3}, nil
}

func TestConfigSpec(t *testing.T) {
	assert.Equal(t, "0 0 22 * * *", Config{Hour: 22}.Spec())
	assert.Equal(t, "0 30 6 * * *", Config{Hour: 6, Minute: 30}.Spec())
}

func TestNewSchedulerRejectsBadTime(t *testing.T) {
	_, err := NewScheduler(logger.NewNop(), &blockingSweep{}, Config{Hour: 24})
	require.Error(t, err)
	_, err = NewScheduler(logger.NewNop(), &blockingSweep{}, Config{Hour: 1, Minute: 60})
	require.Error(t, err)
}

func TestRunOnceReportsSweep(t *testing.T) {
	s, err := NewScheduler(logger.NewNop(), &blockingSweep{}, Config{Hour: 22})
	require.NoError(t, err)
	report, err := s.RunOnce()
	require.NoError(t, err)
	assert.Equal(t, 3, report.Users)
}

func TestRunOnceSkipsOverlap(t *testing.T) {
	sw := &blockingSweep{release: make(chan struct{}), started: make(chan struct{})}
	s, err := NewScheduler(logger.NewNop(), sw, Config{Hour: 22, Timeout: 5 * time.Second})
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = s.RunOnce()
	}()
	<-sw.started

	report, err := s.RunOnce()
	require.NoError(t, err)
	assert.Zero(t, report.Users)

	close(sw.release)
	<-done
	sw.mu.Lock()
	defer sw.mu.Unlock()
	assert.Equal(t, 1, sw.runs)
}

func TestStartStop(t *testing.T) {
	s, err := NewScheduler(logger.NewNop(), &blockingSweep{}, Config{Hour: 3})
	require.NoError(t, err)
	s.Start(context.Background())
	s.Stop()
}
