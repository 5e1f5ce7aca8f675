package pools

import (
	"fmt"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Refresher reloads the pool dictionary on a cron schedule so tag and
// address updates take effect without a restart.
type Refresher struct {
	logger *zap.Logger
	dict   *Dictionary
	cron   *cron.Cron
}

// NewRefresher schedules dictionary reloads. The schedule uses the
// six-field cron format with a leading seconds field.
func NewRefresher(logger *zap.Logger, dict *Dictionary, schedule string) (*Refresher, error) {
	r := &Refresher{
		logger: logger,
		dict:   dict,
		cron:   cron.New(cron.WithSeconds(), cron.WithChain(cron.Recover(cron.DefaultLogger))),
	}
	if _, err := r.cron.AddFunc(schedule, r.reload); err != nil {
		return nil, fmt.Errorf("schedule pool dictionary refresh: %w", err)
	}
	return r, nil
}

func (r *Refresher) reload() {
	if err := r.dict.Reload(); err != nil {
		r.logger.Warn("pool dictionary reload failed, keeping previous", zap.Error(err))
		return
	}
	r.logger.Info("pool dictionary reloaded", zap.Int("pools", len(r.dict.Pools())))
}

// Start begins the refresh schedule.
func (r *Refresher) Start() {
	r.cron.Start()
}

// Stop halts the schedule and waits for a running reload to finish.
func (r *Refresher) Stop() {
	<-r.cron.Stop().Done()
}
