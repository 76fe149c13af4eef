package repos_test

import (
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/architeacher/reporting/pkg/logger"
	"github.com/architeacher/reporting/services/svc-reporting/internal/config"
	"github.com/architeacher/reporting/services/svc-reporting/internal/infrastructure"
)

func newKeydbClient(mr *miniredis.Miniredis) *infrastructure.KeydbClient {
	cfg := config.Cache{
		Address:       mr.Addr(),
		PoolSize:      5,
		DialTimeout:   time.Second,
		ReadTimeout:   time.Second,
		WriteTimeout:  time.Second,
		DefaultExpiry: time.Hour,
	}

	return infrastructure.NewKeyDBClient(cfg, logger.NewTestLogger())
}
