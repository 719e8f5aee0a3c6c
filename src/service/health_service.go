package service

import (
	"context"
	"database/sql"
	"github.com/rafacas/sysstats"
	"github.com/redis/go-redis/v9"
	"gitlab.com/open-soft/go-alpha-bot/src/model"
	"gitlab.com/open-soft/go-alpha-bot/src/utils"
	"runtime"
)

type RunStateProviderInterface interface {
	State() model.RunState
}

type ConnectionStatusInterface interface {
	IsConnected() bool
}

// HealthService reports the state of every backend. Nil backends are reported as disabled.
type HealthService struct {
	DB          *sql.DB
	ClickHouse  *sql.DB
	RDB         *redis.Client
	Ctx         *context.Context
	Page        ConnectionStatusInterface
	Runner      RunStateProviderInterface
	TimeService utils.TimeServiceInterface
}

func (h *HealthService) HealthCheck() model.BotHealth {
	memStats, _ := sysstats.GetMemStats()
	loadAvg, _ := sysstats.GetLoadAvg()

	redisStatus := model.DbStatusDisabled
	if h.RDB != nil {
		redisStatus = model.RedisStatusOk
		if h.RDB.Ping(*h.Ctx).Err() != nil {
			redisStatus = model.RedisStatusFail
		}
	}

	pageStatus := model.PageStatusDisconnected
	if h.Page != nil && h.Page.IsConnected() {
		pageStatus = model.PageStatusOk
	}

	health := model.BotHealth{
		DbStatus:         pingStatus(h.DB),
		ClickHouseStatus: pingStatus(h.ClickHouse),
		RedisStatus:      redisStatus,
		PageStatus:       pageStatus,
		Cores:            runtime.NumCPU(),
		Memory:           memStats,
		LoadAvg:          loadAvg,
		CheckedAt:        h.TimeService.GetNowDateTimeString(),
	}

	if h.Runner != nil {
		health.Run = h.Runner.State()
	}

	return health
}

func pingStatus(db *sql.DB) string {
	if db == nil {
		return model.DbStatusDisabled
	}

	if db.Ping() != nil {
		return model.DbStatusFail
	}

	return model.DbStatusOk
}
