package model

import (
	"github.com/rafacas/sysstats"
)

const DbStatusOk = "ok"
const DbStatusFail = "fail"
const DbStatusDisabled = "disabled"
const RedisStatusOk = "ok"
const RedisStatusFail = "fail"
const PageStatusOk = "ok"
const PageStatusDisconnected = "disconnected"

type BotHealth struct {
	DbStatus         string            `json:"dbStatus"`
	RedisStatus      string            `json:"redisStatus"`
	ClickHouseStatus string            `json:"clickHouseStatus"`
	PageStatus       string            `json:"pageStatus"`
	Run              RunState          `json:"run"`
	Cores            int               `json:"cores"`
	Memory           sysstats.MemStats `json:"memory"`
	LoadAvg          sysstats.LoadAvg  `json:"loadAvg"`
	CheckedAt        string            `json:"checkedAt"`
}
