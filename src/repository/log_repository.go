package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"github.com/redis/go-redis/v9"
	"gitlab.com/open-soft/go-alpha-bot/src/model"
	"log"
	"sync"
	"time"
)

const LogRepositoryCapacity = 500
const LogRepositoryTTL = time.Hour * 24

type LogStorageInterface interface {
	Append(entry model.LogEntry) error
}

type LogReaderInterface interface {
	GetEntries(runId string, limit int64) []model.LogEntry
}

type LogRepositoryInterface interface {
	LogStorageInterface
	LogReaderInterface
}

type LogRepository struct {
	RDB *redis.Client
	Ctx *context.Context
}

func (l *LogRepository) Append(entry model.LogEntry) error {
	encoded, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	cacheKey := l.GetCacheKey(entry.RunId)

	pipe := l.RDB.TxPipeline()
	pipe.LPush(*l.Ctx, cacheKey, string(encoded))
	pipe.LTrim(*l.Ctx, cacheKey, 0, LogRepositoryCapacity-1)
	pipe.Expire(*l.Ctx, cacheKey, LogRepositoryTTL)
	_, err = pipe.Exec(*l.Ctx)

	if err != nil {
		log.Printf("[%s] log append: %s", entry.RunId, err.Error())
		return err
	}

	return nil
}

// GetEntries returns up to limit entries, newest first.
func (l *LogRepository) GetEntries(runId string, limit int64) []model.LogEntry {
	if limit <= 0 || limit > LogRepositoryCapacity {
		limit = LogRepositoryCapacity
	}

	list := make([]model.LogEntry, 0)
	rows := l.RDB.LRange(*l.Ctx, l.GetCacheKey(runId), 0, limit-1).Val()

	for _, row := range rows {
		var entry model.LogEntry
		if err := json.Unmarshal([]byte(row), &entry); err == nil {
			list = append(list, entry)
		}
	}

	return list
}

func (l *LogRepository) GetCacheKey(runId string) string {
	return fmt.Sprintf("alpha-run-log-%s", runId)
}

// MemoryLogRepository keeps the same capacity per run as LogRepository but does not expire.
type MemoryLogRepository struct {
	entries map[string][]model.LogEntry
	lock    sync.RWMutex
}

func (m *MemoryLogRepository) Append(entry model.LogEntry) error {
	m.lock.Lock()
	defer m.lock.Unlock()

	if m.entries == nil {
		m.entries = make(map[string][]model.LogEntry)
	}

	list := append([]model.LogEntry{entry}, m.entries[entry.RunId]...)
	if len(list) > LogRepositoryCapacity {
		list = list[:LogRepositoryCapacity]
	}
	m.entries[entry.RunId] = list

	return nil
}

func (m *MemoryLogRepository) GetEntries(runId string, limit int64) []model.LogEntry {
	m.lock.RLock()
	defer m.lock.RUnlock()

	if limit <= 0 || limit > LogRepositoryCapacity {
		limit = LogRepositoryCapacity
	}

	stored := m.entries[runId]
	if int64(len(stored)) > limit {
		stored = stored[:limit]
	}

	list := make([]model.LogEntry, len(stored))
	copy(list, stored)

	return list
}
