package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"github.com/redis/go-redis/v9"
	"gitlab.com/open-soft/go-alpha-bot/src/model"
	"log"
	"sync"
	"time"
)

type SettingStorageInterface interface {
	GetRunConfig(profile string) (model.RunConfig, error)
	SaveRunConfig(profile string, config model.RunConfig) error
}

type SettingRepository struct {
	DB  *sql.DB
	RDB *redis.Client
	Ctx *context.Context
}

// GetRunConfig returns defaults when the profile was never saved.
func (s *SettingRepository) GetRunConfig(profile string) (model.RunConfig, error) {
	cacheKey := s.GetCacheKey(profile)

	if s.RDB != nil {
		cached := s.RDB.Get(*s.Ctx, cacheKey).Val()
		if len(cached) > 0 {
			var config model.RunConfig
			if err := json.Unmarshal([]byte(cached), &config); err == nil {
				return config, nil
			}
		}
	}

	config := model.DefaultRunConfig()
	err := s.DB.QueryRow(`
		SELECT
			s.config as Config
		FROM run_settings s
		WHERE s.profile = ?`, profile,
	).Scan(&config)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.DefaultRunConfig(), nil
		}

		log.Printf("[%s] settings read: %s", profile, err.Error())
		return config, err
	}

	if s.RDB != nil {
		encoded, err := json.Marshal(config)
		if err == nil {
			s.RDB.Set(*s.Ctx, cacheKey, string(encoded), time.Minute)
		}
	}

	return config, nil
}

func (s *SettingRepository) SaveRunConfig(profile string, config model.RunConfig) error {
	_, err := s.DB.Exec(`
		INSERT INTO run_settings (profile, config) VALUES (?, ?)
		ON DUPLICATE KEY UPDATE config = VALUES(config)
	`, profile, config)

	if err != nil {
		log.Println(err)
		return err
	}

	// Invalidate cache
	if s.RDB != nil {
		s.RDB.Del(*s.Ctx, s.GetCacheKey(profile))
	}

	return nil
}

func (s *SettingRepository) GetCacheKey(profile string) string {
	return fmt.Sprintf("alpha-settings-%s", profile)
}

type MemorySettingRepository struct {
	configs map[string]model.RunConfig
	lock    sync.RWMutex
}

func (m *MemorySettingRepository) GetRunConfig(profile string) (model.RunConfig, error) {
	m.lock.RLock()
	defer m.lock.RUnlock()

	config, ok := m.configs[profile]
	if !ok {
		return model.DefaultRunConfig(), nil
	}

	return config, nil
}

func (m *MemorySettingRepository) SaveRunConfig(profile string, config model.RunConfig) error {
	m.lock.Lock()
	defer m.lock.Unlock()

	if m.configs == nil {
		m.configs = make(map[string]model.RunConfig)
	}
	m.configs[profile] = config

	return nil
}
