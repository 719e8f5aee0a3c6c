package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"gitlab.com/open-soft/go-alpha-bot/src/model"
	"log"
	"sort"
	"sync"
	"time"
)

type DealStorageInterface interface {
	AddDeal(day string, amount decimal.Decimal, points decimal.Decimal) error
	GetDeal(day string) (model.DailyDeal, error)
	GetDeals() ([]model.DailyDeal, error)
}

type DealRepository struct {
	DB  *sql.DB
	RDB *redis.Client
	Ctx *context.Context
}

// AddDeal merges amounts into the day row, concurrent writers add up.
func (d *DealRepository) AddDeal(day string, amount decimal.Decimal, points decimal.Decimal) error {
	_, err := d.DB.Exec(`
		INSERT INTO daily_deals (day, amount, points) VALUES (?, ?, ?)
		ON DUPLICATE KEY UPDATE
			amount = amount + VALUES(amount),
			points = points + VALUES(points)
	`,
		day,
		amount.String(),
		points.String(),
	)

	if err != nil {
		log.Printf("[%s] deal write: %s", day, err.Error())
		return err
	}

	if d.RDB != nil {
		d.RDB.Del(*d.Ctx, d.GetCacheKey(day))
	}

	return nil
}

func (d *DealRepository) GetDeal(day string) (model.DailyDeal, error) {
	if d.RDB != nil {
		cached := d.RDB.Get(*d.Ctx, d.GetCacheKey(day)).Val()
		if len(cached) > 0 {
			var deal model.DailyDeal
			if err := json.Unmarshal([]byte(cached), &deal); err == nil {
				return deal, nil
			}
		}
	}

	var amount, points string
	err := d.DB.QueryRow(`
		SELECT
			d.amount as Amount,
			d.points as Points
		FROM daily_deals d
		WHERE d.day = ?`, day,
	).Scan(&amount, &points)

	deal := model.DailyDeal{Day: day, Amount: decimal.Zero, Points: decimal.Zero}

	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			log.Printf("[%s] deal read: %s", day, err.Error())
			return deal, err
		}
	} else {
		deal.Amount, _ = decimal.NewFromString(amount)
		deal.Points, _ = decimal.NewFromString(points)
	}

	if d.RDB != nil {
		encoded, err := json.Marshal(deal)
		if err == nil {
			d.RDB.Set(*d.Ctx, d.GetCacheKey(day), string(encoded), time.Minute)
		}
	}

	return deal, nil
}

func (d *DealRepository) GetDeals() ([]model.DailyDeal, error) {
	res, err := d.DB.Query(`
		SELECT
			d.day as Day,
			d.amount as Amount,
			d.points as Points
		FROM daily_deals d
		ORDER BY d.day DESC
	`)

	if err != nil {
		log.Println(err)
		return nil, err
	}
	defer res.Close()

	list := make([]model.DailyDeal, 0)
	for res.Next() {
		var day, amount, points string
		if err := res.Scan(&day, &amount, &points); err != nil {
			log.Println(err)
			return nil, err
		}
		deal := model.DailyDeal{Day: day}
		deal.Amount, _ = decimal.NewFromString(amount)
		deal.Points, _ = decimal.NewFromString(points)
		list = append(list, deal)
	}

	return list, nil
}

func (d *DealRepository) GetCacheKey(day string) string {
	return fmt.Sprintf("alpha-deal-%s", day)
}

// MemoryDealRepository keeps the ledger in process, for runs without a database.
type MemoryDealRepository struct {
	deals map[string]model.DailyDeal
	lock  sync.RWMutex
}

func (m *MemoryDealRepository) AddDeal(day string, amount decimal.Decimal, points decimal.Decimal) error {
	m.lock.Lock()
	defer m.lock.Unlock()

	if m.deals == nil {
		m.deals = make(map[string]model.DailyDeal)
	}

	deal, ok := m.deals[day]
	if !ok {
		deal = model.DailyDeal{Day: day, Amount: decimal.Zero, Points: decimal.Zero}
	}
	m.deals[day] = deal.Add(amount, points)

	return nil
}

func (m *MemoryDealRepository) GetDeal(day string) (model.DailyDeal, error) {
	m.lock.RLock()
	defer m.lock.RUnlock()

	deal, ok := m.deals[day]
	if !ok {
		return model.DailyDeal{Day: day, Amount: decimal.Zero, Points: decimal.Zero}, nil
	}

	return deal, nil
}

func (m *MemoryDealRepository) GetDeals() ([]model.DailyDeal, error) {
	m.lock.RLock()
	defer m.lock.RUnlock()

	list := make([]model.DailyDeal, 0, len(m.deals))
	for _, deal := range m.deals {
		list = append(list, deal)
	}

	sort.SliceStable(list, func(i int, j int) bool {
		return list[i].Day > list[j].Day
	})

	return list, nil
}
