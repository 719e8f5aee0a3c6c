package repository

import (
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"sync"
	"testing"
)

func TestMemoryDealRepositoryMergesAdditively(t *testing.T) {
	assertion := assert.New(t)

	repo := MemoryDealRepository{}
	_ = repo.AddDeal("2025-01-01", decimal.NewFromInt(50), decimal.NewFromInt(100))
	_ = repo.AddDeal("2025-01-01", decimal.NewFromInt(25), decimal.NewFromInt(50))
	_ = repo.AddDeal("2025-01-02", decimal.NewFromInt(10), decimal.NewFromInt(10))

	deal, err := repo.GetDeal("2025-01-01")
	assertion.Nil(err)
	assertion.Equal("75", deal.Amount.String())
	assertion.Equal("150", deal.Points.String())

	deals, _ := repo.GetDeals()
	assertion.Len(deals, 2)
	assertion.Equal("2025-01-02", deals[0].Day)
}

func TestMemoryDealRepositoryUnknownDayIsZero(t *testing.T) {
	assertion := assert.New(t)

	repo := MemoryDealRepository{}
	deal, err := repo.GetDeal("2025-03-03")
	assertion.Nil(err)
	assertion.True(deal.Amount.IsZero())
	assertion.True(deal.Points.IsZero())
}

func TestMemoryDealRepositoryOrderIndependent(t *testing.T) {
	assertion := assert.New(t)

	amounts := []int64{50, 12, 33, 7, 98}

	forward := MemoryDealRepository{}
	for _, amount := range amounts {
		_ = forward.AddDeal("2025-01-01", decimal.NewFromInt(amount), decimal.NewFromInt(amount*2))
	}

	concurrent := MemoryDealRepository{}
	wg := sync.WaitGroup{}
	for i := len(amounts) - 1; i >= 0; i-- {
		wg.Add(1)
		go func(amount int64) {
			defer wg.Done()
			_ = concurrent.AddDeal("2025-01-01", decimal.NewFromInt(amount), decimal.NewFromInt(amount*2))
		}(amounts[i])
	}
	wg.Wait()

	a, _ := forward.GetDeal("2025-01-01")
	b, _ := concurrent.GetDeal("2025-01-01")
	assertion.True(a.Amount.Equal(b.Amount))
	assertion.True(a.Points.Equal(b.Points))
	assertion.Equal("200", b.Amount.String())
	assertion.Equal("400", b.Points.String())
}

func TestMemorySettingRepositoryDefaults(t *testing.T) {
	assertion := assert.New(t)

	repo := MemorySettingRepository{}
	config, err := repo.GetRunConfig("default")
	assertion.Nil(err)
	assertion.Equal("Order", config.Mode)

	config.Mode = "Reverse"
	_ = repo.SaveRunConfig("default", config)
	stored, _ := repo.GetRunConfig("default")
	assertion.Equal("Reverse", stored.Mode)
}
