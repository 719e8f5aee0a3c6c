package repository

import (
	"database/sql"
	"gitlab.com/open-soft/go-alpha-bot/src/model"
	"log"
)

type CycleStatStorageInterface interface {
	WriteCycleStat(stat model.CycleStat) error
}

type CycleStatRepository struct {
	DB *sql.DB
}

func (c *CycleStatRepository) WriteCycleStat(stat model.CycleStat) error {
	liquidated := 0
	if stat.Liquidated {
		liquidated = 1
	}

	_, err := c.DB.Exec(`
		INSERT INTO default.alpha_cycles (*) VALUES(
			?, -- RunId
			?, -- Symbol
			?, -- Mode
			?, -- CycleIndex
			?, -- BuyPrice
			?, -- SellPrice
			?, -- Amount
			?, -- Points
			?, -- Trend
			?, -- Liquidated
			?, -- Balance
			?, -- StartedAt
			? -- FinishedAt
		)
	`,
		stat.RunId,
		stat.Symbol,
		stat.Mode,
		stat.CycleIndex,
		stat.BuyPrice,
		stat.SellPrice,
		stat.Amount,
		stat.Points,
		string(stat.Trend),
		liquidated,
		stat.Balance,
		stat.StartedAt.Value()/1000,
		stat.FinishedAt.Value()/1000,
	)

	if err != nil {
		log.Printf("[%s] cycle stat: %s", stat.Symbol, err.Error())
		return err
	}

	return nil
}
