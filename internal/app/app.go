package app

import (
	"github.com/ItsNotGoodName/x-railview/internal/config"
	"github.com/ItsNotGoodName/x-railview/internal/rail"
	"github.com/google/uuid"
)

func NormalizeConfig(store *config.Store) error {
	return store.UpdateConfig(func(cfg config.Config) (config.Config, error) {
		for i := range cfg.Programs {
			if cfg.Programs[i].UUID == "" {
				cfg.Programs[i].UUID = uuid.NewString()
			}
		}

		return cfg, nil
	})
}

func Programs(cfg config.Config) []rail.ExecOrder {
	var orders []rail.ExecOrder
	for _, p := range cfg.Programs {
		orders = append(orders, rail.ExecOrder{
			Program:    p.Exec,
			Args:       p.Args,
			WorkingDir: p.WorkingDir,
		})
	}
	return orders
}
