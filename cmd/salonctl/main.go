// Command salonctl runs maintenance tasks against the salon database.
package main

import (
	"fmt"
	"os"

	"anoa.com/weddingsalon/internal/config"
	"anoa.com/weddingsalon/pkg/database"
	"gorm.io/gorm"
)

func main() {
	root := newRootCmd(func() (*gorm.DB, error) {
		cfg, err := config.Load()
		if err != nil {
			return nil, err
		}
		return database.Connect(cfg.DSN(), false)
	})

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
