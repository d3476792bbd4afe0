package chmigrations

import (
	"github.com/uptrace/go-clickhouse/chmigrate"
)

var Migrations = chmigrate.NewMigrations()

func init() {
	if err := Migrations.DiscoverCaller(); err != nil {
		panic(err)
	}
}
