package main

import (
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"

	"github.com/ridewell/motorbill/internal/bill"
	"github.com/ridewell/motorbill/internal/catalog"
	"github.com/ridewell/motorbill/internal/clock"
	"github.com/ridewell/motorbill/internal/config"
	"github.com/ridewell/motorbill/internal/document/render"
	"github.com/ridewell/motorbill/internal/logger"
	"github.com/ridewell/motorbill/internal/migration"
	"github.com/ridewell/motorbill/internal/reconcile"
	"github.com/ridewell/motorbill/internal/scheduler"
	"github.com/ridewell/motorbill/internal/server"
	"github.com/ridewell/motorbill/pkg/db"
)

func main() {
	app := fx.New(
		config.Module,
		logger.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,

		catalog.Module,
		bill.Module,
		reconcile.Module,
		render.Module,
		scheduler.Module,

		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
