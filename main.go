package main

import (
	"log"

	"github.com/kovaikural/kural/config"
	"github.com/kovaikural/kural/models"
	"github.com/kovaikural/kural/routes"
	"github.com/kovaikural/kural/services"
	"github.com/kovaikural/kural/utils"
)

func main() {
	cfg := config.Load()

	if err := utils.InitLogger(cfg); err != nil {
		log.Fatalf("logger init failed: %v", err)
	}
	defer func() { _ = utils.Logger.Sync() }()

	db := config.InitDatabase(
		&models.User{},
		&models.Follow{},
		&models.SavedPost{},
		&models.Category{},
		&models.CategoryMember{},
		&models.Post{},
		&models.PostMention{},
		&models.Comment{},
		&models.Vote{},
		&models.Notification{},
		&models.Report{},
	)

	hub := services.NewHub()
	router := routes.SetupRouter(db, hub)

	addr := ":" + cfg.AppPort
	utils.Sugar.Infof("listening on %s", addr)
	if err := utils.GraceServer(addr, router); err != nil {
		utils.Sugar.Errorf("server exited: %v", err)
	}
}
