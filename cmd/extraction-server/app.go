package main

import (
	"github.com/gin-gonic/gin"

	"github.com/Cha-Sir/Camellia-Plugin-sub000/internal/api"
	"github.com/Cha-Sir/Camellia-Plugin-sub000/internal/catalog"
	"github.com/Cha-Sir/Camellia-Plugin-sub000/internal/config"
	"github.com/Cha-Sir/Camellia-Plugin-sub000/internal/constants"
	"github.com/Cha-Sir/Camellia-Plugin-sub000/internal/engine"
	"github.com/Cha-Sir/Camellia-Plugin-sub000/internal/logging"
	"github.com/Cha-Sir/Camellia-Plugin-sub000/internal/notify"
	"github.com/Cha-Sir/Camellia-Plugin-sub000/internal/service"
	"github.com/Cha-Sir/Camellia-Plugin-sub000/internal/storage"
)

type app struct {
	env     config.Env
	cfg     *config.LoadedConfig
	manager *service.Manager
	router  *gin.Engine
}

func loadConfigOrExit(env config.Env) *config.LoadedConfig {
	cfg, err := config.LoadConfig(env.ConfigPath)
	if err != nil {
		logging.Fatal("Missing or invalid extraction configuration", err, logging.Fields{
			constants.LogFieldPath: env.ConfigPath,
			"hint":                 "create an extraction_config.json with starter_weapon, weapons, items, npcs and locations",
		})
	}
	env.Apply(cfg)
	return cfg
}

func createRepositoryOrExit(env config.Env, cfg *config.LoadedConfig) storage.Repository {
	db, err := storage.OpenAndMigrate(env.DBPath)
	if err != nil {
		logging.Fatal("Failed to initialize database", err, logging.Fields{constants.LogFieldPath: env.DBPath})
	}
	return storage.NewSQLiteRepository(db, cfg.StartingFunds, cfg.StarterWeapon)
}

func newApp(env config.Env, cfg *config.LoadedConfig) *app {
	cat := catalog.New(cfg)
	repo := createRepositoryOrExit(env, cfg)
	hub := notify.NewHub()

	rules := engine.DefaultRules()
	rules.CollectibleDiscount = cfg.CollectibleDiscount
	manager := service.NewManager(cat, repo, notify.Fanout{notify.LogSink{}, hub}, service.WithRules(rules))

	router := gin.New()
	router.Use(gin.Recovery())
	api.Register(router, api.NewQueueHandler(manager, repo, cat), hub)

	return &app{env: env, cfg: cfg, manager: manager, router: router}
}
