package main

import (
	"time"

	"github.com/postline/postline/cache"
	"github.com/postline/postline/config"
	"github.com/postline/postline/models"
	"github.com/postline/postline/routes"
	"github.com/postline/postline/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	db := config.InitDatabase(
		&models.User{},
		&models.Group{},
		&models.Post{},
		&models.Comment{},
		&models.Follow{},
		&models.PageView{},
	)

	// Page cache for the global feed: Redis when reachable, in-process
	// otherwise. Either way the TTL comes from configuration.
	ttl := time.Duration(cfg.CacheTTLSeconds) * time.Second
	var pages cache.PageCache
	if rc := utils.GetRedis(); rc != nil {
		pages = cache.NewRedis(rc, ttl)
	} else {
		pages = cache.NewMemory(ttl, nil)
	}

	r := routes.SetupRouter(db, pages)

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
