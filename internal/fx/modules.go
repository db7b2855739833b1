package fx

import (
	"database/sql"
	"vlr-scraper/internal/api"
	"vlr-scraper/internal/config"
	"vlr-scraper/internal/database"
	"vlr-scraper/internal/db"
	"vlr-scraper/internal/logger"
	"vlr-scraper/internal/parser"
	"vlr-scraper/internal/repository"
	"vlr-scraper/internal/server"
	"vlr-scraper/internal/service"

	"go.uber.org/fx"
)

func ProvideQueries(sqlDB *sql.DB) *db.Queries {
	return db.New(sqlDB)
}

func ProvideParser(cfg *config.Config) (*parser.Parser, error) {
	return parser.New(cfg.BaseURL)
}

func ProvideFetcher(client *api.VLRClient) service.Fetcher {
	return client
}

// storage is shared by the read server and the scraper.
var storage = fx.Options(
	logger.Module,
	config.Module,
	fx.Provide(database.New),
	fx.Provide(ProvideQueries),
	// repos
	fx.Provide(repository.NewTeamRepository),
	fx.Provide(repository.NewPlayerRepository),
	fx.Provide(repository.NewEventRepository),
	fx.Provide(repository.NewMatchRepository),
	fx.Provide(repository.NewPlayerStatsRepository),
	fx.Provide(repository.NewMapRepository),
)

var Module = fx.Options(
	storage,
	// svc
	fx.Provide(service.NewQueryService),
	// server
	fx.Provide(server.NewServer),
)

var ScraperModule = fx.Options(
	storage,
	// api client
	fx.Provide(api.NewVLRClient),
	fx.Provide(ProvideFetcher),
	fx.Provide(ProvideParser),
	// svc
	fx.Provide(service.NewIngestService),
	fx.Provide(service.NewCrawler),
)
