package main

import (
	"context"
	"log"

	"cravecart/config"
	httpapi "cravecart/internal/api/http"
	"cravecart/internal/cart"
	"cravecart/internal/catalog"
	"cravecart/internal/orders"
	"cravecart/internal/payment"
	"cravecart/internal/storage"
	"cravecart/internal/upstream"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	rdb := config.MustInitRedis()
	defer rdb.Close()
	store := storage.NewRedisStore(rdb)

	var archive orders.Archive
	if db := config.InitPostgres(); db != nil {
		defer db.Close()
		pgArchive := storage.NewOrderArchive(db)
		if err := pgArchive.EnsureSchema(); err != nil {
			log.Fatal("Failed to ensure archive schema:", err)
		}
		archive = pgArchive
	}

	ledger := cart.NewLedger(store)
	ledger.Hydrate(ctx)

	history := orders.NewHistory(store, archive)
	history.Hydrate(ctx)

	client := upstream.NewClient(cfg.CatalogBaseURL, cfg.CatalogAPIKey, nil)
	client.SetLanguage(cfg.Language)
	loader := catalog.NewLoader(client)

	var events payment.EventPublisher
	if writer := config.NewKafkaWriter("orders"); writer != nil {
		defer writer.Close()
		events = storage.NewKafkaPublisher(writer)
	}

	checkout := payment.NewService(client, ledger, history, events)

	handler := httpapi.NewHandler(ledger, loader, history, checkout, client)
	httpapi.StartServer(cfg.ListenAddr, httpapi.NewRouter(handler))
}
