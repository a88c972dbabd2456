package config

import (
	"context"
	"database/sql"
	"log"
	"os"
	"time"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
)

// App holds the env-driven settings for the ordering service.
type App struct {
	ListenAddr     string
	CatalogBaseURL string
	CatalogAPIKey  string
	Language       string
}

func Load() App {
	return App{
		ListenAddr:     getenv("LISTEN_ADDR", ":8080"),
		CatalogBaseURL: getenv("CATALOG_BASE_URL", "https://uat.onebanc.ai"),
		CatalogAPIKey:  getenv("CATALOG_API_KEY", "uonebancservceemultrS3cg8RaL30"),
		Language:       getenv("DEFAULT_LANGUAGE", "en"),
	}
}

func MustInitRedis() *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr: getenv("REDIS_HOST", "localhost") + ":" + getenv("REDIS_PORT", "6379"),
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}

	return client
}

// InitPostgres connects to the order archive database. Returns nil when
// DB_HOST is unset; the archive is optional.
func InitPostgres() *sql.DB {
	dbHost := os.Getenv("DB_HOST")
	if dbHost == "" {
		return nil
	}

	connStr := "host=" + dbHost + " port=" + getenv("DB_PORT", "5432") +
		" user=" + os.Getenv("DB_USER") + " password=" + os.Getenv("DB_PASSWORD") +
		" dbname=" + os.Getenv("DB_NAME") + " sslmode=disable"

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	if err = db.Ping(); err != nil {
		log.Fatal("Failed to ping database:", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	return db
}

// NewKafkaWriter builds the order-events writer. Returns nil when
// KAFKA_BROKER is unset; events are optional.
func NewKafkaWriter(topic string) *kafka.Writer {
	broker := os.Getenv("KAFKA_BROKER")
	if broker == "" {
		return nil
	}

	return &kafka.Writer{
		Addr:     kafka.TCP(broker),
		Topic:    topic,
		Balancer: &kafka.LeastBytes{},
	}
}

func getenv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
