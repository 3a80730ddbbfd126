package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/sngm3741/restreviews/api/internal/config"
	mongodoc "github.com/sngm3741/restreviews/api/internal/infrastructure/mongo"
	"github.com/sngm3741/restreviews/api/internal/server"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func main() {
	if err := godotenv.Overload(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, ".env load warning: %v\n", err)
	}
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	clientOptions := options.Client().ApplyURI(cfg.MongoURI).SetServerAPIOptions(options.ServerAPI(options.ServerAPIVersion1))
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		cfg.ServerLog.Fatalf("MongoDB 接続に失敗しました: %v", err)
	}

	restaurants := mongodoc.NewCollectionHandle(cfg.RestaurantCollection, cfg.ServerLog)
	restaurants.Bind(client, cfg.MongoDatabase)

	if cfg.EnsureIndexes && restaurants.Bound() {
		if err := mongodoc.EnsureIndexes(ctx, client.Database(cfg.MongoDatabase), cfg.RestaurantCollection, cfg.ReviewCollection); err != nil {
			cfg.ServerLog.Printf("インデックス作成に失敗しました: %v", err)
		}
	}

	app := server.New(cfg, client, restaurants)
	if err := app.Run(); err != nil {
		log.Fatalf("サーバー起動に失敗: %v", err)
	}
}
