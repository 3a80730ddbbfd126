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
	"github.com/sngm3741/restreviews/api/internal/restaurants/application"
	"github.com/urfave/cli"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var version = "v0.1.0"

// runtime bundles the connected client and the services built on it.
type runtime struct {
	cfg     config.Config
	client  *mongo.Client
	queries application.RestaurantQueryService
}

func connect(ctx context.Context) (*runtime, error) {
	cfg := config.LoadTo(os.Stderr)

	connectCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()
	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", cfg.MongoURI, err)
	}

	restaurants := mongodoc.NewCollectionHandle(cfg.RestaurantCollection, cfg.ServerLog)
	restaurants.Bind(client, cfg.MongoDatabase)

	repo := mongodoc.NewRestaurantRepository(restaurants, cfg.ReviewCollection, mongodoc.ParseJoinMode(cfg.JoinMode), cfg.ServerLog)
	return &runtime{
		cfg:     cfg,
		client:  client,
		queries: application.NewRestaurantQueryService(repo),
	}, nil
}

func (rt *runtime) close() {
	ctx, cancel := context.WithTimeout(context.Background(), rt.cfg.Timeout)
	defer cancel()
	if err := rt.client.Disconnect(ctx); err != nil {
		rt.cfg.ServerLog.Printf("MongoDB 切断時にエラー: %v", err)
	}
}

// withRuntime connects, runs fn with a query-scoped context and disconnects.
func withRuntime(fn func(ctx context.Context, rt *runtime) error) error {
	rt, err := connect(context.Background())
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}
	defer rt.close()

	ctx, cancel := context.WithTimeout(context.Background(), rt.cfg.QueryTimeout)
	defer cancel()
	return fn(ctx, rt)
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "restaurants"
	app.Usage = "query and seed the restaurant reviews database"
	app.Version = version
	app.Commands = []cli.Command{
		listCommand(),
		getCommand(),
		cuisinesCommand(),
		seedCommand(),
		indexesCommand(),
	}
	return app
}

func main() {
	if err := godotenv.Overload(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, ".env load warning: %v\n", err)
	}

	if err := newApp().Run(os.Args); err != nil {
		log.Fatal("Error: ", err)
	}
}
