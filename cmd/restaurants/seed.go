package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"os"
	"time"

	mongodoc "github.com/sngm3741/restreviews/api/internal/infrastructure/mongo"
	"github.com/urfave/cli"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type seedOptions struct {
	restaurantCount int
	reviewCount     int
	drop            bool
	randomSeed      int64
}

var (
	cuisineOptions = []string{"American", "Italian", "Chinese", "Japanese", "Mexican", "French", "Indian", "Thai", "Pizza", "Bakery", "Café/Coffee/Tea", "Delicatessen"}
	boroughOptions = []string{"Manhattan", "Brooklyn", "Queens", "Bronx", "Staten Island"}
	zipcodeOptions = map[string][]string{
		"Manhattan":     {"10001", "10003", "10011", "10014", "10019", "10036"},
		"Brooklyn":      {"11201", "11211", "11215", "11222"},
		"Queens":        {"11101", "11354", "11372", "11375"},
		"Bronx":         {"10451", "10458", "10463"},
		"Staten Island": {"10301", "10304", "10314"},
	}
	streetOptions = []string{"Broadway", "Bedford Avenue", "Atlantic Avenue", "Steinway Street", "Arthur Avenue", "Victory Boulevard", "Bleecker Street", "Main Street"}
	namePrefixes  = []string{"Golden", "Little", "Blue", "Corner", "Old", "Happy", "Red", "Lucky", "Grand", "Uncle"}
	nameSuffixes  = []string{"Kitchen", "Diner", "Bistro", "Grill", "House", "Garden", "Cafe", "Tavern", "Noodle Bar", "Trattoria"}
	gradeOptions  = []string{"A", "A", "A", "B", "B", "C", "Z"}
	reviewerNames = []string{"Ned Stark", "Arya Stark", "Jon Snow", "Sansa Stark", "Tyrion Lannister", "Brienne of Tarth", "Samwell Tarly"}
	reviewTexts   = []string{
		"Great food and friendly staff.",
		"Portions were small for the price.",
		"Would come back for the dessert alone.",
		"Service was slow on a Friday night.",
		"Best slice in the neighborhood.",
		"Clean, quiet and reasonably priced.",
		"The menu changed and not for the better.",
	}
)

func seedCommand() cli.Command {
	return cli.Command{
		Name:  "seed",
		Usage: "populate the restaurant and review collections with generated data",
		Flags: []cli.Flag{
			cli.IntFlag{Name: "restaurants", Value: 50, Usage: "number of restaurants to insert"},
			cli.IntFlag{Name: "reviews", Value: 200, Usage: "number of reviews to insert"},
			cli.BoolTFlag{Name: "drop", Usage: "drop existing collections before inserting"},
			cli.Int64Flag{Name: "seed", Usage: "random seed (0 = time based)"},
		},
		Action: func(c *cli.Context) error {
			opts := seedOptions{
				restaurantCount: c.Int("restaurants"),
				reviewCount:     c.Int("reviews"),
				drop:            c.BoolT("drop"),
				randomSeed:      c.Int64("seed"),
			}
			if opts.restaurantCount <= 0 {
				return cli.NewExitError("--restaurants must be positive", 2)
			}
			return withRuntime(func(ctx context.Context, rt *runtime) error {
				return runSeed(ctx, rt, opts)
			})
		},
	}
}

func indexesCommand() cli.Command {
	return cli.Command{
		Name:  "indexes",
		Usage: "create the indexes the read paths depend on",
		Action: func(c *cli.Context) error {
			return withRuntime(func(ctx context.Context, rt *runtime) error {
				db := rt.client.Database(rt.cfg.MongoDatabase)
				if err := mongodoc.EnsureIndexes(ctx, db, rt.cfg.RestaurantCollection, rt.cfg.ReviewCollection); err != nil {
					return cli.NewExitError(fmt.Sprintf("インデックス作成に失敗しました: %v", err), 1)
				}
				fmt.Fprintf(os.Stderr, "indexes ensured on %s.%s and %s.%s\n",
					rt.cfg.MongoDatabase, rt.cfg.RestaurantCollection, rt.cfg.MongoDatabase, rt.cfg.ReviewCollection)
				return nil
			})
		},
	}
}

func runSeed(ctx context.Context, rt *runtime, opts seedOptions) error {
	seed := opts.randomSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))
	db := rt.client.Database(rt.cfg.MongoDatabase)

	if opts.drop {
		dropCollections(ctx, db, rt.cfg.RestaurantCollection, rt.cfg.ReviewCollection)
		log.Printf("既存コレクションを削除しました")
	}
	if err := mongodoc.EnsureIndexes(ctx, db, rt.cfg.RestaurantCollection, rt.cfg.ReviewCollection); err != nil {
		return cli.NewExitError(fmt.Sprintf("インデックス作成に失敗しました: %v", err), 1)
	}

	now := time.Now().UTC()
	restaurants := generateRestaurants(rng, opts.restaurantCount, now)
	if err := insertMany(ctx, db.Collection(rt.cfg.RestaurantCollection), toAnySlice(restaurants)); err != nil {
		return cli.NewExitError(fmt.Sprintf("レストランデータの挿入に失敗しました: %v", err), 1)
	}

	reviews := generateReviews(rng, restaurants, opts.reviewCount, now)
	if err := insertMany(ctx, db.Collection(rt.cfg.ReviewCollection), toAnySlice(reviews)); err != nil {
		return cli.NewExitError(fmt.Sprintf("レビューデータの挿入に失敗しました: %v", err), 1)
	}

	log.Printf("Seed 完了: restaurants=%d reviews=%d seed=%d", len(restaurants), len(reviews), seed)
	log.Printf("Mongo: %s / %s", rt.cfg.MongoURI, rt.cfg.MongoDatabase)
	return nil
}

func dropCollections(ctx context.Context, db *mongo.Database, names ...string) {
	for _, name := range names {
		if err := db.Collection(name).Drop(ctx); err != nil {
			log.Printf("WARN: コレクション %s の削除に失敗: %v", name, err)
		}
	}
}

func generateRestaurants(rng *rand.Rand, count int, now time.Time) []mongodoc.RestaurantDocument {
	docs := make([]mongodoc.RestaurantDocument, 0, count)
	for i := 0; i < count; i++ {
		borough := boroughOptions[rng.Intn(len(boroughOptions))]
		zips := zipcodeOptions[borough]

		grades := make([]mongodoc.GradeDocument, 1+rng.Intn(4))
		for g := range grades {
			grades[g] = mongodoc.GradeDocument{
				Date:  now.Add(-time.Duration(rng.Intn(365*3)) * 24 * time.Hour),
				Grade: gradeOptions[rng.Intn(len(gradeOptions))],
				Score: rng.Intn(40),
			}
		}

		docs = append(docs, mongodoc.RestaurantDocument{
			ID:           primitive.NewObjectID(),
			RestaurantID: fmt.Sprintf("%08d", 30000000+i),
			Name:         fmt.Sprintf("%s %s", namePrefixes[rng.Intn(len(namePrefixes))], nameSuffixes[rng.Intn(len(nameSuffixes))]),
			Cuisine:      cuisineOptions[rng.Intn(len(cuisineOptions))],
			Borough:      borough,
			Address: mongodoc.AddressDocument{
				Building: fmt.Sprintf("%d", 1+rng.Intn(999)),
				Street:   streetOptions[rng.Intn(len(streetOptions))],
				Zipcode:  zips[rng.Intn(len(zips))],
				Coord:    []float64{-74.05 + rng.Float64()*0.35, 40.55 + rng.Float64()*0.35},
			},
			Grades: grades,
		})
	}
	return docs
}

func generateReviews(rng *rand.Rand, restaurants []mongodoc.RestaurantDocument, total int, now time.Time) []mongodoc.ReviewDocument {
	if len(restaurants) == 0 || total <= 0 {
		return nil
	}
	perRestaurant := distribute(total, len(restaurants), 0, total, rng)

	docs := make([]mongodoc.ReviewDocument, 0, total)
	for i, restaurant := range restaurants {
		for j := 0; j < perRestaurant[i]; j++ {
			reviewer := rng.Intn(len(reviewerNames))
			docs = append(docs, mongodoc.ReviewDocument{
				ID:           primitive.NewObjectID(),
				RestaurantID: restaurant.ID,
				UserID:       fmt.Sprintf("user-%03d", reviewer),
				Name:         reviewerNames[reviewer],
				Text:         reviewTexts[rng.Intn(len(reviewTexts))],
				Date:         now.Add(-time.Duration(rng.Intn(180*24)) * time.Hour),
			})
		}
	}
	return docs
}

func insertMany(ctx context.Context, col *mongo.Collection, docs []interface{}) error {
	if len(docs) == 0 {
		return nil
	}
	_, err := col.InsertMany(ctx, docs)
	return err
}

func toAnySlice[T any](in []T) []interface{} {
	out := make([]interface{}, len(in))
	for i := range in {
		out[i] = in[i]
	}
	return out
}

// distribute splits total across buckets, each holding between min and max.
// Anything beyond buckets*max is dropped.
func distribute(total, buckets, minPerBucket, maxPerBucket int, rng *rand.Rand) []int {
	if buckets <= 0 {
		return nil
	}
	if maxPerBucket < minPerBucket {
		maxPerBucket = minPerBucket
	}
	counts := make([]int, buckets)
	for i := range counts {
		counts[i] = minPerBucket
	}
	remaining := total - minPerBucket*buckets
	if capacity := (maxPerBucket - minPerBucket) * buckets; remaining > capacity {
		remaining = capacity
	}
	for remaining > 0 {
		i := rng.Intn(buckets)
		if counts[i] >= maxPerBucket {
			continue
		}
		counts[i]++
		remaining--
	}
	return counts
}
