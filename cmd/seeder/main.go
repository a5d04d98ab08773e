package main

import (
	"context"
	"os"

	"bootcamp-directory/internal/config"
	domainBootcamp "bootcamp-directory/internal/domain/bootcamp"
	domainCourse "bootcamp-directory/internal/domain/course"
	domainReview "bootcamp-directory/internal/domain/review"
	"bootcamp-directory/internal/infrastructure/database/mongodb"
	"bootcamp-directory/internal/infrastructure/geocoder"
	"bootcamp-directory/internal/logger"
	"bootcamp-directory/internal/seed"
	courseUC "bootcamp-directory/internal/usecase/course"

	"github.com/pkg/errors"
	"github.com/urfave/cli"
	"go.uber.org/zap"
)

func main() {
	app := cli.NewApp()
	app.Name = "seeder"
	app.Usage = "load or clear bootcamp directory fixtures"
	app.Commands = []cli.Command{
		importCommand(),
		destroyCommand(),
	}

	if err := app.Run(os.Args); err != nil {
		logger.Error("Seeder failed", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
	logger.Sync()
}

func importCommand() cli.Command {
	return cli.Command{
		Name:    "import",
		Aliases: []string{"i"},
		Usage:   "insert users, bootcamps, courses and reviews from JSON fixtures",
		Flags: []cli.Flag{
			cli.StringFlag{
				Name:  "dir, d",
				Usage: "directory holding users.json, bootcamps.json, courses.json and reviews.json",
				Value: "./data",
			},
			cli.BoolFlag{
				Name:  "geocode",
				Usage: "geocode bootcamps whose fixture has no location",
			},
		},
		Action: func(c *cli.Context) error {
			ctx, cfg, db, err := connect()
			if err != nil {
				return err
			}
			defer db.Close(context.Background())

			ds, err := seed.Load(c.String("dir"))
			if err != nil {
				return errors.Wrap(err, "problem reading fixtures")
			}

			var gc seed.Geocoder
			if c.Bool("geocode") {
				gc = geocoder.NewClient(&cfg.Geocoder)
			}
			docs, err := ds.Documents(ctx, gc)
			if err != nil {
				return errors.Wrap(err, "problem preparing documents")
			}

			if err := db.EnsureIndexes(ctx); err != nil {
				return err
			}

			batches := []struct {
				collection string
				docs       []interface{}
			}{
				{mongodb.UsersCollection, seed.Any(docs.Users)},
				{mongodb.BootcampsCollection, seed.Any(docs.Bootcamps)},
				{mongodb.CoursesCollection, seed.Any(docs.Courses)},
				{mongodb.ReviewsCollection, seed.Any(docs.Reviews)},
			}
			for _, b := range batches {
				n, err := db.InsertMany(ctx, b.collection, b.docs)
				if err != nil {
					return err
				}
				logger.Info("Imported", zap.String("collection", b.collection), zap.Int("documents", n))
			}

			return refreshAverages(ctx, db, docs.BootcampIDs)
		},
	}
}

func destroyCommand() cli.Command {
	return cli.Command{
		Name:    "destroy",
		Aliases: []string{"d"},
		Usage:   "delete every document in the application collections",
		Action: func(c *cli.Context) error {
			ctx, _, db, err := connect()
			if err != nil {
				return err
			}
			defer db.Close(context.Background())

			if err := db.Drop(ctx); err != nil {
				return err
			}
			logger.Info("Data destroyed")
			return nil
		},
	}
}

func connect() (context.Context, *config.Config, *mongodb.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, err
	}
	if err := logger.Init(cfg.Server.Environment); err != nil {
		return nil, nil, nil, err
	}
	if cfg.Mongo.URI == "" {
		return nil, nil, nil, errors.New("MONGO_URI is required")
	}

	ctx := context.Background()
	db, err := mongodb.NewDB(ctx, cfg)
	if err != nil {
		return nil, nil, nil, errors.Wrap(err, "problem connecting to database")
	}
	return ctx, cfg, db, nil
}

// refreshAverages fills averageCost and averageRating the way course and
// review writes through the API would.
func refreshAverages(ctx context.Context, db *mongodb.DB, bootcampIDs []string) error {
	var (
		bootcamps domainBootcamp.Repository = mongodb.NewBootcampRepository(db)
		courses   domainCourse.Repository   = mongodb.NewCourseRepository(db)
		reviews   domainReview.Repository   = mongodb.NewReviewRepository(db)
	)

	for _, id := range bootcampIDs {
		cost, err := courses.AverageTuition(ctx, id)
		if err != nil {
			return err
		}
		if err := bootcamps.SetAverageCost(ctx, id, courseUC.RoundCost(cost)); err != nil {
			return err
		}

		rating, err := reviews.AverageRating(ctx, id)
		if err != nil {
			return err
		}
		if err := bootcamps.SetAverageRating(ctx, id, rating); err != nil {
			return err
		}
	}
	return nil
}
