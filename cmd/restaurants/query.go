package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sngm3741/restreviews/api/internal/restaurants/application"
	"github.com/sngm3741/restreviews/api/internal/restaurants/domain"
	"github.com/urfave/cli"
)

func listCommand() cli.Command {
	return cli.Command{
		Name:  "list",
		Usage: "list restaurants, filtered by at most one of name, cuisine or zipcode",
		Flags: []cli.Flag{
			cli.StringFlag{Name: "name", Usage: "full-text search on the restaurant name (takes precedence)"},
			cli.StringFlag{Name: "cuisine", Usage: "exact cuisine match"},
			cli.StringFlag{Name: "zipcode", Usage: "exact address zipcode match"},
			cli.IntFlag{Name: "page", Value: 0, Usage: "zero-based page index"},
			cli.IntFlag{Name: "page-size", Value: domain.DefaultPageSize, Usage: "restaurants per page"},
			cli.BoolFlag{Name: "strict", Usage: "exit non-zero when the listing degraded to an empty fallback"},
		},
		Action: func(c *cli.Context) error {
			filter := domain.Filter{
				Name:    c.String("name"),
				Cuisine: c.String("cuisine"),
				Zipcode: c.String("zipcode"),
			}
			paging := domain.Paging{Page: c.Int("page"), PageSize: c.Int("page-size")}
			return withRuntime(func(ctx context.Context, rt *runtime) error {
				return runList(ctx, rt.queries, os.Stdout, filter, paging, c.Bool("strict"))
			})
		},
	}
}

func getCommand() cli.Command {
	return cli.Command{
		Name:      "get",
		Usage:     "show one restaurant with its reviews, most recent first",
		ArgsUsage: "<restaurant-id>",
		Action: func(c *cli.Context) error {
			id := strings.TrimSpace(c.Args().First())
			if id == "" {
				return cli.NewExitError("restaurant id is required", 2)
			}
			return withRuntime(func(ctx context.Context, rt *runtime) error {
				return runGet(ctx, rt.queries, os.Stdout, id)
			})
		},
	}
}

func cuisinesCommand() cli.Command {
	return cli.Command{
		Name:  "cuisines",
		Usage: "list distinct cuisines",
		Flags: []cli.Flag{
			cli.BoolFlag{Name: "strict", Usage: "exit non-zero when the listing degraded to an empty fallback"},
		},
		Action: func(c *cli.Context) error {
			return withRuntime(func(ctx context.Context, rt *runtime) error {
				return runCuisines(ctx, rt.queries, os.Stdout, c.Bool("strict"))
			})
		},
	}
}

func runList(ctx context.Context, queries application.RestaurantQueryService, out io.Writer, filter domain.Filter, paging domain.Paging, strict bool) error {
	page := queries.List(ctx, filter, paging)
	if err := printJSON(out, page); err != nil {
		return err
	}
	if page.Degraded() {
		fmt.Fprintf(os.Stderr, "listing degraded to an empty page: %v\n", page.Err)
		if strict {
			return cli.NewExitError("restaurant listing failed", 1)
		}
	}
	return nil
}

func runGet(ctx context.Context, queries application.RestaurantQueryService, out io.Writer, id string) error {
	restaurant, err := queries.Detail(ctx, id)
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}
	return printJSON(out, restaurant)
}

func runCuisines(ctx context.Context, queries application.RestaurantQueryService, out io.Writer, strict bool) error {
	list := queries.Cuisines(ctx)
	if err := printJSON(out, list); err != nil {
		return err
	}
	if list.Degraded() {
		fmt.Fprintf(os.Stderr, "cuisine listing degraded to an empty list: %v\n", list.Err)
		if strict {
			return cli.NewExitError("cuisine listing failed", 1)
		}
	}
	return nil
}

func printJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
