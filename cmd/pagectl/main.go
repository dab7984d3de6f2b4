// Command pagectl opens a product page against a running catalog API,
// applies option choices the way a shopper would and prints the resulting
// view. With --add it submits the selection to the cart.
//
//	pagectl --base-url http://localhost:8080 --choose 1=12 --choose 2=21 /products/shirt
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	flag "github.com/spf13/pflag"

	"github.com/GTDGit/gtd_catalog/internal/catalog"
	sf "github.com/GTDGit/gtd_catalog/internal/storefront"
	"github.com/GTDGit/gtd_catalog/pkg/storefront"
)

type choice struct {
	typeID   int
	optionID int
}

func main() {
	baseURL := flag.String("base-url", envOr("STOREFRONT_URL", "http://localhost:8080"), "catalog API base URL")
	token := flag.String("token", os.Getenv("STOREFRONT_TOKEN"), "customer bearer token, required for --add")
	choices := flag.StringArray("choose", nil, "option choice as typeId=optionId, repeatable")
	quantity := flag.Int("quantity", 0, "order quantity")
	add := flag.Bool("add", false, "add the final selection to the cart")
	timeout := flag.Duration("timeout", 10*time.Second, "per-request timeout")
	verbose := flag.BoolP("verbose", "v", false, "debug logging")
	flag.Parse()

	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: pagectl [flags] /products/<slug>")
		os.Exit(2)
	}

	parsed, err := parseChoices(*choices)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	if err := run(*baseURL, *token, flag.Arg(0), parsed, *quantity, *add, *timeout); err != nil {
		log.Error().Err(err).Msg("pagectl failed")
		os.Exit(1)
	}
}

func run(baseURL, token, pagePath string, choices []choice, quantity int, add bool, timeout time.Duration) error {
	ctx := context.Background()

	u, err := url.Parse(pagePath)
	if err != nil {
		return fmt.Errorf("invalid page path: %w", err)
	}
	requested := catalog.DecodeQuery(u.Query())

	client := storefront.NewClient(baseURL, token, timeout)
	payload, err := client.FetchPage(ctx, u.Path, requested)
	if err != nil {
		return fmt.Errorf("failed to open page: %w", err)
	}

	syncer := sf.NewSync(client, timeout)
	page := sf.NewPage(u.Path, payload.Product, payload.VariationOptions, syncer, sf.NewCartSubmitter(client, timeout))

	for _, c := range choices {
		if !page.Choose(ctx, c.typeID, c.optionID) {
			log.Warn().Int("type_id", c.typeID).Int("option_id", c.optionID).Msg("Choice ignored")
		}
	}
	syncer.Wait()
	if err := page.SyncError(); err != nil {
		log.Warn().Err(err).Msg("Page shows the last known product data")
	}

	if quantity > 0 {
		if err := page.SetQuantity(quantity); err != nil {
			return err
		}
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(page.View()); err != nil {
		return err
	}

	if add {
		if err := page.AddToCart(ctx); err != nil {
			return err
		}
		log.Info().Str("url", page.URL()).Msg("Added to cart")
	}
	return nil
}

func parseChoices(raw []string) ([]choice, error) {
	out := make([]choice, 0, len(raw))
	for _, r := range raw {
		t, o, ok := strings.Cut(r, "=")
		if !ok {
			return nil, fmt.Errorf("invalid --choose %q, want typeId=optionId", r)
		}
		typeID, err := strconv.Atoi(strings.TrimSpace(t))
		if err != nil {
			return nil, fmt.Errorf("invalid type id in %q", r)
		}
		optionID, err := strconv.Atoi(strings.TrimSpace(o))
		if err != nil {
			return nil, fmt.Errorf("invalid option id in %q", r)
		}
		out = append(out, choice{typeID: typeID, optionID: optionID})
	}
	return out, nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
