package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"

	log "github.com/sirupsen/logrus"

	"github.com/buymove/buymove-go/internal/api"
	"github.com/buymove/buymove-go/internal/config"
	"github.com/buymove/buymove-go/internal/favorites"
	"github.com/buymove/buymove-go/internal/models"
	"github.com/buymove/buymove-go/internal/profile"
	"github.com/buymove/buymove-go/internal/session"
	"github.com/buymove/buymove-go/internal/store"
	"github.com/buymove/buymove-go/internal/vehicles"
)

type app struct {
	cfg       *config.Config
	session   *session.Client
	vehicles  *vehicles.Service
	favorites *favorites.Service
	profile   *profile.Store
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("failed to load configuration")
	}

	st := openStore(cfg)
	sess := session.New(st)

	var client *api.Client
	if cfg.APIBaseURL != "" {
		client = api.NewClient(cfg.APIBaseURL, sess.Token)
		sess.UseAPI(client)
	}
	sess.Init(context.Background())

	a := &app{
		cfg:       cfg,
		session:   sess,
		vehicles:  vehicles.New(cfg, st, client),
		favorites: favorites.New(cfg, st, client, sess.User),
		profile:   profile.New(st),
	}

	if err := a.run(os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}

func openStore(cfg *config.Config) store.Store {
	if cfg.Redis.Addr != "" {
		rs, err := store.NewRedisStore(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err == nil {
			return rs
		}
		log.WithError(err).Warn("redis store unavailable, falling back to file store")
	}
	fs, err := store.NewFileStore(cfg.StorePath)
	if err != nil {
		log.WithError(err).Warn("file store unavailable, data will not persist")
		return store.NewMemoryStore()
	}
	return fs
}

func (a *app) run(args []string) error {
	if len(args) == 0 {
		usage()
		return nil
	}
	ctx := context.Background()

	switch args[0] {
	case "list":
		return a.list(ctx, args[1:])
	case "show":
		if len(args) < 2 {
			return fmt.Errorf("usage: buymove show <id>")
		}
		return a.show(ctx, args[1])
	case "recommend":
		if len(args) < 2 {
			return fmt.Errorf("usage: buymove recommend <id>")
		}
		return a.recommend(ctx, args[1])
	case "fav":
		if len(args) < 2 {
			return fmt.Errorf("usage: buymove fav <id>")
		}
		return a.toggleFavorite(ctx, args[1])
	case "favs":
		return a.listFavorites(ctx)
	case "seed":
		return a.seed(ctx)
	case "profile":
		return a.showProfile()
	default:
		usage()
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func (a *app) list(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	q := fs.String("q", "", "free-text query")
	brand := fs.String("brand", "", "brand filter")
	color := fs.String("color", "", "color filter")
	location := fs.String("location", "", "location filter")
	doors := fs.Int("doors", 0, "door count filter")
	minPrice := fs.Float64("min-price", 0, "minimum price")
	maxPrice := fs.Float64("max-price", 0, "maximum price")
	page := fs.Int("page", 1, "page number")
	pageSize := fs.Int("page-size", 12, "page size")
	if err := fs.Parse(args); err != nil {
		return err
	}

	result, err := a.vehicles.List(ctx, models.FilterParams{
		Q:        *q,
		Brand:    *brand,
		Color:    *color,
		Doors:    *doors,
		Location: *location,
		MinPrice: *minPrice,
		MaxPrice: *maxPrice,
		Page:     *page,
		PageSize: *pageSize,
	})
	if err != nil {
		return err
	}

	for _, v := range result.Items {
		fmt.Printf("%-38s %-28s R$ %10.2f  %s\n", v.ID, v.Title, v.Price, v.Location)
	}
	fmt.Printf("%d of %d listings (page %d)\n", len(result.Items), result.Total, *page)
	return nil
}

func (a *app) show(ctx context.Context, id string) error {
	v, err := a.vehicles.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if v == nil {
		fmt.Println("listing not found")
		return nil
	}
	fmt.Printf("%s\n  brand: %s  model: %s  year: %d\n  price: R$ %.2f  mileage: %.0f km\n  %s\n",
		v.Title, v.Brand, v.Model, v.Year, v.Price, v.Mileage, v.Description)
	return nil
}

func (a *app) recommend(ctx context.Context, id string) error {
	items, err := a.vehicles.Recommendations(ctx, id)
	if err != nil {
		return err
	}
	for _, v := range items {
		fmt.Printf("%-38s %-28s R$ %10.2f\n", v.ID, v.Title, v.Price)
	}
	return nil
}

func (a *app) toggleFavorite(ctx context.Context, id string) error {
	v, err := a.vehicles.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if v == nil {
		return fmt.Errorf("listing %s not found", id)
	}
	if err := a.favorites.Toggle(ctx, *v); err != nil {
		return err
	}
	return a.listFavorites(ctx)
}

func (a *app) listFavorites(ctx context.Context) error {
	items, err := a.favorites.List(ctx)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		fmt.Println("no favorites yet")
		return nil
	}
	for _, f := range items {
		note := f.Note
		if note != "" {
			note = "  // " + note
		}
		fmt.Printf("%-38s %-28s R$ %10.2f%s\n", f.ID, f.Title, f.Price, note)
	}
	return nil
}

// seed creates a few sample listings in the local store so mock mode has
// user-owned data to work with.
func (a *app) seed(ctx context.Context) error {
	samples := []map[string]any{
		{
			"title": "Fiat Uno Attractive 1.0", "brand": "Fiat", "model": "Uno",
			"year": 2017, "price": 38900, "km": 74000, "color": "Branco",
			"doors": 4, "location": "Belo Horizonte - MG",
			"description": "Anúncio de demonstração criado localmente.",
		},
		{
			"title": "Nissan Kicks SV 1.6", "brand": "Nissan", "model": "Kicks",
			"year": 2020, "price": 94900, "km": 35000, "color": "Prata",
			"doors": 4, "location": "São Paulo - SP",
			"description": "Anúncio de demonstração criado localmente.",
		},
	}
	for _, payload := range samples {
		created, err := a.vehicles.Create(ctx, payload)
		if err != nil {
			return err
		}
		log.WithFields(log.Fields{"id": created.ID, "title": created.Title}).Info("seeded listing")
	}
	return nil
}

func (a *app) showProfile() error {
	p := a.profile.Load()
	fmt.Printf("name: %s\nphone: %s\nemail alerts: %s\nwhatsapp: %s\nnotes: %s\n",
		p.Name, p.Phone, strconv.FormatBool(p.EmailAlerts), strconv.FormatBool(p.WhatsApp), p.Notes)
	if !p.UpdatedAt.IsZero() {
		fmt.Printf("updated: %s\n", p.UpdatedAt.Local())
	}
	return nil
}

func usage() {
	fmt.Println(`buymove - vehicle marketplace client

commands:
  list [flags]     browse the catalog (-q, -brand, -color, -doors, -location,
                   -min-price, -max-price, -page, -page-size)
  show <id>        show one listing
  recommend <id>   similar-priced listings
  fav <id>         toggle a favorite
  favs             list favorites
  seed             create sample local listings
  profile          show saved profile preferences`)
}
