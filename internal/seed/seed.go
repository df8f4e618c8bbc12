// Package seed generates a demo account with a randomized shoe
// collection, used to put realistic data in front of the funnel without
// typing twenty pairs by hand.
package seed

import (
	"fmt"
	"math/rand"

	"github.com/solestash/solestash/internal/auth"
	"github.com/solestash/solestash/internal/inventory"
	"github.com/solestash/solestash/internal/models"
)

// catalog entries pair a brand with its models and a realistic price
// band, so generated collections group the way real ones do.
type catalogEntry struct {
	brand    string
	models   []string
	minPrice float64
	maxPrice float64
}

var catalog = []catalogEntry{
	{"Nike", []string{"AirMax90", "Dunk Low", "Air Force 1", "Pegasus 41"}, 90, 220},
	{"Adidas", []string{"Samba", "Gazelle", "Ultraboost", "Campus 00s"}, 80, 200},
	{"New Balance", []string{"990v6", "550", "2002R"}, 100, 230},
	{"Puma", []string{"Suede Classic", "RS-X"}, 60, 130},
	{"Asics", []string{"Gel-Kayano 14", "GT-2160"}, 90, 160},
}

var colorways = []string{
	"Black/White", "Triple White", "Bacon", "Panda", "Wolf Grey",
	"Navy", "Sail", "University Blue", "Bred", "Sea Salt",
}

var conditions = []string{"New", "Used", "Damaged"}

// Generate produces n pairs from the catalog, deterministic under a
// fixed rng. Every fourth pair duplicates the previous one with a
// different price, so the variant stage always has collapsed groups to
// show.
func Generate(rng *rand.Rand, n int) []inventory.NewShoe {
	shoes := make([]inventory.NewShoe, 0, n)
	for i := 0; i < n; i++ {
		if i%4 == 3 && len(shoes) > 0 {
			dup := shoes[len(shoes)-1]
			dup.Price = roundCents(dup.Price * (0.85 + rng.Float64()*0.3))
			dup.Image = ""
			shoes = append(shoes, dup)
			continue
		}

		entry := catalog[rng.Intn(len(catalog))]
		model := entry.models[rng.Intn(len(entry.models))]
		shoe := inventory.NewShoe{
			Brand:     entry.brand,
			Model:     model,
			Colorway:  colorways[rng.Intn(len(colorways))],
			Size:      7 + 0.5*float64(rng.Intn(13)), // 7.0 .. 13.0 in half sizes
			Price:     roundCents(entry.minPrice + rng.Float64()*(entry.maxPrice-entry.minPrice)),
			Condition: conditions[rng.Intn(len(conditions))],
		}
		if rng.Intn(3) == 0 {
			shoe.Image = fmt.Sprintf("%s_%s_%d.jpg", entry.brand, model, i)
		}
		shoes = append(shoes, shoe)
	}
	return shoes
}

func roundCents(v float64) float64 {
	return float64(int(v*100)) / 100
}

// Result reports what a seeding run created.
type Result struct {
	User  *models.User
	Pairs int
}

// Run registers the demo account and fills its collection. The account
// must not already exist; reruns with the same username fail with
// repo.ErrUsernameTaken.
func Run(authSvc *auth.Service, mut *inventory.Mutator, username, email, password string, pairs int, rng *rand.Rand) (*Result, error) {
	user, err := authSvc.Register(username, email, password)
	if err != nil {
		return nil, err
	}

	for _, shoe := range Generate(rng, pairs) {
		if _, err := mut.Add(user.ID, shoe); err != nil {
			return nil, fmt.Errorf("seeding %s %s: %w", shoe.Brand, shoe.Model, err)
		}
	}

	return &Result{User: user, Pairs: pairs}, nil
}
