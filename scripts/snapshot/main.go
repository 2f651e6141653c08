package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"wareg/internal/model"
	"wareg/internal/snapshot"
)

// Writes a sample menu snapshot for local runs with SNAPSHOT_ENABLED=true.
func main() {
	out := flag.String("out", "data/menus.json.gz", "snapshot file to write")
	flag.Parse()

	if err := os.MkdirAll(filepath.Dir(*out), 0755); err != nil {
		log.Fatalf("Failed to create directory: %v", err)
	}

	menus := sampleMenus()

	file, err := os.Create(*out)
	if err != nil {
		log.Fatalf("Failed to create %s: %v", *out, err)
	}
	defer file.Close()

	if err := snapshot.Encode(file, menus); err != nil {
		log.Fatalf("Failed to write %s: %v", *out, err)
	}

	fmt.Printf("Created %s with %d menus\n", *out, len(menus))
	for _, m := range menus {
		bucket, _ := m.RatingBucket()
		fmt.Printf("  - %-3d %-20s %-8s rating %d\n", m.ID, m.Name, m.Category.Name, bucket)
	}
}

func sampleMenus() []model.MenuItem {
	type entry struct {
		name     string
		category string
		price    float64
		ratings  []float64
	}

	entries := []entry{
		{"Nasi Goreng", "Nasi", 25000, []float64{5, 4, 5}},
		{"Nasi Uduk", "Nasi", 18000, []float64{4, 4}},
		{"Rendang", "Daging", 35000, []float64{5, 5}},
		{"Sate Ayam", "Daging", 28000, []float64{4, 3}},
		{"Sayur Asem", "Sayur", 15000, []float64{3}},
		{"Gado-Gado", "Sayur", 20000, []float64{4, 5}},
		{"Es Teh Manis", "Minuman", 5000, []float64{5}},
		{"Es Jeruk", "Minuman", 7000, []float64{4}},
		{"Pisang Goreng", "Cemilan", 10000, []float64{4, 4, 3}},
		{"Tahu Isi", "Cemilan", 8000, nil},
		{"Ikan Bakar", "Ikan", 40000, []float64{5, 4}},
		{"Pecel Lele", "Ikan", 22000, []float64{3, 4}},
	}

	menus := make([]model.MenuItem, len(entries))
	for i, e := range entries {
		ratings := make([]model.Rating, len(e.ratings))
		for j, r := range e.ratings {
			ratings[j] = model.Rating{Rating: r}
		}
		menus[i] = model.MenuItem{
			ID:       i + 1,
			Name:     e.name,
			Price:    e.price,
			Category: model.Category{Name: e.category},
			Ratings:  ratings,
		}
	}
	return menus
}
