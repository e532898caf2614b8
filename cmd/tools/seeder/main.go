package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/noah-isme/backend-storefront/internal/db"
	"github.com/noah-isme/backend-storefront/internal/store"
)

type seedProduct struct {
	Name            string
	Price           int64
	DiscountPercent int32
	Quantity        int32
	ImageURL        string
}

var catalogSeed = []seedProduct{
	{"Wireless Earbuds", 450_000, 10, 40, "https://img.example.com/earbuds.jpg"},
	{"Mechanical Keyboard", 890_000, 0, 15, "https://img.example.com/keyboard.jpg"},
	{"USB-C Charging Cable", 65_000, 5, 200, "https://img.example.com/cable.jpg"},
	{"Laptop Stand", 210_000, 15, 30, "https://img.example.com/stand.jpg"},
	{"Noise Cancelling Headphones", 1_250_000, 20, 12, "https://img.example.com/headphones.jpg"},
	{"Portable SSD 1TB", 1_100_000, 0, 25, "https://img.example.com/ssd.jpg"},
	{"Webcam 1080p", 380_000, 0, 18, "https://img.example.com/webcam.jpg"},
	{"Desk Mat", 95_000, 0, 60, "https://img.example.com/deskmat.jpg"},
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, relying on environment variables")
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	if err := db.Migrate(dbURL); err != nil {
		log.Fatalf("apply migrations: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		log.Fatalf("connect database: %v", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		log.Fatalf("ping database: %v", err)
	}

	queries := store.New(pool)

	count, err := queries.CountProducts(ctx)
	if err != nil {
		log.Fatalf("count products: %v", err)
	}
	if count > 0 {
		log.Printf("catalog already has %d products, skipping seed", count)
		return
	}

	sellerID := uuid.New()
	log.Printf("seeding catalog for demo seller %s", sellerID)
	for _, p := range catalogSeed {
		image := p.ImageURL
		created, err := queries.InsertProduct(ctx, store.InsertProductParams{
			SellerID:        sellerID,
			Name:            p.Name,
			Price:           p.Price,
			DiscountPercent: p.DiscountPercent,
			Quantity:        p.Quantity,
			ImageURL:        &image,
		})
		if err != nil {
			log.Fatalf("insert %q: %v", p.Name, err)
		}
		log.Printf("  %s (%s)", created.Name, created.ID)
	}
	log.Println("seeding completed")
}
