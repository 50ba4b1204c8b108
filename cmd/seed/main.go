package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"seatlock/internal/shared/config"
	"seatlock/internal/shared/database"
	"seatlock/internal/shows"
	"seatlock/pkg/cache"

	"github.com/golang-jwt/jwt/v4"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"gorm.io/gorm"
)

type Seeder struct {
	db *database.DB
}

type demoShow struct {
	Title    string
	Language string
	Venue    string
	Address  string
	StartsIn time.Duration
	Price    float64
}

var demoShows = []demoShow{
	{"Interstellar", "English", "PVR Phoenix Palladium", "Lower Parel, Mumbai", 26 * time.Hour, 250},
	{"Dune: Part Two", "English", "INOX Nariman Point", "Marine Drive, Mumbai", 50 * time.Hour, 320},
	{"Jawan", "Hindi", "Cinepolis Andheri", "Andheri West, Mumbai", 74 * time.Hour, 180},
}

func main() {
	rows := pflag.Int("rows", 8, "seat rows per show (A, B, ...)")
	perRow := pflag.Int("seats-per-row", 12, "seats in each row")
	clean := pflag.Bool("clean", true, "truncate existing shows and bookings first")
	tokenUsers := pflag.StringSlice("token-for", []string{"demo-user-1", "demo-user-2"}, "print development access tokens for these user ids")
	pflag.Parse()

	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found, using system environment variables")
	}

	cfg := config.Load()

	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	seeder := &Seeder{db: db}
	ctx := context.Background()

	if *clean {
		fmt.Println("Cleaning database...")
		if err := seeder.CleanDatabase(ctx); err != nil {
			log.Fatalf("Failed to clean database: %v", err)
		}
	}

	fmt.Println("Seeding shows...")
	ids, err := seeder.SeedShows(ctx, *rows, *perRow)
	if err != nil {
		log.Fatalf("Failed to seed shows: %v", err)
	}
	for i, id := range ids {
		fmt.Printf("  %-16s %s\n", demoShows[i].Title, id)
	}

	if len(*tokenUsers) > 0 {
		fmt.Println("\nDevelopment access tokens (BOOKING_API_TOKEN):")
		for _, user := range *tokenUsers {
			token, err := devToken(cfg.JWT.Secret, user)
			if err != nil {
				log.Fatalf("Failed to sign token: %v", err)
			}
			fmt.Printf("  %s: %s\n", user, token)
		}
	}

	fmt.Println("\nSeeding completed.")
}

// CleanDatabase truncates seeded tables, dependents first, and drops the show cache
func (s *Seeder) CleanDatabase(ctx context.Context) error {
	tables := []string{"booking_seats", "bookings", "show_seats", "shows"}

	err := s.db.PostgreSQL.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, table := range tables {
			fmt.Printf("  Truncating table: %s\n", table)
			if err := tx.Exec(fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", table)).Error; err != nil {
				return fmt.Errorf("failed to truncate table %s: %w", table, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	if s.db.GetRedis() != nil {
		return cache.NewService(s.db.GetRedis()).DeletePattern(ctx, "seatlock:*")
	}
	return nil
}

// SeedShows creates the demo shows, each with a rows x perRow seat grid.
// The back two rows are priced higher.
func (s *Seeder) SeedShows(ctx context.Context, rows, perRow int) ([]string, error) {
	repo := shows.NewRepository(s.db.GetPostgreSQL())
	service := shows.NewService(repo, nil, 0)

	var ids []string
	for _, d := range demoShows {
		show := &shows.Show{
			MovieTitle:   d.Title,
			Language:     d.Language,
			VenueName:    d.Venue,
			VenueAddress: d.Address,
			StartsAt:     time.Now().Add(d.StartsIn).Truncate(time.Hour).UTC(),
			Price:        d.Price,
		}

		seats := make([]shows.ShowSeat, 0, rows*perRow)
		for r := 0; r < rows; r++ {
			price := d.Price
			if r >= rows-2 {
				price = d.Price * 1.5
			}
			for n := 1; n <= perRow; n++ {
				seats = append(seats, shows.ShowSeat{
					Row:        string(rune('A' + r)),
					SeatNumber: n,
					Price:      price,
					Status:     shows.SeatStatusAvailable,
				})
			}
		}

		if err := service.CreateShow(ctx, show, seats); err != nil {
			return nil, err
		}
		ids = append(ids, show.ID.String())
	}
	return ids, nil
}

// devToken signs an access token the booking service accepts. Development only.
func devToken(secret, userID string) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"type":    "access",
		"exp":     time.Now().Add(24 * time.Hour).Unix(),
		"iat":     time.Now().Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}
