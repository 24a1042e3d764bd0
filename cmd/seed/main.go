package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/thaheshan/FUTURA-SOLUTIONS-GovLink-sub001/internal/db"
	"github.com/thaheshan/FUTURA-SOLUTIONS-GovLink-sub001/internal/officer"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("seed starting")

	dsn := os.Getenv("POSTGRES_DSN")
	if dsn == "" {
		log.Fatal("POSTGRES_DSN is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := db.ConnectPostgres(ctx, dsn, 4)
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	gofakeit.Seed(time.Now().UnixNano())

	if err := seedOfficers(context.Background(), pool, 60); err != nil {
		log.Fatalf("seed officers: %v", err)
	}

	log.Println("seed complete")
}

func seedOfficers(ctx context.Context, pool *pgxpool.Pool, count int) error {
	log.Printf("seeding %d officers", count)

	departments := []string{
		"Immigration & Emigration",
		"Registration of Persons",
		"Motor Traffic",
		"Pensions",
		"Inland Revenue",
		"Land Registry",
		"Divisional Secretariat",
		"Consular Affairs",
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for i := 0; i < count; i++ {
		id := uuid.New()
		name := gofakeit.Name()
		email := gofakeit.Email()
		dept := departments[gofakeit.Number(0, len(departments)-1)]

		availability, err := json.Marshal(randomAvailability())
		if err != nil {
			return err
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO officers
				(id, name, department, email, status, workload_current, workload_maximum, availability, created_at, updated_at)
			VALUES ($1, $2, $3, $4, 'active', 0, $5, $6, now(), now())
		`, id, name, dept, email, gofakeit.Number(15, 30), availability)
		if err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	log.Println("officers seeded")
	return nil
}

// randomAvailability builds a plausible working week: weekdays on, a late
// start or early finish here and there, weekends mostly off.
func randomAvailability() officer.WeekAvailability {
	week := officer.WeekAvailability{}

	starts := []string{"08:00", "08:30", "09:00"}
	ends := []string{"16:00", "16:30", "17:00"}

	for _, day := range []string{"monday", "tuesday", "wednesday", "thursday", "friday"} {
		week[day] = officer.DayAvailability{
			Start:     starts[gofakeit.Number(0, len(starts)-1)],
			End:       ends[gofakeit.Number(0, len(ends)-1)],
			Available: gofakeit.Number(0, 9) != 0, // occasional day off
		}
	}

	week["saturday"] = officer.DayAvailability{
		Start:     "09:00",
		End:       "13:00",
		Available: gofakeit.Bool(),
	}
	week["sunday"] = officer.DayAvailability{Available: false}

	return week
}
