//go:build ignore

// Database seeder for local development. Run with: go run scripts/seed.go
package main

import (
	"database/sql"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"propertypulse/internal/config"
)

// ANSI color codes for terminal output
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
)

// Command-line flags
var (
	tenantsCount = flag.Int("tenants", 15, "Number of tenants to create")
	clearData    = flag.Bool("clear", false, "Clear existing seed data before inserting")
	showHelp     = flag.Bool("help", false, "Show usage information")
)

func main() {
	flag.Parse()

	if *showHelp {
		printUsage()
		os.Exit(0)
	}

	// Load .env file (ignore error if not present)
	_ = godotenv.Load()

	printInfo("=== PropertyPulse Database Seeder ===\n")

	cfg, err := config.Load()
	if err != nil {
		printError(fmt.Sprintf("Failed to load configuration: %v", err))
		os.Exit(1)
	}

	printInfo("Connecting to database...")
	db, err := sql.Open("postgres", cfg.GetDatabaseDSN())
	if err != nil {
		printError(fmt.Sprintf("Failed to open database connection: %v", err))
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		printError(fmt.Sprintf("Failed to ping database: %v", err))
		os.Exit(1)
	}
	printSuccess("✓ Connected to database\n")

	if *clearData {
		if err := clearSeedData(db); err != nil {
			printError(fmt.Sprintf("Failed to clear seed data: %v", err))
			os.Exit(1)
		}
	}

	propertyIDs, unitIDs, err := seedProperties(db)
	if err != nil {
		printError(fmt.Sprintf("Failed to seed properties: %v", err))
		os.Exit(1)
	}

	tenantsCreated, err := seedTenants(db, *tenantsCount, propertyIDs, unitIDs)
	if err != nil {
		printError(fmt.Sprintf("Failed to seed tenants: %v", err))
		os.Exit(1)
	}

	printInfo("\n=== Seeding Summary ===")
	printSuccess(fmt.Sprintf("✓ Properties created: %d", len(propertyIDs)))
	printSuccess(fmt.Sprintf("✓ Tenants created: %d", tenantsCreated))
	printInfo("\nSeeding completed successfully!")
	printInfo("Run POST /communications/templates/seed-defaults to load the default templates.")
}

// clearSeedData removes existing seed data (seeded tenants use the
// +2547200200XX phone pattern, seeded properties the fixed names below)
func clearSeedData(db *sql.DB) error {
	printWarning("Clearing existing seed data...")

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec("DELETE FROM tenants WHERE phone LIKE '+2547200200%' OR email LIKE '%@tenants.propertypulse.test'")
	if err != nil {
		return fmt.Errorf("failed to delete tenants: %w", err)
	}

	_, err = tx.Exec("DELETE FROM properties WHERE name IN ('Sunrise Apartments', 'Greenview Court', 'Acacia Heights')")
	if err != nil {
		return fmt.Errorf("failed to delete properties: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	printSuccess("✓ Seed data cleared\n")
	return nil
}

// seedProperties inserts the sample properties and their units, returning
// the inserted IDs so tenants can reference them
func seedProperties(db *sql.DB) ([]int, []int, error) {
	printInfo("Seeding properties and units...")

	properties := []struct {
		name  string
		units []string
	}{
		{"Sunrise Apartments", []string{"A1", "A2", "A3", "B1", "B2"}},
		{"Greenview Court", []string{"101", "102", "201", "202"}},
		{"Acacia Heights", []string{"G1", "G2", "F1"}},
	}

	var propertyIDs, unitIDs []int

	for _, p := range properties {
		// Skip properties that already exist so reruns stay idempotent
		var existingID int
		err := db.QueryRow("SELECT id FROM properties WHERE name = $1", p.name).Scan(&existingID)
		if err == nil {
			propertyIDs = append(propertyIDs, existingID)
			rows, err := db.Query("SELECT id FROM units WHERE property_id = $1 ORDER BY id", existingID)
			if err != nil {
				return nil, nil, fmt.Errorf("failed to load units for %s: %w", p.name, err)
			}
			for rows.Next() {
				var id int
				if err := rows.Scan(&id); err != nil {
					rows.Close()
					return nil, nil, err
				}
				unitIDs = append(unitIDs, id)
			}
			rows.Close()
			continue
		}
		if err != sql.ErrNoRows {
			return nil, nil, fmt.Errorf("failed to check property %s: %w", p.name, err)
		}

		var propertyID int
		err = db.QueryRow("INSERT INTO properties (name) VALUES ($1) RETURNING id", p.name).Scan(&propertyID)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to insert property %s: %w", p.name, err)
		}
		propertyIDs = append(propertyIDs, propertyID)

		for _, unitNumber := range p.units {
			var unitID int
			err = db.QueryRow(
				"INSERT INTO units (property_id, unit_number) VALUES ($1, $2) RETURNING id",
				propertyID, unitNumber,
			).Scan(&unitID)
			if err != nil {
				return nil, nil, fmt.Errorf("failed to insert unit %s: %w", unitNumber, err)
			}
			unitIDs = append(unitIDs, unitID)
		}
	}

	printSuccess(fmt.Sprintf("✓ Seeded %d properties with %d units", len(propertyIDs), len(unitIDs)))
	return propertyIDs, unitIDs, nil
}

// seedTenants generates and inserts tenant data with a realistic spread of
// payment statuses and deliberately missing contact details
func seedTenants(db *sql.DB, count int, propertyIDs, unitIDs []int) (int, error) {
	printInfo(fmt.Sprintf("Seeding %d tenants...", count))

	firstNames := []string{"Alice", "Brian", "Catherine", "David", "Esther", "Felix", "Grace", "Henry", "Irene", "John", "Lucy", "Martin", "Naomi", "Peter", "Ruth"}
	lastNames := []string{"Kamau", "Wanjiku", "Ochieng", "Atieno", "Mwangi", "Akinyi", "Kipchoge", "Chebet", "Mutua", "Omondi", "Adhiambo", "Nzomo", "Njeri", "Otieno", "Wafula"}
	statuses := []string{"paid", "due", "overdue", "pending"}

	created := 0
	for i := 1; i <= count; i++ {
		firstName := firstNames[i%len(firstNames)]
		lastName := lastNames[(i*3)%len(lastNames)]
		status := statuses[i%len(statuses)]
		propertyID := propertyIDs[i%len(propertyIDs)]

		// Some tenants lack a phone, some lack an email, a few lack a unit.
		// The resolver's skip accounting depends on these gaps.
		var phone, email *string
		if i%5 != 0 { // 80% have a phone
			phone = stringPtr(fmt.Sprintf("+2547200200%02d", i))
		}
		if i%4 != 0 { // 75% have an email
			email = stringPtr(fmt.Sprintf("%s.%s%d@tenants.propertypulse.test", firstName, lastName, i))
		}

		var unitID *int
		if i%7 != 0 && len(unitIDs) > 0 {
			unitID = intPtr(unitIDs[i%len(unitIDs)])
		}

		rent := 15000.0 + float64(i%6)*5000.0
		dueDate := time.Now().AddDate(0, 0, (i%28)-7)

		query := `
			INSERT INTO tenants
				(first_name, last_name, phone, email, property_id, unit_id,
				 monthly_rent, next_payment_due, rent_payment_status)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`

		_, err := db.Exec(query, firstName, lastName, phone, email, propertyID, unitID, rent, dueDate, status)
		if err != nil {
			return created, fmt.Errorf("failed to insert tenant %s %s: %w", firstName, lastName, err)
		}
		created++
	}

	printSuccess(fmt.Sprintf("✓ Seeded %d tenants", created))
	return created, nil
}

// Helper functions

func stringPtr(s string) *string {
	return &s
}

func intPtr(i int) *int {
	return &i
}

func printSuccess(msg string) {
	fmt.Printf("%s%s%s\n", colorGreen, msg, colorReset)
}

func printError(msg string) {
	fmt.Fprintf(os.Stderr, "%s%s%s\n", colorRed, msg, colorReset)
}

func printInfo(msg string) {
	fmt.Printf("%s%s%s\n", colorCyan, msg, colorReset)
}

func printWarning(msg string) {
	fmt.Printf("%s%s%s\n", colorYellow, msg, colorReset)
}

func printUsage() {
	printInfo("=== PropertyPulse Database Seeder ===\n")
	fmt.Println("Usage: go run scripts/seed.go [flags]")
	fmt.Println("\nFlags:")
	flag.PrintDefaults()
	fmt.Println("\nExamples:")
	fmt.Println("  go run scripts/seed.go")
	fmt.Println("  go run scripts/seed.go -tenants=50")
	fmt.Println("  go run scripts/seed.go -clear")
	fmt.Println("\nNotes:")
	fmt.Println("  - Seeded tenants use the phone pattern +2547200200XX")
	fmt.Println("  - Use -clear to remove existing seed data before inserting new data")
	fmt.Println("  - Some tenants are intentionally created without phone or email")
}
