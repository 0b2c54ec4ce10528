package main

import (
	"log"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"niapath/guidance-api/internal/config"
	"niapath/guidance-api/internal/models"
)

func main() {
	log.Println("🚀 Starting catalog seeding...")

	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := config.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize database: %v", err)
	}

	interests := []string{
		"Technology",
		"Science",
		"Arts & Design",
		"Business",
		"Healthcare",
		"Education",
		"Engineering",
		"Law & Policy",
		"Media & Communication",
		"Sports",
		"Agriculture",
		"Finance",
	}

	subjects := []string{
		"Mathematics",
		"English Language",
		"Physics",
		"Chemistry",
		"Biology",
		"Economics",
		"Geography",
		"Government",
		"Literature",
		"Computer Studies",
		"Accounting",
		"Fine Arts",
	}

	universities := []models.University{
		{Name: "University of Lagos", Website: "https://unilag.edu.ng", Country: "Nigeria"},
		{Name: "University of Ibadan", Website: "https://ui.edu.ng", Country: "Nigeria"},
		{Name: "Covenant University", Website: "https://covenantuniversity.edu.ng", Country: "Nigeria"},
		{Name: "Ahmadu Bello University", Website: "https://abu.edu.ng", Country: "Nigeria"},
		{Name: "University of Nigeria, Nsukka", Website: "https://unn.edu.ng", Country: "Nigeria"},
		{Name: "Obafemi Awolowo University", Website: "https://oauife.edu.ng", Country: "Nigeria"},
		{Name: "University of Cape Town", Website: "https://uct.ac.za", Country: "South Africa"},
		{Name: "University of Ghana", Website: "https://ug.edu.gh", Country: "Ghana"},
	}

	successCount := 0
	failCount := 0

	for _, name := range interests {
		interest := models.Interest{ID: uuid.New(), Name: name}
		if err := upsertByName(db, &interest); err != nil {
			log.Printf("❌ Failed to seed interest %q: %v", name, err)
			failCount++
			continue
		}
		successCount++
	}
	log.Printf("✅ Interests seeded: %d", len(interests))

	for _, name := range subjects {
		subject := models.AcademicSubject{ID: uuid.New(), Name: name}
		if err := upsertByName(db, &subject); err != nil {
			log.Printf("❌ Failed to seed subject %q: %v", name, err)
			failCount++
			continue
		}
		successCount++
	}
	log.Printf("✅ Academic subjects seeded: %d", len(subjects))

	for _, university := range universities {
		university.ID = uuid.New()
		if err := upsertByName(db, &university); err != nil {
			log.Printf("❌ Failed to seed university %q: %v", university.Name, err)
			failCount++
			continue
		}
		successCount++
	}
	log.Printf("✅ Universities seeded: %d", len(universities))

	log.Printf("\n📊 Seeding complete: %d succeeded, %d failed", successCount, failCount)
	if failCount > 0 {
		log.Fatal("❌ Some catalog rows could not be seeded")
	}
}

// upsertByName inserts the row unless one with the same name already exists.
func upsertByName(db *gorm.DB, row interface{}) error {
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(row).Error
}
