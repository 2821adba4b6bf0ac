package main

import (
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/teamup-cl/notify-api/internal/config"
	"github.com/teamup-cl/notify-api/internal/model"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Seeds a local database with sports, profiles, location preferences and one
// activity, then prints a curl line to trigger the notifier against it.
func main() {
	cfg := config.Load()

	// Force DB logging off to avoid noise
	db, err := gorm.Open(postgres.Open(cfg.DB.DSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	log.Println("✅ Connected to Database")

	sports := seedSports(db)
	tennis := sports["Tenis"]

	log.Println("🌱 Seeding 5 profiles with location preferences...")
	creatorID := seedProfiles(db, tennis)

	// One tennis activity in region 13 (RM), comuna 126 (Providencia)
	regionID := int64(13)
	comunaID := int64(126)
	date := time.Now().Add(48 * time.Hour)
	place := "Club de Tenis Providencia"
	address := "Av. Pocuro 2640, Providencia"

	activity := model.Activity{
		ID:               uuid.New(),
		Title:            "Partido de tenis dobles",
		Date:             &date,
		RegionID:         &regionID,
		ComunaID:         &comunaID,
		SportID:          &tennis,
		PlaceName:        &place,
		FormattedAddress: &address,
		CreatorID:        &creatorID,
	}
	if err := db.Create(&activity).Error; err != nil {
		log.Fatalf("❌ Failed to create activity: %v", err)
	}

	log.Println("🎉 Seeding completed!")
	fmt.Printf("curl -X POST localhost:%s/api/v1/notifications/activity-created -d '{\"activity_id\":\"%s\"}'\n",
		cfg.App.Port, activity.ID)
}

func seedSports(db *gorm.DB) map[string]string {
	names := []string{"Fútbol", "Tenis", "Básquetbol", "Pádel", "Running"}
	ids := make(map[string]string, len(names))

	for _, name := range names {
		var existing model.Sport
		if err := db.Where("name = ?", name).First(&existing).Error; err == nil {
			ids[name] = existing.ID
			continue
		}
		sport := model.Sport{ID: uuid.NewString(), Name: name}
		if err := db.Create(&sport).Error; err != nil {
			log.Printf("❌ Failed to create sport %s: %v", name, err)
			continue
		}
		ids[name] = sport.ID
		log.Printf("✅ Created sport: %s", name)
	}
	return ids
}

func seedProfiles(db *gorm.DB, tennisID string) uuid.UUID {
	regionID := int64(13)
	comunaID := int64(126)

	var creatorID uuid.UUID
	for i := 1; i <= 5; i++ {
		id := uuid.New()
		if i == 1 {
			creatorID = id
		}

		token := fmt.Sprintf("seed-token-%d", i)
		profile := model.Profile{
			ID:                id,
			FCMToken:          &token,
			PreferredSportIDs: pq.StringArray{tennisID},
			NotifyNewActivity: true,
		}
		// user4 has no preferred sports, user5 opted out of pushes
		if i == 4 {
			profile.PreferredSportIDs = pq.StringArray{}
		}
		if i == 5 {
			profile.NotifyNewActivity = false
		}

		if err := db.Create(&profile).Error; err != nil {
			log.Printf("❌ Failed to create profile %d: %v", i, err)
			continue
		}

		pref := model.UserPreferredLocation{
			UserID:   id,
			RegionID: &regionID,
			ComunaID: &comunaID,
		}
		if err := db.Create(&pref).Error; err != nil {
			log.Printf("❌ Failed to create preference for profile %d: %v", i, err)
		}
		log.Printf("✅ Created profile %d: %s", i, id)
	}
	return creatorID
}
