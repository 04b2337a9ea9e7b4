package config

import (
	"log"

	"pdao-carelink/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// SeedMasterData seeds initial master data
func SeedMasterData(db *gorm.DB) error {
	// Seed Barangays
	if err := seedBarangays(db); err != nil {
		return err
	}

	log.Println("✅ Master data seeded successfully")
	return nil
}

func seedBarangays(db *gorm.DB) error {
	barangays := []models.Barangay{
		{Name: "Poblacion", District: "District I", IsActive: true},
		{Name: "San Isidro", District: "District I", IsActive: true},
		{Name: "San Roque", District: "District I", IsActive: true},
		{Name: "Santa Cruz", District: "District II", IsActive: true},
		{Name: "Santo Niño", District: "District II", IsActive: true},
		{Name: "Bagong Silang", District: "District II", IsActive: true},
		{Name: "Malinta", District: "District III", IsActive: true},
		{Name: "Maligaya", District: "District III", IsActive: true},
	}

	for _, b := range barangays {
		var existing models.Barangay
		if err := db.Where("name = ?", b.Name).First(&existing).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				if err := db.Create(&b).Error; err != nil {
					return err
				}
				log.Printf("   Created barangay: %s", b.Name)
			}
		}
	}
	return nil
}
