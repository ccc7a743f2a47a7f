package seeders

import (
	"errors"
	"log"

	"gorm.io/gorm"

	"github.com/vzorr/musta-website/model"
)

// LookupSeeder fills the service category and location tables with the
// launch dataset. Existing rows are updated in place so localized names
// can be corrected without dropping the tables.
type LookupSeeder struct {
	db *gorm.DB
}

func NewLookupSeeder(db *gorm.DB) *LookupSeeder {
	return &LookupSeeder{db: db}
}

var categorySeed = []model.ServiceCategory{
	{Code: "plumber", NameSq: "Hidraulik", NameEn: "Plumber"},
	{Code: "electrician", NameSq: "Elektricist", NameEn: "Electrician"},
	{Code: "carpenter", NameSq: "Marangoz", NameEn: "Carpenter"},
	{Code: "painter", NameSq: "Bojaxhi", NameEn: "Painter"},
	{Code: "mason", NameSq: "Murator", NameEn: "Mason"},
	{Code: "tiler", NameSq: "Pllakashtrues", NameEn: "Tiler"},
	{Code: "ac_technician", NameSq: "Teknik kondicionimi", NameEn: "AC technician"},
	{Code: "cleaner", NameSq: "Pastrues", NameEn: "Cleaner"},
	{Code: "other", NameSq: "Tjetër", NameEn: "Other"},
}

var locationSeed = []model.Location{
	{Code: "tirana", NameSq: "Tiranë", NameEn: "Tirana"},
	{Code: "durres", NameSq: "Durrës", NameEn: "Durres"},
	{Code: "vlore", NameSq: "Vlorë", NameEn: "Vlora"},
	{Code: "shkoder", NameSq: "Shkodër", NameEn: "Shkodra"},
	{Code: "elbasan", NameSq: "Elbasan", NameEn: "Elbasan"},
	{Code: "fier", NameSq: "Fier", NameEn: "Fier"},
	{Code: "korce", NameSq: "Korçë", NameEn: "Korca"},
	{Code: "other", NameSq: "Tjetër", NameEn: "Other"},
}

// SeedAll runs every lookup seeder.
func (s *LookupSeeder) SeedAll() error {
	if err := s.SeedCategories(); err != nil {
		log.Printf("Category seeding failed: %v", err)
		return err
	}
	if err := s.SeedLocations(); err != nil {
		log.Printf("Location seeding failed: %v", err)
		return err
	}
	return nil
}

// SeedCategories upserts the service categories by code.
func (s *LookupSeeder) SeedCategories() error {
	if err := s.db.AutoMigrate(&model.ServiceCategory{}); err != nil {
		return err
	}

	for _, seed := range categorySeed {
		var existing model.ServiceCategory
		err := s.db.Where(model.ServiceCategory{Code: seed.Code}).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if err := s.db.Create(&seed).Error; err != nil {
				return err
			}
			continue
		}
		if err != nil {
			return err
		}

		existing.NameSq = seed.NameSq
		existing.NameEn = seed.NameEn
		if err := s.db.Save(&existing).Error; err != nil {
			return err
		}
	}

	log.Printf("Seeded %d service categories", len(categorySeed))
	return nil
}

// SeedLocations upserts the locations by code.
func (s *LookupSeeder) SeedLocations() error {
	if err := s.db.AutoMigrate(&model.Location{}); err != nil {
		return err
	}

	for _, seed := range locationSeed {
		var existing model.Location
		err := s.db.Where(model.Location{Code: seed.Code}).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if err := s.db.Create(&seed).Error; err != nil {
				return err
			}
			continue
		}
		if err != nil {
			return err
		}

		existing.NameSq = seed.NameSq
		existing.NameEn = seed.NameEn
		if err := s.db.Save(&existing).Error; err != nil {
			return err
		}
	}

	log.Printf("Seeded %d locations", len(locationSeed))
	return nil
}
