package services

import (
	"os"
	"sync"

	"github.com/alphabatem/common/context"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/vzorr/musta-website/model"
	"github.com/vzorr/musta-website/shared"
)

// sqlSubmissionStore is what the lookup and pipeline services need
// from a SQL backend: the store operations plus raw DB access.
type sqlSubmissionStore interface {
	SubmissionStore
	DB() *gorm.DB
}

var defaultCategoryNames = map[string][2]string{
	"plumber":       {"Hidraulik", "Plumber"},
	"electrician":   {"Elektricist", "Electrician"},
	"carpenter":     {"Marangoz", "Carpenter"},
	"painter":       {"Bojaxhi", "Painter"},
	"mason":         {"Murator", "Mason"},
	"tiler":         {"Pllakashtrues", "Tiler"},
	"ac_technician": {"Teknik kondicionimi", "AC technician"},
	"cleaner":       {"Pastrues", "Cleaner"},
	"other":         {"Tjetër", "Other"},
}

var defaultLocationNames = map[string][2]string{
	"tirana":  {"Tiranë", "Tirana"},
	"durres":  {"Durrës", "Durres"},
	"vlore":   {"Vlorë", "Vlora"},
	"shkoder": {"Shkodër", "Shkodra"},
	"elbasan": {"Elbasan", "Elbasan"},
	"fier":    {"Fier", "Fier"},
	"korce":   {"Korçë", "Korca"},
	"other":   {"Tjetër", "Other"},
}

// LookupService maps the trade and city codes submitted by the public
// forms to their storage-internal ids. Unresolvable codes resolve to
// nil and never fail an intake.
type LookupService struct {
	context.DefaultService

	storeSvc sqlSubmissionStore

	mutex       sync.RWMutex
	categoryIDs map[string]int
	locationIDs map[string]int
}

const LOOKUP_SVC = "lookup_svc"

func (svc *LookupService) Id() string {
	return LOOKUP_SVC
}

func (svc *LookupService) Start() error {
	if os.Getenv("DB_DRIVER") == "postgres" {
		svc.storeSvc = svc.Service(POSTGRES_SVC).(*PostgresService)
	} else {
		svc.storeSvc = svc.Service(SQLITE_SVC).(*SqliteService)
	}

	if err := svc.seedDefaults(); err != nil {
		return err
	}
	return svc.reload()
}

// seedDefaults inserts the launch set of categories and locations when
// missing. Idempotent; the dedicated seed binary can extend the set.
func (svc *LookupService) seedDefaults() error {
	db := svc.storeSvc.DB()

	for _, code := range shared.ServiceCategories {
		names := defaultCategoryNames[code]
		rec := model.ServiceCategory{Code: code, NameSq: names[0], NameEn: names[1]}
		if err := db.Where(model.ServiceCategory{Code: code}).FirstOrCreate(&rec).Error; err != nil {
			return err
		}
	}

	for _, code := range shared.Locations {
		names := defaultLocationNames[code]
		rec := model.Location{Code: code, NameSq: names[0], NameEn: names[1]}
		if err := db.Where(model.Location{Code: code}).FirstOrCreate(&rec).Error; err != nil {
			return err
		}
	}

	return nil
}

func (svc *LookupService) reload() error {
	db := svc.storeSvc.DB()

	var categories []model.ServiceCategory
	if err := db.Find(&categories).Error; err != nil {
		return err
	}

	var locations []model.Location
	if err := db.Find(&locations).Error; err != nil {
		return err
	}

	svc.mutex.Lock()
	defer svc.mutex.Unlock()

	svc.categoryIDs = make(map[string]int, len(categories))
	for _, c := range categories {
		svc.categoryIDs[c.Code] = c.ID
	}

	svc.locationIDs = make(map[string]int, len(locations))
	for _, l := range locations {
		svc.locationIDs[l.Code] = l.ID
	}

	log.WithFields(log.Fields{
		"categories": len(categories),
		"locations":  len(locations),
	}).Info("Lookup tables loaded")

	return nil
}

// ResolveCategoryID returns the internal id for a trade code, or nil
// when the code is unknown or empty.
func (svc *LookupService) ResolveCategoryID(code string) *int {
	svc.mutex.RLock()
	defer svc.mutex.RUnlock()

	if id, ok := svc.categoryIDs[code]; ok {
		return &id
	}
	return nil
}

// ResolveLocationID returns the internal id for a city code, or nil
// when the code is unknown or empty.
func (svc *LookupService) ResolveLocationID(code string) *int {
	svc.mutex.RLock()
	defer svc.mutex.RUnlock()

	if id, ok := svc.locationIDs[code]; ok {
		return &id
	}
	return nil
}
