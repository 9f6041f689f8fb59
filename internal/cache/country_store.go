package cache

import (
	"fmt"
	"sync"
	"time"

	"pangea-go-server/internal/models"

	"gorm.io/gorm"
)

// CountryStore is the disk cache for the country catalog. The catalog
// is only ever written wholesale: delete-all then insert-all in one
// transaction, and all replaces go through one mutex so two concurrent
// refreshes can never interleave into a half-populated catalog.
type CountryStore struct {
	db      *gorm.DB
	writeMu sync.Mutex
}

func NewCountryStore(db *gorm.DB) *CountryStore {
	return &CountryStore{db: db}
}

// Fetch returns cached countries whose last refresh is at or after
// freshSince, sorted by name.
func (s *CountryStore) Fetch(freshSince time.Time) ([]models.Country, error) {
	var rows []models.CachedCountry
	err := s.db.
		Where("last_updated >= ?", freshSince).
		Order("country_name asc").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("country cache read: %w", err)
	}

	countries := make([]models.Country, 0, len(rows))
	for _, row := range rows {
		countries = append(countries, row.ToCountry())
	}
	return countries, nil
}

// ReplaceAll swaps the entire catalog for a fresh copy. Last write wins
// on last_updated; ordering between concurrent replaces is whatever the
// mutex queue produces.
func (s *CountryStore) ReplaceAll(countries []models.Country, now time.Time) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.CachedCountry{}).Error; err != nil {
			return err
		}
		if len(countries) == 0 {
			return nil
		}
		rows := make([]models.CachedCountry, 0, len(countries))
		for _, c := range countries {
			rows = append(rows, models.NewCachedCountry(c, now))
		}
		return tx.Create(&rows).Error
	})
}

// NewestUpdated returns the most recent last_updated in the catalog,
// false when the catalog is empty or unreadable.
func (s *CountryStore) NewestUpdated() (time.Time, bool) {
	var row models.CachedCountry
	err := s.db.Order("last_updated desc").First(&row).Error
	if err != nil {
		return time.Time{}, false
	}
	return row.LastUpdated, true
}

// Clear wipes the catalog cache.
func (s *CountryStore) Clear() error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.db.Where("1 = 1").Delete(&models.CachedCountry{}).Error
}
