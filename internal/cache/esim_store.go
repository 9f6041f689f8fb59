package cache

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"pangea-go-server/internal/models"

	"gorm.io/gorm"
)

// ESimStore is the disk cache for the user's eSIM inventory. It has its
// own write mutex, distinct from the country store's, so inventory
// refreshes never contend with catalog refreshes.
type ESimStore struct {
	db      *gorm.DB
	writeMu sync.Mutex
}

func NewESimStore(db *gorm.DB) *ESimStore {
	return &ESimStore{db: db}
}

// Fetch returns cached eSIMs whose last refresh is at or after freshSince.
func (s *ESimStore) Fetch(freshSince time.Time) ([]models.ESim, error) {
	var rows []models.CachedESim
	err := s.db.
		Where("last_updated >= ?", freshSince).
		Order("created_at desc").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("esim cache read: %w", err)
	}

	esims := make([]models.ESim, 0, len(rows))
	for _, row := range rows {
		esims = append(esims, row.ToESim())
	}
	return esims, nil
}

// ReplaceAll swaps the entire inventory for a fresh copy in one
// transaction, serialized against other writes to this store.
func (s *ESimStore) ReplaceAll(esims []models.ESim, now time.Time) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.CachedESim{}).Error; err != nil {
			return err
		}
		if len(esims) == 0 {
			return nil
		}
		rows := make([]models.CachedESim, 0, len(esims))
		for _, e := range esims {
			rows = append(rows, models.NewCachedESim(e, now))
		}
		return tx.Create(&rows).Error
	})
}

// Upsert writes one eSIM by id, leaving every other row untouched.
// Status never regresses locally: if the cached row is further along
// the ready -> installed -> expired lifecycle than the incoming one,
// the cached status and its timestamps are kept.
func (s *ESimStore) Upsert(esim models.ESim, now time.Time) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	return s.db.Transaction(func(tx *gorm.DB) error {
		var existing models.CachedESim
		err := tx.Where("e_sim_id = ?", esim.ESimID).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			row := models.NewCachedESim(esim, now)
			return tx.Create(&row).Error
		}
		if err != nil {
			return err
		}

		if models.ParseESimStatus(existing.Status).Rank() > esim.Status.Rank() {
			log.Printf("[ESimStore] Ignoring status regression for %s: %s -> %s",
				esim.ESimID, existing.Status, esim.Status)
			cached := existing.ToESim()
			esim.Status = cached.Status
			esim.ActivationDate = cached.ActivationDate
			esim.ExpirationDate = cached.ExpirationDate
		}

		row := models.NewCachedESim(esim, now)
		return tx.Save(&row).Error
	})
}

// Clear wipes the inventory cache. Used on logout.
func (s *ESimStore) Clear() error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.db.Where("1 = 1").Delete(&models.CachedESim{}).Error
}
