package memory

import (
	"time"

	"music-promo-be/internal/entity"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// DemoCatalog holds the fixture moderation items that back the public
// showcase dashboards. These records are never persisted; the moderation
// engine refuses to decide on them so a demo row can never produce a
// real charge.
type DemoCatalog struct {
	cache *cache.Cache
}

func NewDemoCatalog() *DemoCatalog {
	// Demo fixtures never expire; the cache is used for its concurrent map.
	c := cache.New(cache.NoExpiration, 0)
	return &DemoCatalog{
		cache: c,
	}
}

func (d *DemoCatalog) Put(item *entity.ModerationItem) {
	d.cache.Set(item.Id.String(), item, cache.NoExpiration)
}

func (d *DemoCatalog) Get(id uuid.UUID) (*entity.ModerationItem, bool) {
	if x, found := d.cache.Get(id.String()); found {
		return x.(*entity.ModerationItem), true
	}
	return nil, false
}

func (d *DemoCatalog) Contains(id uuid.UUID) bool {
	_, found := d.cache.Get(id.String())
	return found
}

func (d *DemoCatalog) All() []*entity.ModerationItem {
	items := make([]*entity.ModerationItem, 0, d.cache.ItemCount())
	for _, it := range d.cache.Items() {
		items = append(items, it.Object.(*entity.ModerationItem))
	}
	return items
}

// SeedShowcase loads the fixture set the marketing dashboard renders when
// a fresh install has no real submissions yet.
func SeedShowcase(catalog *DemoCatalog) {
	now := time.Now()
	fixtures := []*entity.ModerationItem{
		{
			Id:          uuid.MustParse("00000000-0000-0000-0000-00000000d001"),
			OwnerId:     uuid.MustParse("00000000-0000-0000-0000-00000000a001"),
			ContentType: entity.ContentTypeTrack,
			Title:       "Midnight Drive (demo)",
			IsPaid:      true,
			Status:      entity.ModerationStatusPending,
			CreatedAt:   now,
		},
		{
			Id:          uuid.MustParse("00000000-0000-0000-0000-00000000d002"),
			OwnerId:     uuid.MustParse("00000000-0000-0000-0000-00000000a001"),
			ContentType: entity.ContentTypeConcert,
			Title:       "Summer Rooftop Session (demo)",
			IsPaid:      true,
			Status:      entity.ModerationStatusPending,
			CreatedAt:   now,
		},
		{
			Id:          uuid.MustParse("00000000-0000-0000-0000-00000000d003"),
			OwnerId:     uuid.MustParse("00000000-0000-0000-0000-00000000a002"),
			ContentType: entity.ContentTypeNews,
			Title:       "Debut EP announcement (demo)",
			IsPaid:      false,
			Status:      entity.ModerationStatusPending,
			CreatedAt:   now,
		},
	}
	for _, f := range fixtures {
		catalog.Put(f)
	}
}
