package specification

import "gorm.io/gorm"

// Specification is a composable query fragment. Repositories apply any
// number of specifications onto the base query before executing it.
type Specification interface {
	Apply(db *gorm.DB) *gorm.DB
}
