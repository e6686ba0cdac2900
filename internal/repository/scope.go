// Package repository provides the data access layer. Every query on
// user-owned entities goes through the ownedBy scope so tenant
// isolation is enforced in one place rather than per handler.
package repository

import "gorm.io/gorm"

func ownedBy(userID uint) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("user_id = ?", userID)
	}
}
