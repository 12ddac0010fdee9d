package main

import (
	"log"

	"music-promo-be/internal/model"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SeedNotificationTypes populates the database with default notification types.
func SeedNotificationTypes(db *gorm.DB) {
	types := []model.NotificationType{
		{
			Code:        "ITEM_APPROVED",
			DisplayName: "Submission Approved",
			Template:    "Your {content_type} \"{title}\" was approved and is now live.",
			TargetType:  "SELF",
			Priority:    "HIGH",
			IsActive:    true,
			Channels:    datatypes.JSON([]byte(`["web", "email"]`)),
		},
		{
			Code:        "ITEM_REJECTED",
			DisplayName: "Submission Rejected",
			Template:    "Your {content_type} \"{title}\" was rejected: {note}",
			TargetType:  "SELF",
			Priority:    "HIGH",
			IsActive:    true,
			Channels:    datatypes.JSON([]byte(`["web", "email"]`)),
		},
		{
			Code:        "DONATION_RECEIVED",
			DisplayName: "Donation Received",
			Template:    "You received a donation of {net_amount} coins!",
			TargetType:  "SELF",
			Priority:    "MEDIUM",
			IsActive:    true,
			Channels:    datatypes.JSON([]byte(`["web"]`)),
		},
		{
			Code:        "WITHDRAWAL_COMPLETED",
			DisplayName: "Withdrawal Completed",
			Template:    "Your withdrawal of {net_amount} coins was paid out.",
			TargetType:  "SELF",
			Priority:    "HIGH",
			IsActive:    true,
			Channels:    datatypes.JSON([]byte(`["web", "email"]`)),
		},
		{
			Code:        "WITHDRAWAL_REJECTED",
			DisplayName: "Withdrawal Rejected",
			Template:    "Your withdrawal of {amount} coins was rejected: {note}",
			TargetType:  "SELF",
			Priority:    "HIGH",
			IsActive:    true,
			Channels:    datatypes.JSON([]byte(`["web", "email"]`)),
		},
		{
			Code:        "TIER_SUBSCRIBED",
			DisplayName: "Tier Subscription",
			Template:    "You are now on the {tier} tier.",
			TargetType:  "SELF",
			Priority:    "MEDIUM",
			IsActive:    true,
			Channels:    datatypes.JSON([]byte(`["web"]`)),
		},
		{
			Code:        "SOCIAL_PROOF",
			DisplayName: "Tier Upgrade Broadcast",
			Template:    "{artist_name} just went {tier}!",
			TargetType:  "BROADCAST",
			Priority:    "LOW",
			IsActive:    true,
			Channels:    datatypes.JSON([]byte(`["web"]`)),
		},
	}

	for _, t := range types {
		// PostgreSQL specific ON CONFLICT to avoid duplicates
		err := db.Where("code = ?", t.Code).FirstOrCreate(&t).Error
		if err != nil {
			log.Printf("Error seeding notification type %s: %v", t.Code, err)
		}
	}
	log.Println("✅ Notification types seeded successfully.")
}
