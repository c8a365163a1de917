// Command devserver runs the in-memory stub backend on :8080 with a small
// seed data set, so the CLI can be tried without the real marketplace
// service.
package main

import (
	"flag"
	"log"
	"time"

	"github.com/dmitrijs2005/swapmarket/internal/client/models"
	"github.com/dmitrijs2005/swapmarket/internal/devserver"
)

func main() {
	addr := flag.String("a", ":8080", "address to listen on")
	flag.Parse()

	s := devserver.New()
	seed(s)

	e := s.Handler()
	log.Printf("devserver listening on %s", *addr)
	if err := e.Start(*addr); err != nil {
		log.Fatalf("%v", err)
	}
}

func seed(s *devserver.Server) {
	s.SeedProfile(models.Profile{
		UserID:         "u-1",
		Nickname:       "alice",
		FollowerCount:  12,
		FollowingCount: 7,
		Relationship:   models.RelationshipSelf,
	})
	s.SeedProfile(models.Profile{
		UserID:         "u-2",
		Nickname:       "bob",
		FollowerCount:  3,
		FollowingCount: 9,
		Relationship:   models.RelationshipFollowBack,
	})

	now := time.Now().UTC()
	s.SeedNotification(models.Notification{ID: 1, Type: "TRADE", Title: "Trade request", Message: "bob wants your camera", CreatedAt: now.Add(-time.Hour), Link: "/trades/t-1"})
	s.SeedNotification(models.Notification{ID: 2, Type: "FOLLOW", Title: "New follower", Message: "bob followed you", CreatedAt: now.Add(-30 * time.Minute)})

	s.SeedTrade(models.Trade{
		TradeID:            "t-1",
		CounterpartyUserID: "u-2",
		Status:             "IN_PROGRESS",
		CanComplete:        true,
		RequesterPost:      models.Post{PostID: "p-1", Title: "camera"},
		OwnerPost:          models.Post{PostID: "p-2", Title: "bike"},
	})
	s.SeedTrade(models.Trade{
		TradeID:            "t-2",
		CounterpartyUserID: "u-2",
		Status:             "COMPLETED",
		CanRate:            true,
		RequesterPost:      models.Post{PostID: "p-3", Title: "headphones"},
		OwnerPost:          models.Post{PostID: "p-4", Title: "keyboard"},
	})

	s.SeedOtp("demo@example.com", "123456")
}
