package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/xiaoqingming18/qm-chat-server/internal/domain"
	"github.com/xiaoqingming18/qm-chat-server/internal/repository"
	"github.com/xiaoqingming18/qm-chat-server/internal/service"
)

// Seeds a development database with a few users, a one-to-one room, a group
// room, and some history, so the server has something to show right away.
func main() {
	dbPath := "chat.db"
	if len(os.Args) > 1 {
		dbPath = os.Args[1]
	}

	fmt.Printf("Using database at: %s\n", dbPath)

	db, err := initDatabase(dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	if err := seed(db); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}

	fmt.Println("Seeded users, chatrooms, and history")
}

func initDatabase(dbPath string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.Exec("PRAGMA journal_mode=WAL")

	err = db.AutoMigrate(
		&repository.ChatroomModel{},
		&repository.MembershipModel{},
		&repository.MessageModel{},
		&repository.UserModel{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return db, nil
}

func seed(db *gorm.DB) error {
	ctx := context.Background()

	roomRepo := repository.NewChatroomRepository(db)
	msgRepo := repository.NewMessageRepository(db)
	userRepo := repository.NewUserRepository(db)

	users := []*domain.UserSummary{
		{Username: "alice", DisplayName: "Alice Johnson", Email: "alice@example.com"},
		{Username: "bob", DisplayName: "Bob Smith", Email: "bob@example.com"},
		{Username: "carol", DisplayName: "Carol Chen", Email: "carol@example.com"},
	}
	for _, u := range users {
		if err := userRepo.Create(ctx, u); err != nil {
			return fmt.Errorf("failed to create user %s: %w", u.Username, err)
		}
	}
	alice, bob, carol := users[0], users[1], users[2]

	directory := service.NewDirectoryService(roomRepo, userRepo)
	history := service.NewHistoryService(msgRepo, userRepo)

	oneToOne, err := directory.CreateOneToOne(ctx, bob.ID, alice.ID)
	if err != nil {
		return err
	}

	group, err := directory.CreateGroup(ctx, "team", alice.ID)
	if err != nil {
		return err
	}
	if err := directory.Join(ctx, group.ID, bob.ID); err != nil {
		return err
	}
	if err := directory.Join(ctx, group.ID, carol.ID); err != nil {
		return err
	}

	lines := []struct {
		room    int64
		sender  int64
		kind    domain.MessageKind
		content string
	}{
		{oneToOne.ID, alice.ID, domain.MessageKindText, "hey, are you around?"},
		{oneToOne.ID, bob.ID, domain.MessageKindText, "yep, what's up?"},
		{group.ID, alice.ID, domain.MessageKindText, "welcome to the team room"},
		{group.ID, carol.ID, domain.MessageKindText, "thanks!"},
		{group.ID, bob.ID, domain.MessageKindImage, "https://example.com/onboarding.png"},
	}
	for _, l := range lines {
		if _, err := history.Append(ctx, l.room, l.sender, l.kind, l.content); err != nil {
			return err
		}
	}

	return nil
}
