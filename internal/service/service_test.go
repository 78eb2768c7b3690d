package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/xiaoqingming18/qm-chat-server/internal/domain"
	"github.com/xiaoqingming18/qm-chat-server/internal/repository"
)

type fixture struct {
	directory *DirectoryService
	history   *HistoryService
	users     repository.UserRepository
	rooms     repository.ChatroomRepository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared&_foreign_keys=on"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// A single connection keeps the in-memory database alive and shared.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&repository.ChatroomModel{},
		&repository.MembershipModel{},
		&repository.MessageModel{},
		&repository.UserModel{},
	))

	rooms := repository.NewChatroomRepository(db)
	users := repository.NewUserRepository(db)
	msgs := repository.NewMessageRepository(db)

	return &fixture{
		directory: NewDirectoryService(rooms, users),
		history:   NewHistoryService(msgs, users),
		users:     users,
		rooms:     rooms,
	}
}

func (f *fixture) createUser(t *testing.T, username, displayName string) *domain.UserSummary {
	t.Helper()
	u := &domain.UserSummary{Username: username, DisplayName: displayName}
	require.NoError(t, f.users.Create(context.Background(), u))
	return u
}
