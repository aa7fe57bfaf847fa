package repository

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/reindeer-letter/letter-backend/internal/domain"
)

// dryRunDB opens a gorm session that builds SQL without touching a database
func dryRunDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(mysql.New(mysql.Config{
		DSN:                       "test:test@tcp(127.0.0.1:3306)/letters_test?parseTime=True",
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		DryRun:                 true,
		SkipDefaultTransaction: true,
		DisableAutomaticPing:   true,
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
	})
	assert.NoError(t, err)
	return db
}

// insertColumnIndex returns the bind-variable index of a column in an
// INSERT statement's column list, or -1
func insertColumnIndex(sql, column string) int {
	open := strings.Index(sql, "(")
	closing := strings.Index(sql, ")")
	if open < 0 || closing < open {
		return -1
	}
	for i, col := range strings.Split(sql[open+1:closing], ",") {
		if strings.Trim(strings.TrimSpace(col), "`") == column {
			return i
		}
	}
	return -1
}

func scheduledLetter(scheduledAt time.Time) *domain.Letter {
	return &domain.Letter{
		Title:          "크리스마스 편지",
		Body:           "메리 크리스마스!",
		Category:       domain.CategoryText,
		ReceiverID:     2,
		SenderNickname: "루돌프",
		ScheduledAt:    &scheduledAt,
		IsDraft:        false,
		IsDelivered:    false,
	}
}

// A scheduled letter inserts with is_delivered=false. A gorm default tag on
// the column would silently overwrite the explicit false with the parsed
// default, storing the letter as already delivered and hiding it from the
// delivery sweep forever.
func TestCreateBindsExplicitUndeliveredFlag(t *testing.T) {
	db := dryRunDB(t)
	letter := scheduledLetter(time.Date(2025, 12, 26, 0, 0, 0, 0, time.UTC))

	tx := db.Create(letter)
	assert.NoError(t, tx.Error)

	sql := tx.Statement.SQL.String()
	idx := insertColumnIndex(sql, "is_delivered")
	assert.GreaterOrEqual(t, idx, 0, "INSERT must include is_delivered: %s", sql)
	assert.Equal(t, false, tx.Statement.Vars[idx])
}

func TestCreateLeavesScheduledLetterUndelivered(t *testing.T) {
	db := dryRunDB(t)
	repo := NewLetterRepository(db)
	letter := scheduledLetter(time.Date(2025, 12, 26, 0, 0, 0, 0, time.UTC))

	assert.NoError(t, repo.Create(letter))

	// the struct must not be mutated back to delivered during insert
	assert.False(t, letter.IsDelivered)
	assert.Equal(t, domain.StateScheduled, letter.State())
}
