package integration

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"mailfloww-be/internal/entity"
	"mailfloww-be/internal/repository/implementation"
	"mailfloww-be/pkg/database"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormConnection(t *testing.T) {
	// Load .env from root
	err := godotenv.Load("../../.env")
	if err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		t.Fatalf("Failed to connect to DB: %v", err)
	}

	emailRepo := implementation.NewEmailVectorRepository(gormDB)
	documentRepo := implementation.NewDocumentVectorRepository(gormDB)

	// Basic Ping
	sqlDB, _ := gormDB.DB()
	err = sqlDB.Ping()
	assert.NoError(t, err)
	t.Log("Successfully connected to DB")

	t.Run("Check Email Vector Repository", func(t *testing.T) {
		count, err := emailRepo.Count(context.Background())
		assert.NoError(t, err)
		t.Logf("Email embedding count: %d", count)
	})

	t.Run("Check Document Vector Repository", func(t *testing.T) {
		count, err := documentRepo.Count(context.Background())
		assert.NoError(t, err)
		t.Logf("Document embedding count: %d", count)
	})

	t.Run("Upsert Is Idempotent", func(t *testing.T) {
		emb := make([]float32, 768)
		emb[0] = 1

		record := &entity.EmailRecord{
			EmailId:   "integration-test-upsert",
			Content:   "first version",
			Sender:    "integration@example.com",
			SentAt:    time.Now(),
			Embedding: emb,
		}
		require.NoError(t, emailRepo.Upsert(context.Background(), record))

		record.Content = "second version"
		require.NoError(t, emailRepo.Upsert(context.Background(), record))

		scored, err := emailRepo.SearchSimilarWithScore(context.Background(), emb, 5)
		require.NoError(t, err)

		seen := 0
		for _, s := range scored {
			if s.Record.EmailId == "integration-test-upsert" {
				seen++
				assert.Equal(t, "second version", s.Record.Content)
			}
		}
		assert.Equal(t, 1, seen)
	})
}
