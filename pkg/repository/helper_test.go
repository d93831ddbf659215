package repository_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/dinewise/pkg/domain/interfaces"
	"github.com/secmon-lab/dinewise/pkg/repository/firestore"
	"github.com/secmon-lab/dinewise/pkg/repository/memory"
)

type repoFactory func(t *testing.T) interfaces.Repository

func newMemoryRepository(t *testing.T) interfaces.Repository {
	return memory.New()
}

// firestoreFactory returns nil when FIRESTORE_PROJECT_ID is not set. Each
// repository gets its own collection prefix so tests do not share counters.
func firestoreFactory(t *testing.T) repoFactory {
	projectID := os.Getenv("FIRESTORE_PROJECT_ID")
	if projectID == "" {
		t.Skip("FIRESTORE_PROJECT_ID not set")
	}
	databaseID := os.Getenv("FIRESTORE_DATABASE_ID")

	return func(t *testing.T) interfaces.Repository {
		opts := []firestore.Option{
			firestore.WithCollectionPrefix(fmt.Sprintf("test_%d", time.Now().UnixNano())),
		}
		if databaseID != "" {
			opts = append(opts, firestore.WithDatabaseID(databaseID))
		}

		repo, err := firestore.New(context.Background(), projectID, opts...)
		gt.NoError(t, err).Required()
		t.Cleanup(func() {
			gt.NoError(t, repo.Close())
		})
		return repo
	}
}
