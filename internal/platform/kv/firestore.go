package kv

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// DefaultCollection is the Firestore collection used when none is configured.
const DefaultCollection = "device_state"

// firestoreEntry maps to the Firestore document stored per key.
type firestoreEntry struct {
	Value     string    `firestore:"value"`
	UpdatedAt time.Time `firestore:"updated_at"`
}

// FirestoreStore implements Store with one Firestore document per key.
type FirestoreStore struct {
	client     *firestore.Client
	collection string
}

// NewFirestoreStore creates a Firestore-backed store writing to collection.
func NewFirestoreStore(client *firestore.Client, collection string) *FirestoreStore {
	if collection == "" {
		collection = DefaultCollection
	}
	return &FirestoreStore{client: client, collection: collection}
}

func (s *FirestoreStore) Get(ctx context.Context, key string) (string, bool, error) {
	doc, err := s.client.Collection(s.collection).Doc(key).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return "", false, nil
		}
		return "", false, fmt.Errorf("firestore get %s: %w", key, err)
	}

	var entry firestoreEntry
	if err := doc.DataTo(&entry); err != nil {
		return "", false, fmt.Errorf("firestore decode %s: %w", key, err)
	}
	return entry.Value, true, nil
}

func (s *FirestoreStore) Set(ctx context.Context, key, value string) error {
	entry := firestoreEntry{Value: value, UpdatedAt: time.Now().UTC()}
	if _, err := s.client.Collection(s.collection).Doc(key).Set(ctx, entry); err != nil {
		return fmt.Errorf("firestore set %s: %w", key, err)
	}
	return nil
}

// Remove deletes the key's document. Firestore deletes of missing documents succeed.
func (s *FirestoreStore) Remove(ctx context.Context, key string) error {
	if _, err := s.client.Collection(s.collection).Doc(key).Delete(ctx); err != nil {
		if status.Code(err) == codes.NotFound {
			return nil
		}
		return fmt.Errorf("firestore delete %s: %w", key, err)
	}
	return nil
}

// Compile-time interface check
var _ Store = (*FirestoreStore)(nil)
