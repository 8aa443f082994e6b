package activity

import (
	"context"
	"errors"
	"sync"
	"testing"

	domain "crm-service/internal/domain/activity"
	"crm-service/internal/domain/contact"
	"crm-service/internal/domain/prospect"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeActivityStore struct {
	mu      sync.Mutex
	entries []*domain.Activity
	failing bool
}

func (f *fakeActivityStore) Create(_ context.Context, a *domain.Activity) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failing {
		return errors.New("store down")
	}
	f.entries = append(f.entries, a)
	return nil
}

func (f *fakeActivityStore) ListByUser(_ context.Context, userID int64) ([]*domain.Activity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.Activity
	for _, a := range f.entries {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

type spyFeed struct {
	published []*domain.Activity
}

func (s *spyFeed) Publish(_ int64, a *domain.Activity) {
	s.published = append(s.published, a)
}

func newContact(owner int64, name, typ string) *contact.Contact {
	return &contact.Contact{
		ID:          uuid.New(),
		OwnerID:     owner,
		Name:        name,
		PhoneNumber: "0555123456",
		Email:       "x@example.com",
		Type:        typ,
	}
}

func newProspect(owner int64, entreprise string) *prospect.Prospect {
	return &prospect.Prospect{
		ID:         uuid.New(),
		OwnerID:    owner,
		Entreprise: entreprise,
		Status:     "new",
	}
}

func TestRecordContactCreated(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name      string
		typ       string
		wantType  string
		wantTitle string
	}{
		{name: "client", typ: "client", wantType: domain.TypeClientAdded, wantTitle: "Client ajouté"},
		{name: "client uppercase", typ: "CLIENT", wantType: domain.TypeClientAdded, wantTitle: "Client ajouté"},
		{name: "lead", typ: "lead", wantType: domain.TypeProspectAdded, wantTitle: "Prospect ajouté"},
		{name: "other category", typ: "partner", wantType: domain.TypeProspectAdded, wantTitle: "Prospect ajouté"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := &fakeActivityStore{}
			svc := NewService(store, nil, zap.NewNop())

			c := newContact(7, "Amine", tc.typ)
			svc.RecordContactCreated(context.Background(), c)

			require.Len(t, store.entries, 1)
			got := store.entries[0]
			assert.Equal(t, tc.wantType, got.Type)
			assert.Equal(t, tc.wantTitle, got.Title)
			assert.Equal(t, "New "+tc.typ+" contact created: Amine", got.Description)
			assert.Equal(t, int64(7), got.UserID)
			require.NotNil(t, got.ContactID)
			assert.Equal(t, c.ID, *got.ContactID)
			assert.Nil(t, got.ProspectID)
		})
	}
}

func TestRecordContactUpdated(t *testing.T) {
	t.Parallel()
	store := &fakeActivityStore{}
	svc := NewService(store, nil, zap.NewNop())

	c := newContact(3, "Samia", "client")
	svc.RecordContactUpdated(context.Background(), c)

	require.Len(t, store.entries, 1)
	got := store.entries[0]
	assert.Equal(t, domain.TypeStatusUpdated, got.Type)
	assert.Equal(t, "Contact mis à jour", got.Title)
	assert.Equal(t, "Contact updated: Samia", got.Description)
	require.NotNil(t, got.ContactID)
}

func TestRecordContactDeleted_NoEntityLink(t *testing.T) {
	t.Parallel()
	store := &fakeActivityStore{}
	svc := NewService(store, nil, zap.NewNop())

	svc.RecordContactDeleted(context.Background(), newContact(3, "Samia", "client"))

	require.Len(t, store.entries, 1)
	got := store.entries[0]
	assert.Equal(t, domain.TypeOther, got.Type)
	assert.Equal(t, "Contact supprimé", got.Title)
	assert.Equal(t, "Contact deleted: Samia", got.Description)
	assert.Nil(t, got.ContactID)
	assert.Nil(t, got.ProspectID)
}

func TestRecordProspectLifecycle(t *testing.T) {
	t.Parallel()
	store := &fakeActivityStore{}
	svc := NewService(store, nil, zap.NewNop())
	ctx := context.Background()

	p := newProspect(9, "Cevital")
	svc.RecordProspectCreated(ctx, p)
	svc.RecordProspectUpdated(ctx, p)
	svc.RecordProspectDeleted(ctx, p)

	require.Len(t, store.entries, 3)

	created := store.entries[0]
	assert.Equal(t, domain.TypeProspectAdded, created.Type)
	assert.Equal(t, "Prospect ajouté", created.Title)
	assert.Equal(t, "New prospect created: Cevital", created.Description)
	require.NotNil(t, created.ProspectID)
	assert.Equal(t, p.ID, *created.ProspectID)

	updated := store.entries[1]
	assert.Equal(t, domain.TypeStatusUpdated, updated.Type)
	assert.Equal(t, "Prospect mis à jour", updated.Title)

	deleted := store.entries[2]
	assert.Equal(t, domain.TypeOther, deleted.Type)
	assert.Equal(t, "Prospect supprimé", deleted.Title)
	assert.Equal(t, "Prospect deleted: Cevital", deleted.Description)
	assert.Nil(t, deleted.ProspectID)
	assert.Nil(t, deleted.ContactID)
}

func TestRecord_StoreFailureIsSwallowed(t *testing.T) {
	t.Parallel()
	store := &fakeActivityStore{failing: true}
	feed := &spyFeed{}
	svc := NewService(store, feed, zap.NewNop())

	// Must not panic or propagate
	svc.RecordContactCreated(context.Background(), newContact(1, "Karim", "client"))

	assert.Empty(t, store.entries)
	assert.Empty(t, feed.published, "failed writes are not published to the feed")
}

func TestRecord_PublishesToFeed(t *testing.T) {
	t.Parallel()
	store := &fakeActivityStore{}
	feed := &spyFeed{}
	svc := NewService(store, feed, zap.NewNop())

	svc.RecordProspectCreated(context.Background(), newProspect(4, "Sonatrach"))

	require.Len(t, feed.published, 1)
	assert.Equal(t, domain.TypeProspectAdded, feed.published[0].Type)
}
