package realm

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/Foxlin-Industries/ChronoVoid2500-sub001/internal/graph"
	apperrors "github.com/Foxlin-Industries/ChronoVoid2500-sub001/internal/shared/errors"
)

type fakeStore struct {
	realms  map[int]*Realm
	byName  map[string]int
	nextID  int
	deleted []int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		realms: make(map[int]*Realm),
		byName: make(map[string]int),
		nextID: 1,
	}
}

func (f *fakeStore) CreateRealm(ctx context.Context, params CreateRealmParams) (*Realm, error) {
	if _, taken := f.byName[params.Name]; taken {
		return nil, ErrNameTaken
	}
	realm := &Realm{
		ID:               f.nextID,
		Name:             params.Name,
		NodeCount:        params.NodeCount,
		StarbaseSeedRate: params.StarbaseSeedRate,
		NoDeadNodes:      params.NoDeadNodes,
		IsActive:         true,
	}
	f.nextID++
	f.realms[realm.ID] = realm
	f.byName[realm.Name] = realm.ID
	return realm, nil
}

func (f *fakeStore) GetRealm(ctx context.Context, realmID int) (*Realm, error) {
	return f.realms[realmID], nil
}

func (f *fakeStore) ListRealms(ctx context.Context) ([]Realm, error) {
	var realms []Realm
	for _, r := range f.realms {
		realms = append(realms, *r)
	}
	return realms, nil
}

func (f *fakeStore) DeactivateRealm(ctx context.Context, realmID int) (bool, error) {
	realm, ok := f.realms[realmID]
	if !ok {
		return false, nil
	}
	realm.IsActive = false
	return true, nil
}

func (f *fakeStore) DeleteRealm(ctx context.Context, realmID int) error {
	if realm, ok := f.realms[realmID]; ok {
		delete(f.byName, realm.Name)
		delete(f.realms, realmID)
	}
	f.deleted = append(f.deleted, realmID)
	return nil
}

type fakeGenerator struct {
	fail     bool
	lastCall []any
}

func (f *fakeGenerator) GenerateGraph(ctx context.Context, realmID, nodeCount int, seedRate float64, noDeadNodes bool) (*graph.GenerationSummary, error) {
	f.lastCall = []any{realmID, nodeCount, seedRate, noDeadNodes}
	if f.fail {
		return nil, apperrors.WrapInternal("graph generation exhausted retries with dead nodes remaining", nil)
	}
	return &graph.GenerationSummary{
		RealmID:       realmID,
		NodeCount:     nodeCount,
		TunnelCount:   nodeCount * 2,
		StarbaseCount: 3,
		StarbaseIDs:   []int{11, 12, 13},
	}, nil
}

type fakeSeeder struct {
	fail   bool
	seeded []int
}

func (f *fakeSeeder) SeedStarbaseGoods(ctx context.Context, starbaseIDs []int) error {
	if f.fail {
		return apperrors.StorageUnavailable("failed to seed starbase goods", nil)
	}
	f.seeded = append(f.seeded, starbaseIDs...)
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestCreateRealm(t *testing.T) {
	store := newFakeStore()
	generator := &fakeGenerator{}
	seeder := &fakeSeeder{}
	svc := NewService(store, generator, seeder, testLogger())

	realm, err := svc.CreateRealm(context.Background(), CreateRealmParams{
		Name: "Perseus Arm", NodeCount: 100, StarbaseSeedRate: 0.15, NoDeadNodes: true,
	})
	if err != nil {
		t.Fatalf("CreateRealm: %v", err)
	}
	if !realm.IsActive {
		t.Error("new realm should be active")
	}
	if len(generator.lastCall) == 0 {
		t.Fatal("generator never invoked")
	}
	if got := generator.lastCall[1]; got != 100 {
		t.Errorf("generator node count = %v, want 100", got)
	}
	if len(seeder.seeded) != 3 {
		t.Errorf("seeded %d starbases, want 3", len(seeder.seeded))
	}
}

func TestCreateRealmValidation(t *testing.T) {
	svc := NewService(newFakeStore(), &fakeGenerator{}, &fakeSeeder{}, testLogger())
	ctx := context.Background()

	cases := []struct {
		name   string
		params CreateRealmParams
	}{
		{"empty name", CreateRealmParams{NodeCount: 10, StarbaseSeedRate: 0.5}},
		{"blank name", CreateRealmParams{Name: "   ", NodeCount: 10, StarbaseSeedRate: 0.5}},
		{"zero nodes", CreateRealmParams{Name: "x", NodeCount: 0, StarbaseSeedRate: 0.5}},
		{"zero seed rate", CreateRealmParams{Name: "x", NodeCount: 10}},
		{"seed rate above one", CreateRealmParams{Name: "x", NodeCount: 10, StarbaseSeedRate: 1.5}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateRealm(ctx, tc.params)
			if !apperrors.IsCode(err, apperrors.CodeInvalidParameter) {
				t.Errorf("got %v, want invalid_parameter", err)
			}
		})
	}
}

func TestCreateRealmDuplicateName(t *testing.T) {
	svc := NewService(newFakeStore(), &fakeGenerator{}, &fakeSeeder{}, testLogger())
	ctx := context.Background()
	params := CreateRealmParams{Name: "Orion Spur", NodeCount: 10, StarbaseSeedRate: 0.5}

	if _, err := svc.CreateRealm(ctx, params); err != nil {
		t.Fatalf("first create: %v", err)
	}
	_, err := svc.CreateRealm(ctx, params)
	if !apperrors.IsCode(err, apperrors.CodeDuplicateName) {
		t.Errorf("got %v, want duplicate_name", err)
	}
}

func TestCreateRealmRollsBackOnGenerationFailure(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, &fakeGenerator{fail: true}, &fakeSeeder{}, testLogger())

	_, err := svc.CreateRealm(context.Background(), CreateRealmParams{
		Name: "Doomed", NodeCount: 10, StarbaseSeedRate: 0.5,
	})
	if err == nil {
		t.Fatal("expected generation failure")
	}
	if len(store.deleted) != 1 {
		t.Errorf("deleted %d realms, want 1", len(store.deleted))
	}
	if len(store.realms) != 0 {
		t.Errorf("%d realms remain after rollback", len(store.realms))
	}
}

func TestCreateRealmRollsBackOnSeedingFailure(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, &fakeGenerator{}, &fakeSeeder{fail: true}, testLogger())

	_, err := svc.CreateRealm(context.Background(), CreateRealmParams{
		Name: "Doomed", NodeCount: 10, StarbaseSeedRate: 0.5,
	})
	if err == nil {
		t.Fatal("expected seeding failure")
	}
	if len(store.deleted) != 1 {
		t.Errorf("deleted %d realms, want 1", len(store.deleted))
	}
}

func TestDeactivateRealm(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, &fakeGenerator{}, &fakeSeeder{}, testLogger())
	ctx := context.Background()

	realm, err := svc.CreateRealm(ctx, CreateRealmParams{
		Name: "Quiet", NodeCount: 5, StarbaseSeedRate: 0.2,
	})
	if err != nil {
		t.Fatalf("CreateRealm: %v", err)
	}

	if err := svc.DeactivateRealm(ctx, realm.ID); err != nil {
		t.Fatalf("DeactivateRealm: %v", err)
	}
	if store.realms[realm.ID].IsActive {
		t.Error("realm still active after deactivation")
	}
	// The realm and its data survive deactivation.
	if _, err := svc.GetRealm(ctx, realm.ID); err != nil {
		t.Errorf("deactivated realm not queryable: %v", err)
	}

	if err := svc.DeactivateRealm(ctx, 999); !apperrors.IsCode(err, apperrors.CodeUnknownEntity) {
		t.Errorf("got %v, want unknown_entity", err)
	}
}
