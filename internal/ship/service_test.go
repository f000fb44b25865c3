package ship

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/Foxlin-Industries/ChronoVoid2500-sub001/internal/graph"
	apperrors "github.com/Foxlin-Industries/ChronoVoid2500-sub001/internal/shared/errors"
)

type fakeStore struct {
	ships  map[int]*Ship
	cargo  map[int][]CargoItem
	nextID int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		ships:  make(map[int]*Ship),
		cargo:  make(map[int][]CargoItem),
		nextID: 1,
	}
}

func (f *fakeStore) CreateShip(ctx context.Context, name string, ownerID int, nodeID *int) (*Ship, error) {
	s := &Ship{ID: f.nextID, Name: name, OwnerID: ownerID, CurrentNodeID: nodeID}
	f.nextID++
	f.ships[s.ID] = s
	return s, nil
}

func (f *fakeStore) GetShip(ctx context.Context, shipID int) (*Ship, error) {
	return f.ships[shipID], nil
}

func (f *fakeStore) ListShipsByOwner(ctx context.Context, ownerID int) ([]Ship, error) {
	var ships []Ship
	for _, s := range f.ships {
		if s.OwnerID == ownerID {
			ships = append(ships, *s)
		}
	}
	return ships, nil
}

func (f *fakeStore) SetShipNode(ctx context.Context, shipID, nodeID int) (bool, error) {
	s, ok := f.ships[shipID]
	if !ok {
		return false, nil
	}
	s.CurrentNodeID = &nodeID
	return true, nil
}

func (f *fakeStore) DeleteShip(ctx context.Context, shipID int) (bool, error) {
	if _, ok := f.ships[shipID]; !ok {
		return false, nil
	}
	delete(f.ships, shipID)
	delete(f.cargo, shipID)
	return true, nil
}

func (f *fakeStore) ListCargo(ctx context.Context, shipID int) ([]CargoItem, error) {
	return f.cargo[shipID], nil
}

type fakeGraph struct {
	nodes map[int]*graph.Node
	edges map[[2]int]bool
}

func (f *fakeGraph) CanTraverse(ctx context.Context, fromNodeID, toNodeID int) (bool, error) {
	return f.edges[[2]int{fromNodeID, toNodeID}], nil
}

func (f *fakeGraph) GetNode(ctx context.Context, nodeID int) (*graph.Node, error) {
	node, ok := f.nodes[nodeID]
	if !ok {
		return nil, apperrors.UnknownEntity("node", nodeID)
	}
	return node, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func intPtr(v int) *int { return &v }

func testWorld() *fakeGraph {
	return &fakeGraph{
		nodes: map[int]*graph.Node{
			101: {ID: 101, RealmID: 1, NodeNumber: 1},
			102: {ID: 102, RealmID: 1, NodeNumber: 2},
		},
		edges: map[[2]int]bool{
			{101, 102}: true,
		},
	}
}

func TestCreateShip(t *testing.T) {
	svc := NewService(newFakeStore(), testWorld(), testLogger())
	ctx := context.Background()

	ship, err := svc.CreateShip(ctx, "Dauntless", 10, intPtr(101))
	if err != nil {
		t.Fatalf("CreateShip: %v", err)
	}
	if ship.CurrentNodeID == nil || *ship.CurrentNodeID != 101 {
		t.Errorf("node = %v, want 101", ship.CurrentNodeID)
	}

	if _, err := svc.CreateShip(ctx, "", 10, nil); !apperrors.IsCode(err, apperrors.CodeInvalidParameter) {
		t.Errorf("empty name: got %v, want invalid_parameter", err)
	}
	if _, err := svc.CreateShip(ctx, "Lost", 10, intPtr(999)); !apperrors.IsCode(err, apperrors.CodeUnknownEntity) {
		t.Errorf("unknown node: got %v, want unknown_entity", err)
	}
}

func TestMoveShip(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, testWorld(), testLogger())
	ctx := context.Background()

	ship, err := svc.CreateShip(ctx, "Dauntless", 10, intPtr(101))
	if err != nil {
		t.Fatalf("CreateShip: %v", err)
	}

	moved, err := svc.MoveShip(ctx, ship.ID, 10, 102)
	if err != nil {
		t.Fatalf("MoveShip: %v", err)
	}
	if moved.CurrentNodeID == nil || *moved.CurrentNodeID != 102 {
		t.Errorf("node = %v, want 102", moved.CurrentNodeID)
	}

	// The tunnel is directed; there is no way back.
	if _, err := svc.MoveShip(ctx, ship.ID, 10, 101); !apperrors.IsCode(err, apperrors.CodeInvalidParameter) {
		t.Errorf("reverse move: got %v, want invalid_parameter", err)
	}

	// Only the owner steers.
	if _, err := svc.MoveShip(ctx, ship.ID, 99, 101); !apperrors.IsCode(err, apperrors.CodeForbidden) {
		t.Errorf("non-owner move: got %v, want forbidden", err)
	}
}

func TestDeleteShip(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, testWorld(), testLogger())
	ctx := context.Background()

	ship, _ := svc.CreateShip(ctx, "Dauntless", 10, nil)

	if err := svc.DeleteShip(ctx, ship.ID, 99); !apperrors.IsCode(err, apperrors.CodeForbidden) {
		t.Errorf("non-owner delete: got %v, want forbidden", err)
	}
	if err := svc.DeleteShip(ctx, ship.ID, 10); err != nil {
		t.Fatalf("DeleteShip: %v", err)
	}
	if _, err := svc.GetShip(ctx, ship.ID); !apperrors.IsCode(err, apperrors.CodeUnknownEntity) {
		t.Errorf("after delete: got %v, want unknown_entity", err)
	}
}
