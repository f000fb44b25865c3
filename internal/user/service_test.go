package user

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/Foxlin-Industries/ChronoVoid2500-sub001/internal/graph"
	apperrors "github.com/Foxlin-Industries/ChronoVoid2500-sub001/internal/shared/errors"
)

type fakeStore struct {
	users  map[int]*User
	byName map[string]int
	nextID int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:  make(map[int]*User),
		byName: make(map[string]int),
		nextID: 1,
	}
}

func (f *fakeStore) CreateUser(ctx context.Context, username, email string, credits int64) (*User, error) {
	if _, taken := f.byName[username]; taken {
		return nil, ErrDuplicateUser
	}
	u := &User{ID: f.nextID, Username: username, Email: email, Credits: credits}
	f.nextID++
	f.users[u.ID] = u
	f.byName[username] = u.ID
	return u, nil
}

func (f *fakeStore) GetUser(ctx context.Context, userID int) (*User, error) {
	return f.users[userID], nil
}

func (f *fakeStore) GetUserByUsername(ctx context.Context, username string) (*User, error) {
	if id, ok := f.byName[username]; ok {
		return f.users[id], nil
	}
	return nil, nil
}

func (f *fakeStore) SetLocation(ctx context.Context, userID int, realmID, nodeID *int) (bool, error) {
	u, ok := f.users[userID]
	if !ok {
		return false, nil
	}
	u.RealmID = realmID
	u.CurrentNodeID = nodeID
	return true, nil
}

// fakeGraph knows a fixed set of nodes and directed edges.
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

func (f *fakeGraph) GetNodeByNumber(ctx context.Context, realmID, nodeNumber int) (*graph.Node, error) {
	for _, node := range f.nodes {
		if node.RealmID == realmID && node.NodeNumber == nodeNumber {
			return node, nil
		}
	}
	return nil, apperrors.UnknownEntity("node", nodeNumber)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// testWorld is realm 1 with nodes 101..103 (numbers 1..3) and one directed
// tunnel 101 -> 102.
func testWorld() *fakeGraph {
	return &fakeGraph{
		nodes: map[int]*graph.Node{
			101: {ID: 101, RealmID: 1, NodeNumber: 1},
			102: {ID: 102, RealmID: 1, NodeNumber: 2},
			103: {ID: 103, RealmID: 1, NodeNumber: 3},
			201: {ID: 201, RealmID: 2, NodeNumber: 1},
		},
		edges: map[[2]int]bool{
			{101, 102}: true,
		},
	}
}

func TestRegister(t *testing.T) {
	svc := NewService(newFakeStore(), testWorld(), 1000, testLogger())
	ctx := context.Background()

	u, err := svc.Register(ctx, RegisterParams{Username: "kestrel", Email: "k@example.com"})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if u.Credits != 1000 {
		t.Errorf("credits = %d, want default 1000", u.Credits)
	}

	if _, err := svc.Register(ctx, RegisterParams{Username: "kestrel", Email: "k2@example.com"}); !apperrors.IsCode(err, apperrors.CodeDuplicateName) {
		t.Errorf("duplicate username: got %v, want duplicate_name", err)
	}
	if _, err := svc.Register(ctx, RegisterParams{Username: "", Email: "x@example.com"}); !apperrors.IsCode(err, apperrors.CodeInvalidParameter) {
		t.Errorf("empty username: got %v, want invalid_parameter", err)
	}
	if _, err := svc.Register(ctx, RegisterParams{Username: "nomail", Email: "not-an-email"}); !apperrors.IsCode(err, apperrors.CodeInvalidParameter) {
		t.Errorf("bad email: got %v, want invalid_parameter", err)
	}
}

func TestEnterRealm(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, testWorld(), 1000, testLogger())
	ctx := context.Background()

	u, _ := svc.Register(ctx, RegisterParams{Username: "kestrel", Email: "k@example.com"})

	entered, err := svc.EnterRealm(ctx, u.ID, 1)
	if err != nil {
		t.Fatalf("EnterRealm: %v", err)
	}
	if entered.CurrentNodeID == nil || *entered.CurrentNodeID != 101 {
		t.Errorf("current node = %v, want entry node 101", entered.CurrentNodeID)
	}

	if _, err := svc.EnterRealm(ctx, u.ID, 99); !apperrors.IsCode(err, apperrors.CodeUnknownEntity) {
		t.Errorf("unknown realm: got %v, want unknown_entity", err)
	}
}

func TestMoveUser(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, testWorld(), 1000, testLogger())
	ctx := context.Background()

	u, _ := svc.Register(ctx, RegisterParams{Username: "kestrel", Email: "k@example.com"})

	// Movement before entering a realm is rejected.
	if _, err := svc.MoveUser(ctx, u.ID, 102); !apperrors.IsCode(err, apperrors.CodeInvalidParameter) {
		t.Errorf("move before entering: got %v, want invalid_parameter", err)
	}

	if _, err := svc.EnterRealm(ctx, u.ID, 1); err != nil {
		t.Fatalf("EnterRealm: %v", err)
	}

	moved, err := svc.MoveUser(ctx, u.ID, 102)
	if err != nil {
		t.Fatalf("MoveUser along tunnel: %v", err)
	}
	if moved.CurrentNodeID == nil || *moved.CurrentNodeID != 102 {
		t.Errorf("current node = %v, want 102", moved.CurrentNodeID)
	}

	// The tunnel is directed: going back is not allowed.
	if _, err := svc.MoveUser(ctx, u.ID, 101); !apperrors.IsCode(err, apperrors.CodeInvalidParameter) {
		t.Errorf("reverse move: got %v, want invalid_parameter", err)
	}
	// No tunnel to node 103 at all.
	if _, err := svc.MoveUser(ctx, u.ID, 103); !apperrors.IsCode(err, apperrors.CodeInvalidParameter) {
		t.Errorf("no tunnel: got %v, want invalid_parameter", err)
	}
	// Nodes in other realms are out of reach.
	if _, err := svc.MoveUser(ctx, u.ID, 201); !apperrors.IsCode(err, apperrors.CodeInvalidParameter) {
		t.Errorf("cross-realm move: got %v, want invalid_parameter", err)
	}
}

func TestLeaveRealm(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, testWorld(), 1000, testLogger())
	ctx := context.Background()

	u, _ := svc.Register(ctx, RegisterParams{Username: "kestrel", Email: "k@example.com"})
	if _, err := svc.EnterRealm(ctx, u.ID, 1); err != nil {
		t.Fatalf("EnterRealm: %v", err)
	}

	if err := svc.LeaveRealm(ctx, u.ID); err != nil {
		t.Fatalf("LeaveRealm: %v", err)
	}
	if store.users[u.ID].CurrentNodeID != nil || store.users[u.ID].RealmID != nil {
		t.Error("location not cleared")
	}

	if err := svc.LeaveRealm(ctx, 999); !apperrors.IsCode(err, apperrors.CodeUnknownEntity) {
		t.Errorf("unknown user: got %v, want unknown_entity", err)
	}
}
