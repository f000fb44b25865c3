package graph

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	apperrors "github.com/Foxlin-Industries/ChronoVoid2500-sub001/internal/shared/errors"
)

type fakeStore struct {
	mu        sync.Mutex
	nodes     map[int]*Node
	tunnels   map[[2]int]*Tunnel
	starbases map[int]int // starbase id -> node id
	nextID    int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		nodes:     make(map[int]*Node),
		tunnels:   make(map[[2]int]*Tunnel),
		starbases: make(map[int]int),
		nextID:    1,
	}
}

func (f *fakeStore) id() int {
	id := f.nextID
	f.nextID++
	return id
}

func (f *fakeStore) CreateNodes(ctx context.Context, realmID, count int) ([]Node, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	nodes := make([]Node, count)
	for i := 0; i < count; i++ {
		node := Node{ID: f.id(), RealmID: realmID, NodeNumber: i + 1}
		f.nodes[node.ID] = &node
		nodes[i] = node
	}
	return nodes, nil
}

func (f *fakeStore) GetNode(ctx context.Context, nodeID int) (*Node, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.nodes[nodeID], nil
}

func (f *fakeStore) GetNodeByNumber(ctx context.Context, realmID, nodeNumber int) (*Node, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, node := range f.nodes {
		if node.RealmID == realmID && node.NodeNumber == nodeNumber {
			return node, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) DeleteNode(ctx context.Context, nodeID int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.nodes, nodeID)
	return nil
}

func (f *fakeStore) CreateTunnels(ctx context.Context, pairs [][2]int) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, pair := range pairs {
		f.tunnels[pair] = &Tunnel{ID: f.id(), FromNodeID: pair[0], ToNodeID: pair[1]}
	}
	return len(pairs), nil
}

func (f *fakeStore) InsertTunnel(ctx context.Context, fromNodeID, toNodeID int) (*Tunnel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := [2]int{fromNodeID, toNodeID}
	if _, ok := f.tunnels[key]; ok {
		return nil, ErrTunnelExists
	}
	tunnel := &Tunnel{ID: f.id(), FromNodeID: fromNodeID, ToNodeID: toNodeID}
	f.tunnels[key] = tunnel
	return tunnel, nil
}

func (f *fakeStore) DeleteTunnel(ctx context.Context, fromNodeID, toNodeID int) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := [2]int{fromNodeID, toNodeID}
	if _, ok := f.tunnels[key]; !ok {
		return false, nil
	}
	delete(f.tunnels, key)
	return true, nil
}

func (f *fakeStore) Neighbors(ctx context.Context, nodeID int) ([]int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var neighbors []int
	for key := range f.tunnels {
		if key[0] == nodeID {
			neighbors = append(neighbors, key[1])
		}
	}
	return neighbors, nil
}

func (f *fakeStore) TunnelExists(ctx context.Context, fromNodeID, toNodeID int) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.tunnels[[2]int{fromNodeID, toNodeID}]
	return ok, nil
}

func (f *fakeStore) CountTunnelsTouching(ctx context.Context, nodeID int) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	count := 0
	for key := range f.tunnels {
		if key[0] == nodeID || key[1] == nodeID {
			count++
		}
	}
	return count, nil
}

func (f *fakeStore) CreateStarbases(ctx context.Context, nodeIDs []int) ([]int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ids := make([]int, len(nodeIDs))
	for i, nodeID := range nodeIDs {
		id := f.id()
		f.starbases[id] = nodeID
		ids[i] = id
	}
	return ids, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestService(store Store) *Service {
	return NewService(store, nil, 1.5, 3, testLogger())
}

func TestGenerateGraph(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	summary, err := svc.GenerateGraph(context.Background(), 1, 50, 0.2, true)
	if err != nil {
		t.Fatalf("GenerateGraph: %v", err)
	}

	if summary.NodeCount != 50 {
		t.Errorf("node count = %d, want 50", summary.NodeCount)
	}
	if summary.StarbaseCount != 10 {
		t.Errorf("starbase count = %d, want 10", summary.StarbaseCount)
	}
	if summary.TunnelCount != len(store.tunnels) {
		t.Errorf("tunnel count = %d, store has %d", summary.TunnelCount, len(store.tunnels))
	}

	// Every node must have an outgoing tunnel under noDeadNodes.
	for id := range store.nodes {
		neighbors, _ := store.Neighbors(context.Background(), id)
		if len(neighbors) == 0 {
			t.Errorf("node %d has no outgoing tunnel", id)
		}
	}
}

func TestGenerateGraphConcurrentRealms(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	ctx := context.Background()

	// Realm creations are served concurrently; generations must not share
	// mutable randomness state.
	const realms = 8
	var wg sync.WaitGroup
	errs := make([]error, realms)
	summaries := make([]*GenerationSummary, realms)

	for i := 0; i < realms; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			summaries[i], errs[i] = svc.GenerateGraph(ctx, i+1, 40, 0.25, true)
		}(i)
	}
	wg.Wait()

	for i := 0; i < realms; i++ {
		if errs[i] != nil {
			t.Fatalf("realm %d: %v", i+1, errs[i])
		}
		if summaries[i].NodeCount != 40 {
			t.Errorf("realm %d node count = %d, want 40", i+1, summaries[i].NodeCount)
		}
		if summaries[i].StarbaseCount != 10 {
			t.Errorf("realm %d starbase count = %d, want 10", i+1, summaries[i].StarbaseCount)
		}
	}
}

func TestGenerateGraphValidation(t *testing.T) {
	svc := newTestService(newFakeStore())
	ctx := context.Background()

	cases := []struct {
		name        string
		nodeCount   int
		seedRate    float64
		noDeadNodes bool
	}{
		{"zero nodes", 0, 0.5, false},
		{"negative nodes", -3, 0.5, false},
		{"zero seed rate", 10, 0, false},
		{"seed rate above one", 10, 1.2, false},
		{"single node without dead ends", 1, 0.5, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.GenerateGraph(ctx, 1, tc.nodeCount, tc.seedRate, tc.noDeadNodes)
			if !apperrors.IsCode(err, apperrors.CodeInvalidParameter) {
				t.Errorf("got %v, want invalid_parameter", err)
			}
		})
	}
}

func TestAddTunnel(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	ctx := context.Background()

	nodes, _ := store.CreateNodes(ctx, 1, 3)
	a, b := nodes[0].ID, nodes[1].ID

	tunnel, err := svc.AddTunnel(ctx, a, b)
	if err != nil {
		t.Fatalf("AddTunnel: %v", err)
	}
	if tunnel.FromNodeID != a || tunnel.ToNodeID != b {
		t.Errorf("tunnel endpoints = %d->%d, want %d->%d", tunnel.FromNodeID, tunnel.ToNodeID, a, b)
	}

	// Directionality: the reverse pair is a distinct, addable tunnel.
	if _, err := svc.AddTunnel(ctx, b, a); err != nil {
		t.Errorf("reverse tunnel rejected: %v", err)
	}

	if _, err := svc.AddTunnel(ctx, a, b); !apperrors.IsCode(err, apperrors.CodeDuplicateEdge) {
		t.Errorf("duplicate tunnel: got %v, want duplicate_edge", err)
	}
	if _, err := svc.AddTunnel(ctx, a, a); !apperrors.IsCode(err, apperrors.CodeSelfLoop) {
		t.Errorf("self loop: got %v, want self_loop", err)
	}
	if _, err := svc.AddTunnel(ctx, a, 9999); !apperrors.IsCode(err, apperrors.CodeUnknownEntity) {
		t.Errorf("unknown endpoint: got %v, want unknown_entity", err)
	}

	// Tunnels never cross realm boundaries.
	otherRealm, _ := store.CreateNodes(ctx, 2, 1)
	if _, err := svc.AddTunnel(ctx, a, otherRealm[0].ID); !apperrors.IsCode(err, apperrors.CodeInvalidParameter) {
		t.Errorf("cross-realm tunnel: got %v, want invalid_parameter", err)
	}
}

func TestCanTraverseIsDirectional(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	ctx := context.Background()

	nodes, _ := store.CreateNodes(ctx, 1, 2)
	a, b := nodes[0].ID, nodes[1].ID
	if _, err := svc.AddTunnel(ctx, a, b); err != nil {
		t.Fatalf("AddTunnel: %v", err)
	}

	if ok, _ := svc.CanTraverse(ctx, a, b); !ok {
		t.Error("expected forward traversal to be allowed")
	}
	if ok, _ := svc.CanTraverse(ctx, b, a); ok {
		t.Error("expected reverse traversal to be denied")
	}
}

func TestRemoveNode(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	ctx := context.Background()

	nodes, _ := store.CreateNodes(ctx, 1, 2)
	a, b := nodes[0].ID, nodes[1].ID
	if _, err := svc.AddTunnel(ctx, a, b); err != nil {
		t.Fatalf("AddTunnel: %v", err)
	}

	// Both endpoints are pinned while the tunnel exists.
	if err := svc.RemoveNode(ctx, a); !apperrors.IsCode(err, apperrors.CodeNodeInUse) {
		t.Errorf("remove source: got %v, want node_in_use", err)
	}
	if err := svc.RemoveNode(ctx, b); !apperrors.IsCode(err, apperrors.CodeNodeInUse) {
		t.Errorf("remove target: got %v, want node_in_use", err)
	}

	if err := svc.RemoveTunnel(ctx, a, b); err != nil {
		t.Fatalf("RemoveTunnel: %v", err)
	}
	if err := svc.RemoveNode(ctx, a); err != nil {
		t.Errorf("remove after tunnel cleanup: %v", err)
	}
	if err := svc.RemoveNode(ctx, a); !apperrors.IsCode(err, apperrors.CodeUnknownEntity) {
		t.Errorf("double remove: got %v, want unknown_entity", err)
	}
}

func TestGetNeighbors(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	ctx := context.Background()

	nodes, _ := store.CreateNodes(ctx, 1, 3)
	a, b, c := nodes[0].ID, nodes[1].ID, nodes[2].ID
	svc.AddTunnel(ctx, a, b)
	svc.AddTunnel(ctx, a, c)

	neighbors, err := svc.GetNeighbors(ctx, a)
	if err != nil {
		t.Fatalf("GetNeighbors: %v", err)
	}
	if len(neighbors) != 2 {
		t.Errorf("got %d neighbors, want 2", len(neighbors))
	}

	if _, err := svc.GetNeighbors(ctx, 9999); !apperrors.IsCode(err, apperrors.CodeUnknownEntity) {
		t.Errorf("unknown node: got %v, want unknown_entity", err)
	}
}
