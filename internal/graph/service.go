package graph

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	apperrors "github.com/Foxlin-Industries/ChronoVoid2500-sub001/internal/shared/errors"
)

type Service struct {
	store       Store
	cache       *Cache
	extraFactor float64
	maxRetries  int
	logger      *slog.Logger
}

func NewService(store Store, cache *Cache, extraTunnelFactor float64, maxGenerationRetries int, logger *slog.Logger) *Service {
	logger.Debug("Initializing graph service")

	if maxGenerationRetries < 1 {
		maxGenerationRetries = 1
	}

	return &Service{
		store:       store,
		cache:       cache,
		extraFactor: extraTunnelFactor,
		maxRetries:  maxGenerationRetries,
		logger:      logger,
	}
}

// GenerateGraph creates nodes numbered 1..nodeCount for a realm, synthesizes
// tunnels, and seeds starbases on a seedRate proportion of nodes. With
// noDeadNodes the tunnel plan is regenerated until every node has out-degree
// at least one.
func (s *Service) GenerateGraph(ctx context.Context, realmID, nodeCount int, seedRate float64, noDeadNodes bool) (*GenerationSummary, error) {
	logger := s.logger.With(
		"component", "graph_service",
		"operation", "generate_graph",
		"realm_id", realmID,
		"node_count", nodeCount,
		"seed_rate", seedRate,
		"no_dead_nodes", noDeadNodes,
	)
	logger.Info("Generating realm graph")

	if nodeCount <= 0 {
		return nil, apperrors.InvalidParameterf("node count must be positive, got %d", nodeCount)
	}
	if seedRate <= 0 || seedRate > 1 {
		return nil, apperrors.InvalidParameterf("starbase seed rate must be in (0, 1], got %g", seedRate)
	}
	if noDeadNodes && nodeCount < 2 {
		return nil, apperrors.InvalidParameterf("a %d-node realm cannot avoid dead nodes without self-loops", nodeCount)
	}

	nodes, err := s.store.CreateNodes(ctx, realmID, nodeCount)
	if err != nil {
		return nil, apperrors.StorageUnavailable("failed to create nodes", err)
	}

	idByNumber := make(map[int]int, len(nodes))
	for _, node := range nodes {
		idByNumber[node.NodeNumber] = node.ID
	}

	// *rand.Rand is not safe for concurrent use, and realm creations can run
	// in parallel, so each generation gets its own source.
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	plan, err := s.planWithRetries(rng, nodeCount, noDeadNodes)
	if err != nil {
		return nil, err
	}

	idPairs := make([][2]int, len(plan))
	for i, pair := range plan {
		idPairs[i] = [2]int{idByNumber[pair[0]], idByNumber[pair[1]]}
	}

	tunnelCount, err := s.store.CreateTunnels(ctx, idPairs)
	if err != nil {
		return nil, apperrors.StorageUnavailable("failed to create tunnels", err)
	}

	starbaseNumbers := pickStarbaseNodes(rng, nodeCount, seedRate)
	starbaseNodeIDs := make([]int, len(starbaseNumbers))
	for i, n := range starbaseNumbers {
		starbaseNodeIDs[i] = idByNumber[n]
	}

	starbaseIDs, err := s.store.CreateStarbases(ctx, starbaseNodeIDs)
	if err != nil {
		return nil, apperrors.StorageUnavailable("failed to create starbases", err)
	}

	summary := &GenerationSummary{
		RealmID:       realmID,
		NodeCount:     len(nodes),
		TunnelCount:   tunnelCount,
		StarbaseCount: len(starbaseIDs),
		StarbaseIDs:   starbaseIDs,
	}

	logger.Info("Realm graph generated",
		"nodes", summary.NodeCount,
		"tunnels", summary.TunnelCount,
		"starbases", summary.StarbaseCount,
	)
	return summary, nil
}

func (s *Service) planWithRetries(rng *rand.Rand, nodeCount int, noDeadNodes bool) ([][2]int, error) {
	for attempt := 1; attempt <= s.maxRetries; attempt++ {
		plan := planTunnels(rng, nodeCount, noDeadNodes, s.extraFactor)
		if !noDeadNodes {
			return plan, nil
		}
		if dead := deadNodeNumbers(plan, nodeCount); len(dead) == 0 {
			return plan, nil
		}
		s.logger.Warn("Tunnel plan left dead nodes, regenerating", "attempt", attempt)
	}
	return nil, apperrors.WrapInternal("graph generation exhausted retries with dead nodes remaining", nil)
}

// AddTunnel creates a directed link between two existing, distinct nodes.
func (s *Service) AddTunnel(ctx context.Context, fromNodeID, toNodeID int) (*Tunnel, error) {
	logger := s.logger.With(
		"component", "graph_service",
		"operation", "add_tunnel",
		"from_node_id", fromNodeID,
		"to_node_id", toNodeID,
	)
	logger.Debug("Adding tunnel")

	if fromNodeID == toNodeID {
		return nil, apperrors.SelfLoop(fromNodeID)
	}

	endpoints := make([]*Node, 0, 2)
	for _, nodeID := range []int{fromNodeID, toNodeID} {
		node, err := s.store.GetNode(ctx, nodeID)
		if err != nil {
			return nil, apperrors.StorageUnavailable("failed to look up node", err)
		}
		if node == nil {
			return nil, apperrors.UnknownEntity("node", nodeID)
		}
		endpoints = append(endpoints, node)
	}

	// Tunnels never cross realm boundaries.
	if endpoints[0].RealmID != endpoints[1].RealmID {
		return nil, apperrors.InvalidParameterf("nodes %d and %d belong to different realms", fromNodeID, toNodeID)
	}

	tunnel, err := s.store.InsertTunnel(ctx, fromNodeID, toNodeID)
	if errors.Is(err, ErrTunnelExists) {
		return nil, apperrors.DuplicateEdge(fromNodeID, toNodeID)
	}
	if err != nil {
		return nil, apperrors.StorageUnavailable("failed to add tunnel", err)
	}

	s.cache.Invalidate(ctx, fromNodeID)

	logger.Info("Tunnel added", "tunnel_id", tunnel.ID)
	return tunnel, nil
}

// RemoveTunnel is the companion cleanup operation for RemoveNode callers.
func (s *Service) RemoveTunnel(ctx context.Context, fromNodeID, toNodeID int) error {
	deleted, err := s.store.DeleteTunnel(ctx, fromNodeID, toNodeID)
	if err != nil {
		return apperrors.StorageUnavailable("failed to remove tunnel", err)
	}
	if !deleted {
		return apperrors.UnknownEntity("tunnel", fmt.Sprintf("%d->%d", fromNodeID, toNodeID))
	}

	s.cache.Invalidate(ctx, fromNodeID)
	return nil
}

// GetNeighbors returns outgoing tunnel targets in tunnel creation order.
func (s *Service) GetNeighbors(ctx context.Context, nodeID int) ([]int, error) {
	if neighbors, ok := s.cache.Neighbors(ctx, nodeID); ok {
		return neighbors, nil
	}

	node, err := s.store.GetNode(ctx, nodeID)
	if err != nil {
		return nil, apperrors.StorageUnavailable("failed to look up node", err)
	}
	if node == nil {
		return nil, apperrors.UnknownEntity("node", nodeID)
	}

	neighbors, err := s.store.Neighbors(ctx, nodeID)
	if err != nil {
		return nil, apperrors.StorageUnavailable("failed to query neighbors", err)
	}

	s.cache.SetNeighbors(ctx, nodeID, neighbors)
	return neighbors, nil
}

// CanTraverse reports whether a tunnel exists for the ordered pair.
func (s *Service) CanTraverse(ctx context.Context, fromNodeID, toNodeID int) (bool, error) {
	exists, err := s.store.TunnelExists(ctx, fromNodeID, toNodeID)
	if err != nil {
		return false, apperrors.StorageUnavailable("failed to check traversal", err)
	}
	return exists, nil
}

// RemoveNode deletes a node once no tunnel references it. Incident tunnels
// must be removed first; planets cascade and occupant positions go null.
func (s *Service) RemoveNode(ctx context.Context, nodeID int) error {
	logger := s.logger.With(
		"component", "graph_service",
		"operation", "remove_node",
		"node_id", nodeID,
	)
	logger.Debug("Removing node")

	node, err := s.store.GetNode(ctx, nodeID)
	if err != nil {
		return apperrors.StorageUnavailable("failed to look up node", err)
	}
	if node == nil {
		return apperrors.UnknownEntity("node", nodeID)
	}

	touching, err := s.store.CountTunnelsTouching(ctx, nodeID)
	if err != nil {
		return apperrors.StorageUnavailable("failed to count incident tunnels", err)
	}
	if touching > 0 {
		return apperrors.NodeInUse(nodeID, touching)
	}

	if err := s.store.DeleteNode(ctx, nodeID); err != nil {
		return apperrors.StorageUnavailable("failed to delete node", err)
	}

	s.cache.Invalidate(ctx, nodeID)

	logger.Info("Node removed")
	return nil
}

func (s *Service) GetNode(ctx context.Context, nodeID int) (*Node, error) {
	node, err := s.store.GetNode(ctx, nodeID)
	if err != nil {
		return nil, apperrors.StorageUnavailable("failed to look up node", err)
	}
	if node == nil {
		return nil, apperrors.UnknownEntity("node", nodeID)
	}
	return node, nil
}

func (s *Service) GetNodeByNumber(ctx context.Context, realmID, nodeNumber int) (*Node, error) {
	node, err := s.store.GetNodeByNumber(ctx, realmID, nodeNumber)
	if err != nil {
		return nil, apperrors.StorageUnavailable("failed to look up node", err)
	}
	if node == nil {
		return nil, apperrors.UnknownEntity("node", fmt.Sprintf("realm %d number %d", realmID, nodeNumber))
	}
	return node, nil
}
