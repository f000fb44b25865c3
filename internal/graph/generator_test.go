package graph

import (
	"math/rand"
	"testing"
)

func TestPlanTunnelsNoDeadNodes(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for _, nodeCount := range []int{2, 5, 50, 200} {
		pairs := planTunnels(rng, nodeCount, true, 1.5)

		outDegree := make(map[int]int)
		seen := make(map[[2]int]bool)
		for _, pair := range pairs {
			if pair[0] == pair[1] {
				t.Fatalf("nodeCount=%d: planned self-loop at node %d", nodeCount, pair[0])
			}
			if pair[0] < 1 || pair[0] > nodeCount || pair[1] < 1 || pair[1] > nodeCount {
				t.Fatalf("nodeCount=%d: edge %v out of range", nodeCount, pair)
			}
			if seen[pair] {
				t.Fatalf("nodeCount=%d: duplicate edge %v", nodeCount, pair)
			}
			seen[pair] = true
			outDegree[pair[0]]++
		}

		for n := 1; n <= nodeCount; n++ {
			if outDegree[n] == 0 {
				t.Errorf("nodeCount=%d: node %d has no outgoing tunnel", nodeCount, n)
			}
		}
	}
}

func TestPlanTunnelsTooSmall(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	if pairs := planTunnels(rng, 1, true, 1.5); pairs != nil {
		t.Errorf("expected no plan for a single node, got %v", pairs)
	}
	if pairs := planTunnels(rng, 0, false, 1.5); pairs != nil {
		t.Errorf("expected no plan for zero nodes, got %v", pairs)
	}
}

func TestDeadNodeNumbers(t *testing.T) {
	pairs := [][2]int{{1, 2}, {2, 3}, {4, 1}}

	dead := deadNodeNumbers(pairs, 4)
	if len(dead) != 1 || dead[0] != 3 {
		t.Errorf("expected [3], got %v", dead)
	}

	if dead := deadNodeNumbers(nil, 2); len(dead) != 2 {
		t.Errorf("expected every node dead under an empty plan, got %v", dead)
	}
}

func TestPickStarbaseNodesCount(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	cases := []struct {
		nodeCount int
		seedRate  float64
		want      int
	}{
		{100, 0.15, 15},
		{10, 0.15, 2},  // rounds up
		{10, 0.01, 1},  // at least one
		{10, 1.0, 10},  // everything
		{1, 0.5, 1},
	}

	for _, tc := range cases {
		numbers := pickStarbaseNodes(rng, tc.nodeCount, tc.seedRate)
		if len(numbers) != tc.want {
			t.Errorf("nodeCount=%d seedRate=%g: got %d starbases, want %d",
				tc.nodeCount, tc.seedRate, len(numbers), tc.want)
		}

		seen := make(map[int]bool)
		for _, n := range numbers {
			if n < 1 || n > tc.nodeCount {
				t.Errorf("starbase node %d out of range 1..%d", n, tc.nodeCount)
			}
			if seen[n] {
				t.Errorf("duplicate starbase node %d", n)
			}
			seen[n] = true
		}
	}
}
