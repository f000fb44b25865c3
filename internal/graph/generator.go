package graph

import (
	"math/rand"
)

// planTunnels produces a duplicate-free set of directed edges over node
// numbers 1..nodeCount. With noDeadNodes every node gets one guaranteed
// outgoing edge before random extras are layered on, so out-degree >= 1 by
// construction. Self-loops are never planned.
func planTunnels(rng *rand.Rand, nodeCount int, noDeadNodes bool, extraFactor float64) [][2]int {
	if nodeCount < 2 {
		return nil
	}

	seen := make(map[[2]int]bool)
	var pairs [][2]int

	add := func(from, to int) {
		if from == to {
			return
		}
		pair := [2]int{from, to}
		if seen[pair] {
			return
		}
		seen[pair] = true
		pairs = append(pairs, pair)
	}

	if noDeadNodes {
		for from := 1; from <= nodeCount; from++ {
			to := randomOtherNode(rng, nodeCount, from)
			add(from, to)
		}
	}

	extras := int(float64(nodeCount) * extraFactor)
	for i := 0; i < extras; i++ {
		from := 1 + rng.Intn(nodeCount)
		to := randomOtherNode(rng, nodeCount, from)
		add(from, to)
	}

	return pairs
}

func randomOtherNode(rng *rand.Rand, nodeCount, exclude int) int {
	to := 1 + rng.Intn(nodeCount-1)
	if to >= exclude {
		to++
	}
	return to
}

// deadNodeNumbers returns node numbers with out-degree zero under the plan.
func deadNodeNumbers(pairs [][2]int, nodeCount int) []int {
	outDegree := make([]int, nodeCount+1)
	for _, pair := range pairs {
		outDegree[pair[0]]++
	}

	var dead []int
	for n := 1; n <= nodeCount; n++ {
		if outDegree[n] == 0 {
			dead = append(dead, n)
		}
	}
	return dead
}

// pickStarbaseNodes selects ceil(seedRate * nodeCount) distinct node numbers
// to host starbases.
func pickStarbaseNodes(rng *rand.Rand, nodeCount int, seedRate float64) []int {
	count := int(seedRate * float64(nodeCount))
	if float64(count) < seedRate*float64(nodeCount) {
		count++
	}
	if count > nodeCount {
		count = nodeCount
	}
	if count <= 0 {
		return nil
	}

	numbers := rng.Perm(nodeCount)[:count]
	for i := range numbers {
		numbers[i]++
	}
	return numbers
}
