package nodes

import "github.com/aretw0/concierge/pkg/domain"

// RouteAfterClassify picks the successor of classify from the override the classifier
// recorded. It reads nothing else and performs no I/O.
func RouteAfterClassify(state *domain.State) string {
	if state.Routing.NextNodeOverride == NodeResolveCity {
		return NodeResolveCity
	}
	return NodeRespond
}
