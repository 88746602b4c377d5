package core

// FeatureConfig toggles optional surfaces of the API.
// It is built once at startup and handed to the route builder, so route composition depends on nothing else.
type FeatureConfig struct {
	Vocabulary bool // process listings: statuses, stages, actions
	Projection bool // stateless projection of a (status, due_at) pair
	Entities   bool // projection of stored entity snapshots
	Actions    bool // forwarding of permitted actions; needs Entities
}

// AllFeatures enables every surface.
func AllFeatures() FeatureConfig {
	return FeatureConfig{Vocabulary: true, Projection: true, Entities: true, Actions: true}
}

// ActionsEnabled reports whether action routes can be mounted.
func (fc FeatureConfig) ActionsEnabled() bool {
	return fc.Entities && fc.Actions
}
