// Package redis provides a StateStore and a DistributedLocker backed by Redis, for
// deployments where several replicas serve the same sessions.
package redis
