/*
Package session owns the lifecycle of conversation states.

Manager serializes every operation on one session id with a ref-counted mutex, optionally
layered with a ports.DistributedLocker when several replicas share a store. Update is the
only way a turn reaches the store: the mutation runs on a copy and is committed only when it
succeeds and the caller's context is still live.
*/
package session
