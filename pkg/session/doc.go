/*
Package session keeps composed agents running across requests and restarts.

A Manager owns one agent and a ports.PositionStore. Each session is a position
of that agent: Step loads it (or starts from the agent's initial position),
invokes the agent and saves the next position, all while holding the session's
lock. Locks are reference counted in memory and, with WithLocker, also taken
through a DistributedLocker so several replicas can share one store.
*/
package session
