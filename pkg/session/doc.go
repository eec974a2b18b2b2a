/*
Package session implements session management and persistence orchestration.

A Manager serialises access to each session's exploration across goroutines
with reference-counted local locks and, when configured, across replicas
with a ports.DistributedLocker. Update is the read-modify-write primitive:
load, mutate, save, all under the session's lock.
*/
package session
