// Package lock provides a Redis-backed lock used to keep a single sync cycle per
// source running across processes.
//
// Locks are taken with SET NX and a random token, and released through a Lua script
// that only deletes the key when the token still matches.
package lock
