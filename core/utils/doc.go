// Package utils provides common conversion helpers for loosely typed upstream payloads,
// where the same field may arrive as a JSON string or a JSON number.
package utils
