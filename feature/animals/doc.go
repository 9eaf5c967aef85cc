// Package animals mirrors the data.go.kr abandoned-animal registry (abandonmentPublic_v2)
// into the abandoned_animals table.
//
// Each partition (registry state such as "protect" or "notice") is paged through in order,
// records are mapped into Animal, merged without erasing known values, and rows the registry
// no longer reports are deleted unless their process_state is the protected state.
package animals
