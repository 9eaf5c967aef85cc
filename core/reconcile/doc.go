// Package reconcile provides a generic engine that mirrors a paginated upstream source
// into a local store.
//
// A cycle runs in explicit phases:
//
//  1. fetching: every partition of the Source is drained. A transport, decode or drift
//     error ends that partition; records read before the failure are kept.
//  2. merging: each entity is looked up by key. New keys are inserted, changed entities
//     are merged (absent incoming fields never erase stored values) and written, equal
//     entities are left alone.
//  3. reconciling: when every partition completed and the sweep was not empty, stored
//     entities whose key was not seen are deleted unless the Policy protects them.
//
// # Components
//
//   - Pager: turns a page-at-a-time fetch function into a lazy iter.Seq2, stopping when
//     pageNo*pageSize reaches the total reported by the first page.
//   - Engine: runs the phases against a Store with a Policy.
//   - Runner: the trigger boundary. It joins overlapping triggers through singleflight,
//     optionally holds a distributed lock, recovers panics and keeps the last Result.
//   - StorageSink: archives each Result as JSON in object storage.
//
// # Usage
//
//	pager := reconcile.NewPager(client.FetchPage, reconcile.PagerConfig{Source: "animals", PageSize: 500}, log)
//	engine := reconcile.NewEngine[*Animal](source, store, policy, reconcile.Options{DeleteAbsent: true}, log)
//	runner := reconcile.NewRunner("animals", engine.Run, log)
//
//	res := runner.Trigger(ctx)
package reconcile
