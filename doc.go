// Package cutoffgo is an embedded data engine for admission-cutoff records.
//
// Two engines answer queries over a corpus ingested at runtime: the record
// store (bulk ingest plus multi-predicate filtering and rank ordering) and
// the brute-force similarity index (vector upsert, ranked cosine search,
// and a deterministic text-to-vector generator). The Engine type is the
// boundary adapter around both: it owns one long-lived instance of each,
// decodes inbound JSON payloads into typed requests, performs the operation
// synchronously, and encodes the result back out. There is no persistence,
// no network I/O, and no background work.
//
// Quick start:
//
//	eng, err := cutoffgo.New()
//	if err != nil {
//	    panic(err)
//	}
//
//	snapshot, err := eng.ProcessCutoffData(ctx, payload)
//	results, err := eng.SearchCutoffs(ctx, filters, 20)
//
//	emb, _ := eng.GenerateEmbedding(ctx, "computer science maharashtra")
//	eng.AddVector(ctx, "rec-1", emb, map[string]string{"college": "COEP"})
//	hits, err := eng.SearchByVector(ctx, emb, 10)
//
// Typed access to the engines themselves is available through Store and
// Vectors for callers that do not need the JSON boundary.
package cutoffgo
