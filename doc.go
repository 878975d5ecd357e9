/*
Package bazi computes deterministic BaZi (四柱八字, "Four Pillars") readings.

A reading takes an opaque birth text, derives four sexagenary pillars from a
SHA-256 digest of that text, and runs the classical analysis stages over them:
five-element tally, ten gods of the visible stems, hidden stems per branch and
a day-master strength judgment with recommended useful elements.

The derivation is a deterministic stand-in, not a calendar conversion: the
same text always yields the same chart, and near-identical texts almost always
yield different ones.

# Usage

	eng := bazi.New()
	rec, err := eng.Compute(ctx, domain.Request{Birth: "1990-05-15 08:30"})
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(rec.Reading.Strength.Recommendation)

Pillars that are already known can be analyzed directly with Engine.Analyze.

# Architecture

The Engine is a thin facade over the pure pkg/domain analysis. It guards input
(size, UTF-8, control characters), emits lifecycle hooks for observability and
optionally records each reading through a ports.ReadingRecorder. History is an
audit trail only: a reading is always computed fresh.

Adapters drive the engine through ports.ReadingEngine:

  - pkg/adapters/http: REST API with OpenAPI validation, SSE feed and metrics.
  - pkg/adapters/mcp: Model Context Protocol tools and resources.
  - cmd/bazi: the command-line interface.
*/
package bazi
