/*
Package domain contains the BaZi (四柱八字) chart model and its analysis.

Everything here is a pure function over immutable tables built at init time;
there is no I/O and no shared mutable state, so readings may be computed
concurrently without coordination.

# Key Entities

  - Element, Stem, Branch: the five phases and the two cycle axes, with hidden stems per branch.
  - Pillar: a stem/branch pair; Sexagenary returns the 60-entry cycle.
  - Chart: four pillars. DeriveChart builds one from a SHA-256 digest of opaque
    text; it is a deterministic stand-in, not a calendar conversion.
  - ElementCount, TenGod, HiddenStemAnalysis, StrengthJudgment: the analysis stages.
  - Reading: the aggregated result of Analyze.
*/
package domain
