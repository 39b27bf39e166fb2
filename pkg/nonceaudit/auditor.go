package nonceaudit

import (
	"context"
	"fmt"
	"math/big"
	"runtime"
	"sort"
	"sync"

	"github.com/mahdiidarabi/ecdsa-secp256k1/pkg/ecdsa"
)

// Pattern is a nonce relationship k2 = A·k1 + B to test record pairs
// against.
type Pattern struct {
	Name string
	A    *big.Int
	B    *big.Int
}

// sharedRPatterns are the relationships that leave r unchanged. Records
// sharing r are only tested against these.
var sharedRPatterns = []Pattern{
	{Name: "same_nonce", A: big.NewInt(1), B: big.NewInt(0)},
	{Name: "negated_nonce", A: big.NewInt(-1), B: big.NewInt(0)},
}

// DefaultPatterns returns the relationships produced by the most common
// broken nonce generators.
func DefaultPatterns() []Pattern {
	return []Pattern{
		{Name: "counter_+1", A: big.NewInt(1), B: big.NewInt(1)},
		{Name: "counter_-1", A: big.NewInt(1), B: big.NewInt(-1)},
		{Name: "multiply_2", A: big.NewInt(2), B: big.NewInt(0)},
	}
}

// Auditor scans a set of records for pairs whose nonces are related, and
// recovers the private key from any it finds.
type Auditor struct {
	// Patterns are tried, in order, on every pair that does not share r.
	Patterns []Pattern

	// MaxPairs limits the number of record pairs examined (0 = all).
	MaxPairs int

	// NumWorkers controls parallelization (0 = auto-detect).
	NumWorkers int
}

// NewAuditor returns an auditor using the default patterns.
func NewAuditor() *Auditor {
	return &Auditor{Patterns: DefaultPatterns()}
}

// WithPatterns appends extra patterns to the auditor.
func (a *Auditor) WithPatterns(patterns ...Pattern) *Auditor {
	a.Patterns = append(a.Patterns, patterns...)
	return a
}

// Scan checks every pair of records. Pairs sharing r are tested for a reused
// nonce, all other pairs against the configured patterns. Every candidate
// key is checked to reproduce both signatures before it is reported; when
// pub is non-nil each finding also records whether it matches pub.
//
// Args:
//   - ctx: Cancels the scan
//   - records: Records to pair up; each must have z, r and s set
//   - pub: Optional public key to check recovered keys against
//
// Returns:
//   - Findings ordered by record pair, or ctx.Err() if the context is
//     cancelled before the scan completes
func (a *Auditor) Scan(ctx context.Context, records []*Record, pub *ecdsa.PublicKey) ([]Finding, error) {
	for i, rec := range records {
		if err := rec.validate(); err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
	}
	if len(records) < 2 {
		return nil, nil
	}

	numWorkers := a.NumWorkers
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	log.Infof("Scanning %d records with %d patterns on %d workers",
		len(records), len(a.Patterns), numWorkers)

	pairs := make(chan [2]int, numWorkers*4)
	found := make(chan Finding, numWorkers)

	var wg sync.WaitGroup
	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for pair := range pairs {
				if ctx.Err() != nil {
					continue
				}
				if f, ok := a.checkPair(records, pair, pub); ok {
					found <- f
				}
			}
		}()
	}

	go func() {
		defer close(pairs)
		count := 0
		for i := 0; i < len(records); i++ {
			for j := i + 1; j < len(records); j++ {
				if a.MaxPairs > 0 && count >= a.MaxPairs {
					return
				}
				select {
				case <-ctx.Done():
					return
				case pairs <- [2]int{i, j}:
					count++
				}
			}
		}
	}()

	go func() {
		wg.Wait()
		close(found)
	}()

	var findings []Finding
	for f := range found {
		log.Infof("Recovered key from records %d and %d (%s)",
			f.RecordPair[0], f.RecordPair[1], f.Pattern)
		findings = append(findings, f)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sort.Slice(findings, func(i, j int) bool {
		pi, pj := findings[i].RecordPair, findings[j].RecordPair
		if pi[0] != pj[0] {
			return pi[0] < pj[0]
		}
		return pi[1] < pj[1]
	})
	return findings, nil
}

// checkPair returns the first relationship that explains the pair.
func (a *Auditor) checkPair(records []*Record, pair [2]int, pub *ecdsa.PublicKey) (Finding, bool) {
	rec1, rec2 := records[pair[0]], records[pair[1]]

	patterns := a.Patterns
	if rec1.R.Cmp(rec2.R) == 0 {
		patterns = sharedRPatterns
	}

	for _, p := range patterns {
		rel := AffineRelationship{A: p.A, B: p.B}
		d, err := RecoverPrivateKey(rec1, rec2, p.A, p.B)
		if err != nil {
			log.Tracef("Records %d and %d, %s: %v", pair[0], pair[1], p.Name, err)
			continue
		}
		if !consistent(rec1, rec2, rel, d) {
			continue
		}

		return Finding{
			PrivateKey:   d,
			Relationship: rel,
			RecordPair:   pair,
			Pattern:      p.Name,
			MatchesKey:   pub != nil && VerifyRecoveredKey(d, pub),
		}, true
	}
	return Finding{}, false
}
