package main

import (
	"fmt"
	"io"

	"cstyle/internal/observ"
	"cstyle/internal/producer"
)

// printTimings writes the phase table and, for a cached producer, the cache
// hit rate.
func printTimings(out io.Writer, report observ.Report, src producer.Source) {
	if out == nil || report.Empty() {
		return
	}
	fmt.Fprint(out, report.String())
	if cached, ok := src.(*producer.CachedSource); ok {
		hits, misses := cached.Stats()
		fmt.Fprintf(out, "  tree cache: %d hit(s), %d miss(es)\n", hits, misses)
	}
}
