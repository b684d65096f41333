// Package actlog ingests ACT network logs and segments them into zones and
// encounters.
//
// This package allows you to:
//   - Decode network log lines into typed events
//   - Scan a whole log into an aggregate ParseResult with bounded memory
//   - Index a large log into zone sessions and encounters in one pass
//   - Re-scan a chosen time window, e.g. one encounter
//
// # Basic Usage
//
// To index a log and re-scan its first encounter:
//
//	zones, err := actlog.ScanStructure(ctx, text)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, z := range zones {
//	    for _, enc := range z.Encounters {
//	        res, err := actlog.Extract(ctx, text, enc.Start, enc.End,
//	            actlog.WithZonePlayers(z.Players),
//	        )
//	        if err != nil {
//	            log.Fatal(err)
//	        }
//	        fmt.Printf("%s: %d events\n", enc.BossName, len(res.Events))
//	    }
//	}
//
// # Stepping
//
// Scanner and StructureScanner are step functions. Scan and ScanStructure
// drive them with cancellation checks and yields between windows;
// ScanImmediate drives a Scanner without interruption. Callers with their
// own scheduling can call Step directly:
//
//	s, err := actlog.NewScanner(text, actlog.WithMaxEvents(100_000))
//	for s.Step() {
//	    bar.Set(s.Progress())
//	}
//	res := s.Result()
//
// # Caps
//
// WithMaxEvents and WithMaxStatusEvents bound memory. Lines past a cap are
// dropped, not buffered, and ParseResult.Truncated is set.
//
// # Timelines
//
// The [timeline] subpackage converts a ParseResult into the normalized
// timeline consumed by renderers.
//
// # Disclaimer
//
// This is an unofficial tool and is not affiliated with the ACT or FFXIV
// projects. Entity classification is heuristic.
package actlog
