package model

import (
	"fmt"
	"sort"

	"github.com/chazu/daqgen/pkg/metadata"
)

// interpreterIgnoredFunctions are driver entry points never surfaced by the
// generated interpreter: legacy timestamp and trigger-value accessors
// superseded by newer equivalents.
var interpreterIgnoredFunctions = map[string]bool{
	"GetExtendedErrorInfo":          true,
	"GetArmStartTrigTimestampVal":   true,
	"GetFirstSampTimestampVal":      true,
	"GetRefTrigTimestampVal":        true,
	"GetStartTrigTimestampVal":      true,
	"GetTimingAttributeExTimestamp": true,
	"GetTimingAttributeTimestamp":   true,
	"GetTrigAttributeTimestamp":     true,
	"SetTimingAttributeExTimestamp": true,
	"SetTimingAttributeTimestamp":   true,
	"SetTrigAttributeTimestamp":     true,
	"GetArmStartTrigTrigWhen":       true,
	"GetFirstSampClkWhen":           true,
	"GetStartTrigTrigWhen":          true,
	"GetSyncPulseTimeWhen":          true,
	"SetArmStartTrigTrigWhen":       true,
	"SetFirstSampClkWhen":           true,
	"SetStartTrigTrigWhen":          true,
	"SetSyncPulseTimeWhen":          true,
}

// libraryIgnoredFunctions are event-registration primitives handled by the
// callback subsystem rather than generated call sites.
var libraryIgnoredFunctions = map[string]bool{
	"RegisterSignalEvent":        true,
	"RegisterEveryNSamplesEvent": true,
	"RegisterDoneEvent":          true,
}

// IgnoredForInterpreter reports whether a driver entry point is excluded
// from ingestion entirely.
func IgnoredForInterpreter(cname string) bool {
	return interpreterIgnoredFunctions[cname]
}

// IgnoredForLibrary reports whether an ingested entry point is excluded
// from the native-library backend. These still generate for the remote
// backend, where the service mediates event delivery.
func IgnoredForLibrary(cname string) bool {
	return libraryIgnoredFunctions[cname]
}

// Interpret filters and normalizes the raw catalog into Function models,
// sorted ascending by normalized name. The sort order is a contract:
// generated output must diff cleanly across runs regardless of map
// iteration order.
func Interpret(cat *metadata.Catalog) ([]*Function, error) {
	funcs := make([]*Function, 0, len(cat.Functions))
	for cname, raw := range cat.Functions {
		if IgnoredForInterpreter(cname) {
			continue
		}
		raw := raw
		skip := skippableParams(&raw)
		f, err := newFunction(cname, &raw, skip)
		if err != nil {
			return nil, fmt.Errorf("function %s: %w", cname, err)
		}
		funcs = append(funcs, f)
	}
	sort.Slice(funcs, func(i, j int) bool { return funcs[i].Name < funcs[j].Name })
	return funcs, nil
}

// skippableParams computes the per-function skip-set: parameters whose
// size the ivi-dance protocol discovers (the caller never supplies them),
// and parameters excluded from the public surface that exist only as
// explicit size or reserved slots.
func skippableParams(raw *metadata.Function) map[string]bool {
	skip := map[string]bool{}
	for _, p := range raw.Parameters {
		if p.Size != nil && p.Size.Mechanism == "ivi-dance" {
			skip[p.Size.Value] = true
		}
		if !p.InProto() && (p.Name == "size" || p.Name == "reserved") {
			skip[p.Name] = true
		}
	}
	return skip
}
