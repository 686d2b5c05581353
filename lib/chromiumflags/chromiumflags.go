// Package chromiumflags composes the Chromium launch flags the
// chromedp Backend Bridge adapter (internal/bridge/chromedp_bridge.go)
// passes to chromedp's exec allocator: a fixed baseline plus whatever the
// operator supplies at runtime via WEBDRIVER_CHROMIUM_FLAGS, with
// extension-related flags unioned instead of one side clobbering the
// other.
package chromiumflags

import "strings"

// appendCSVInto appends comma-separated values into dst, skipping empty items.
func appendCSVInto(dst *[]string, csv string) {
	for _, part := range strings.Split(csv, ",") {
		if p := strings.TrimSpace(part); p != "" {
			*dst = append(*dst, p)
		}
	}
}

// parseTokenStream extracts extension-related flags and collects non-extension flags.
// It returns the list of non-extension tokens and, via references, fills the buckets for
// --load-extension, --disable-extensions-except and a possible --disable-extensions token for that stream.
func parseTokenStream(tokens []string, load, except *[]string, disableAll *string) (nonExt []string) {
	for _, tok := range tokens {
		switch {
		case strings.HasPrefix(tok, "--load-extension="):
			val := strings.TrimPrefix(tok, "--load-extension=")
			appendCSVInto(load, val)
		case strings.HasPrefix(tok, "--disable-extensions-except="):
			val := strings.TrimPrefix(tok, "--disable-extensions-except=")
			appendCSVInto(except, val)
		case tok == "--disable-extensions":
			*disableAll = tok
		default:
			nonExt = append(nonExt, tok)
		}
	}
	return nonExt
}

// union merges two lists of strings, returning a new list with duplicates removed.
func union(base, rt []string) []string {
	seen := map[string]struct{}{}
	out := []string{}
	for _, v := range append(append([]string{}, base...), rt...) {
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// MergeFlags merges the adapter's baseline launch flags with the
// operator-supplied runtime flags, returning the final flag tokens to pass
// to the exec allocator. The merging logic respects extension-related flag
// semantics:
// 1) If runtime specifies --disable-extensions, it overrides everything extension related
// 2) Else if base specifies --disable-extensions and runtime does NOT specify any --load-extension, keep base disable
// 3) Else, build from merged load-extension paths
//
// NOTE: --disable-extensions-except is intentionally parsed but NOT re-emitted because it causes
// Chrome to disable external providers (including the policy loader), which prevents
// enterprise policy extensions (ExtensionInstallForcelist) from being fetched and installed.
// See Chromium source: extension_service.cc - external providers are only created when
// extensions_enabled() returns true, which is false when --disable-extensions-except is used.
// Any paths from --disable-extensions-except are merged into --load-extension instead.
//
// Non-extension flags from both base and runtime are combined with deduplication (first occurrence preserved).
func MergeFlags(baseTokens, runtimeTokens []string) []string {
	// Buckets
	var (
		baseNonExt     []string // Non-extension related flags contained in base
		runtimeNonExt  []string // Non-extension related flags contained in runtime
		baseLoad       []string // --load-extension flags contained in base
		baseExcept     []string // --disable-extensions-except flags for base (parsed but not re-emitted)
		rtLoad         []string // --load-extension flags contained in runtime
		rtExcept       []string // --disable-extensions-except flags contained in runtime (parsed but not re-emitted)
		baseDisableAll string   // --disable-extensions flag contained in base
		rtDisableAll   string   // --disable-extensions flag contained in runtime
	)

	baseNonExt = parseTokenStream(baseTokens, &baseLoad, &baseExcept, &baseDisableAll)
	runtimeNonExt = parseTokenStream(runtimeTokens, &rtLoad, &rtExcept, &rtDisableAll)

	// Merge extension lists - include paths from --disable-extensions-except in load paths
	// since we no longer emit --disable-extensions-except
	mergedLoad := union(baseLoad, rtLoad)
	mergedLoad = union(mergedLoad, baseExcept)
	mergedLoad = union(mergedLoad, rtExcept)

	// Construct final extension-related flags respecting override semantics:
	// 1) If runtime specifies --disable-extensions, it overrides everything extension related
	// 2) Else if base specifies --disable-extensions and runtime does NOT specify any --load-extension, keep base disable
	// 3) Else, build from merged load-extension paths
	var extFlags []string
	if rtDisableAll != "" {
		extFlags = append(extFlags, rtDisableAll)
	} else {
		if baseDisableAll != "" && len(rtLoad) == 0 && len(rtExcept) == 0 {
			extFlags = append(extFlags, baseDisableAll)
		} else if len(mergedLoad) > 0 {
			extFlags = append(extFlags, "--load-extension="+strings.Join(mergedLoad, ","))
		}
		// NOTE: --disable-extensions-except is intentionally NOT emitted here
	}

	// Combine and dedupe (preserving first occurrence)
	combined := append(append([]string{}, baseNonExt...), runtimeNonExt...)
	combined = append(combined, extFlags...)
	seen := make(map[string]struct{}, len(combined))
	final := make([]string, 0, len(combined))
	for _, tok := range combined {
		if tok == "" {
			continue
		}
		if _, ok := seen[tok]; ok {
			continue
		}
		seen[tok] = struct{}{}
		final = append(final, tok)
	}
	return final
}
