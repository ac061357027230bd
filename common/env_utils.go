//
// (C) Copyright 2019-2023 Intel Corporation.
//
// SPDX-License-Identifier: BSD-2-Clause-Patent
//

package common

import (
	"os"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// FilterEnvironment returns the subset of the supplied key-value pairs
// whose keys appear in the allowlist. Input order is preserved.
func FilterEnvironment(keyPairs []string, allowlist []string) []string {
	lookup := make(map[string]struct{}, len(allowlist))
	for _, key := range allowlist {
		lookup[key] = struct{}{}
	}

	filtered := []string{}
	for _, pair := range keyPairs {
		key := strings.SplitN(pair, "=", 2)[0]
		if _, inList := lookup[key]; inList {
			filtered = append(filtered, pair)
		}
	}

	return filtered
}

// FindKeyValue will return value from supplied name key if found in input slice of key-pairs
// (e.g. environment). ErrNotExist error returned if key cannot be found.
func FindKeyValue(keyPairs []string, name string) (string, error) {
	for _, pair := range keyPairs {
		kv := strings.SplitN(pair, "=", 2)
		if len(kv) == 2 && kv[0] == name {
			return kv[1], nil
		}
	}

	return "", errors.Wrapf(os.ErrNotExist, "Undefined environment variable %q", name)
}

// MergeKeyValues merges and deduplicates two slices of key-value pairs. Conflicts are resolved by
// taking the value from the second list. The result is sorted by key.
func MergeKeyValues(curVars []string, newVars []string) []string {
	mergeMap := make(map[string]string)
	for _, pair := range curVars {
		kv := strings.SplitN(pair, "=", 2)
		if len(kv) != 2 || kv[0] == "" {
			continue
		}
		if _, found := mergeMap[kv[0]]; found {
			continue
		}
		mergeMap[kv[0]] = kv[1]
	}

	seen := make(map[string]struct{})
	for _, pair := range newVars {
		kv := strings.SplitN(pair, "=", 2)
		if len(kv) != 2 || kv[0] == "" {
			continue
		}
		// strip duplicates in newVars
		if _, found := seen[kv[0]]; found {
			continue
		}
		seen[kv[0]] = struct{}{}
		mergeMap[kv[0]] = kv[1]
	}

	merged := make([]string, 0, len(mergeMap))
	for key, val := range mergeMap {
		merged = append(merged, key+"="+val)
	}
	sort.Strings(merged)

	return merged
}
