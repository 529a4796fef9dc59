// Package validation checks flat string maps against pipe-separated rules.
// The loader uses it to validate module manifests before anything is
// registered.
//
// # Basic Usage
//
//	v := validation.Make(map[string]string{
//	    "name":      "Circle",
//	    "factory":   "geometry.circle",
//	    "lifecycle": "singleton",
//	}, validation.Rules{
//	    "name":      "required|max:200",
//	    "factory":   "required_without:value|prohibited_with:value",
//	    "lifecycle": "nullable|in:singleton,transient",
//	})
//
//	if err := v.Validate(); err != nil {
//	    // errors.Join of every message, ordered by field
//	}
//
// # Available Rules
//
//   - required                 field must be present and non-empty
//   - required_without:other   required unless other is present
//   - prohibited_with:other    must be empty when other is present
//   - nullable                 empty values skip the remaining rules
//   - integer, boolean
//   - max:n                    at most n UTF-8 characters
//   - in:a,b,c                 one of the listed values (case-insensitive)
//   - not_in:a,b,c
//   - alpha_dash               letters, numbers, dashes and underscores
//   - identifier               no spaces, commas or parentheses
//   - regex:pattern
//
// Rules for a field stop at the first failure.
package validation
