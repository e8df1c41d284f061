// Package coerce turns a provider's raw text reply into a validated
// [result.StructuredResult]. Providers are instructed to return JSON only,
// but several of them wrap the object in conversational padding or emit
// slightly broken JSON; the coercer recovers both cases without ever
// silently substituting a default value.
//
// The pipeline is: direct parse → jsonrepair retry → first-'{'/last-'}'
// substring parse → jsonrepair retry on the substring → hard failure.
// After a successful parse the result's shape invariant is checked; a
// structurally valid but semantically mixed object is rejected the same way
// as unparseable text.
package coerce
