// Package params defines the edit-parameter record consumed by the export engine
// and the normalization gate every record passes through before use.
//
// A record can come from three places: the documented default (an identity
// edit), a user-edited form, or a generative model asked to guess plausible
// values for an image. None of those sources is trusted. Normalize turns any
// Raw record into an EditingParameters value whose fields are all present and
// inside their documented ranges, and it never fails.
//
// # Normalization Policy
//
//   - Absent scalar: neutral value (0, or 5500 for temperature)
//   - NaN scalar: treated as absent
//   - Out-of-range scalar: clamped to the nearest bound
//   - HSL entry with an unknown color name: dropped
//   - Duplicate HSL color name: last occurrence wins
//   - Curve point outside [0,255]: clamped
//   - Curve with fewer than 2 distinct points: identity curve (0,0)-(255,255)
//
// Curve points are sorted by input and deduplicated (last wins), and the
// domain endpoints 0 and 255 are synthesized at the curve's boundary output
// when missing.
//
// # Immutability
//
// EditingParameters is a value type. Code in this module never mutates a record
// after normalization; a new edit produces a new record, so an export always
// runs against a consistent snapshot.
package params
