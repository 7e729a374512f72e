// Package normalisers turns upstream records and names into canonical form.
//
//   - permit: decodes export elements and maps them onto domain.Permit
//   - builder: dedup keys and incorporation checks for contractor names
package normalisers
