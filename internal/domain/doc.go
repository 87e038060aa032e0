// Package domain contains the core entities, error taxonomy, and repository
// ports of the reputation and rewards engine. It has no dependencies on
// adapters or transport; everything here is plain data and interfaces.
package domain
