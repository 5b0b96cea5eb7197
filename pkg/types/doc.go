// Package types defines the record model, the class registry, the Store and
// Engine interfaces, and the standard errors shared by the hbnb shell and its
// storage backends.
package types
