// Package testutil contains helper builders, recorders and fakes used across
// tests to reduce boilerplate when constructing bags, observing lifecycle
// notifications and asserting log output. They are not intended for
// production usage.
package testutil
