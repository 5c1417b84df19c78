// Package testsupport holds shared fixtures for package tests: isolated
// configurations and small show scripts.
package testsupport
