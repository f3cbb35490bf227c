/*
Package splittest provides mocks and helpers used by the tests of the
splitnet packages.
*/
package splittest
