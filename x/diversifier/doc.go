/*
Package diversifier implements a wrapper around an accounting unit that
swaps the assets it receives into a different asset before distributing
them.

A diversifier owns a single internal unit and is its admin. While the
diversifier is active, funds are only distributed through
SwapAndDistribute. While it is inactive it behaves like the internal unit.
*/
package diversifier
