/*
Package token implements fungible assets. Every asset is identified by an
address derived from its symbol. Balances are kept per (asset, owner) pair.

The splitter and amm extensions consume this package through the Controller
methods only.
*/
package token
