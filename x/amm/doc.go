/*
Package amm implements constant product liquidity pools between pairs of
assets. A pool holds its reserves as a regular token owner; swaps charge a
0.3% fee that stays in the pool.
*/
package amm
