/*
Package splitter implements accounting units that split the assets they
receive between a fixed roster of shareholders.

Every unit owns a private ledger, scoped by the unit address, holding its
configuration, the roster with the share of every shareholder, the
allocations accrued by shareholders and the list of assets that can be
distributed.

Distribution never moves funds. It only credits every shareholder with a
claim proportional to its share, rounded down. Shareholders withdraw their
claims themselves, and the admin can transfer out whatever is not claimed.
Units can be chained: a unit holding a share in another unit withdraws its
claim with WithdrawExternalAllocation.
*/
package splitter
