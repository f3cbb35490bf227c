package store

import "github.com/iov-one/splitnet"

// Move references for all storage types into this package
// for shorter names everywhere

type ReadOnlyKVStore = splitnet.ReadOnlyKVStore
type SetDeleter = splitnet.SetDeleter
type KVStore = splitnet.KVStore
type Batch = splitnet.Batch
type Iterator = splitnet.Iterator
type CacheableKVStore = splitnet.CacheableKVStore
type KVCacheWrap = splitnet.KVCacheWrap
type CommitKVStore = splitnet.CommitKVStore
type CommitID = splitnet.CommitID
type Model = splitnet.Model
