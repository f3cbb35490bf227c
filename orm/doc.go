/*
Package orm provides an easy to use db wrapper

Break state space into prefixed sections called Buckets.
* Each bucket contains only one type of object.
* It has a primary index (which may be composite),
and may possess secondary indexes.
* Easy queries for one and iteration.

Models are serialized with go-amino. Secondary indexes store the set of
primary keys under every index value, so they should only be used for
indexes that reference a modest number of entities.
*/
package orm
