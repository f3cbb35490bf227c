/*
Package x holds the authentication helpers shared by the extensions.

Every sub-package is one extension of the node: it registers its messages
on the router, its queries on the query router and, where it has any, its
genesis section. Extensions call into each other only through the small
interfaces declared next to their consumers.
*/
package x
