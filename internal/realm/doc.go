// Package realm groups realms into auction houses.
//
// Connected realms share one auction house. The realm directory lists, for
// every realm, the slugs it is connected to; realms whose normalized
// connection sets are equal form one Group. Slugs not present in the
// directory are ignored.
package realm
