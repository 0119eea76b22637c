// Package featuregate blocks or redirects navigations to routes whose
// go-featuregate feature key is disabled for the current actor. Claims and
// actor data are written into the context handed to the gate, so resolvers
// that read scope from context see the navigating user.
package featuregate
