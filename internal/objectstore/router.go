package objectstore

import "catalog-kit/internal/domain"

// Router dispatches object URIs to the store registered for their scheme.
type Router struct {
	stores map[string]domain.ObjectStore
}

// NewRouter creates an empty Router.
func NewRouter() *Router {
	return &Router{stores: map[string]domain.ObjectStore{}}
}

// Register sets the store for a scheme (SchemeS3, SchemeGCS, SchemeAzure).
func (r *Router) Register(scheme string, store domain.ObjectStore) {
	r.stores[scheme] = store
}

// Resolve parses uri and returns its location and the store serving it.
func (r *Router) Resolve(uri string) (Location, domain.ObjectStore, error) {
	loc, err := ParseURI(uri)
	if err != nil {
		return Location{}, nil, domain.ErrValidation("%s", err.Error())
	}
	store, ok := r.stores[loc.Scheme]
	if !ok {
		return Location{}, nil, domain.ErrValidation("no object store configured for %s:// URIs", loc.Scheme)
	}
	return loc, store, nil
}
