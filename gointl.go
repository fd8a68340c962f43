// Package gointl resolves localized text from JSON langpacks kept in an object store.
//
// A langpack is one JSON object per (namespace, language) holding translation
// keys and their values. Langpacks are read through a cache-fronted Store and
// resolved by a Resolver that lazily creates missing langpacks, falls back one
// hop to a configured fallback language, optionally registers unseen keys and
// interpolates {placeholder} values.
//
// Basic usage:
//
//	import (
//	    "context"
//	    "github.com/ZaguanLabs/gointl"
//	    "github.com/ZaguanLabs/gointl/cache"
//	    "github.com/ZaguanLabs/gointl/s3store"
//	)
//
//	func main() {
//	    objects, err := s3store.New(ctx, s3store.Config{Bucket: "intl", Region: "eu-west-1"})
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    store := gointl.NewStore(objects,
//	        gointl.WithBasePrefix("langpacks/"),
//	        gointl.WithCache(cache.NewInMemoryCache()),
//	        gointl.WithCacheTTL(10*time.Minute),
//	    )
//
//	    resolver, err := gointl.NewResolver(store, []string{"en", "fr"})
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    text, err := resolver.Localizer("fr").GetText(ctx, "app", "greet",
//	        map[string]string{"name": "Ada"}, false)
//	}
package gointl
