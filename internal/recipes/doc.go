// Package recipes provides the per-account recipe store.
//
// # Overview
//
// A Store is an ordered, in-memory collection of Recipe values owned by a
// single account. Recipes keep insertion order and are addressed by a small
// positive integer that is unique within the store.
//
// # Identifiers
//
// The store supports two numbering policies:
//
//   - IDPolicyCounter (default): a per-store counter that only grows, so an
//     identifier is never handed out twice.
//   - IDPolicySize: the identifier is len(recipes)+1 at creation time. After a
//     delete this can assign an identifier that is still in use; the policy
//     exists for parity with older recipe books.
//
// # Concurrency
//
// All methods are safe for concurrent use.
//
// # Typical Usage
//
//	store := recipes.NewStore(recipes.IDPolicyCounter)
//	r, _ := store.Create("Soup", "Water,Salt", "Boil")
//	_, _ = store.Update(r.ID, recipes.RecipeUpdate{Title: recipes.Ptr("Broth")})
//	_ = store.Delete(r.ID)
package recipes
